package engine

import "fmt"

// RiskTiers — ступени риска на сделку в процентах от капитала.
// Высокий ATR → больше риска (ход шире), низкий → меньше.
type RiskTiers struct {
	DefaultPct float64 // 2.0
	HighPct    float64 // 3.0 при ATR > HighATR
	LowPct     float64 // 1.0 при ATR < LowATR
	HighATR    float64 // 50
	LowATR     float64 // 20
}

// EffectiveRiskPct выбирает ступень по текущему ATR.
func (t RiskTiers) EffectiveRiskPct(atr float64) float64 {
	switch {
	case atr > t.HighATR:
		return t.HighPct
	case atr < t.LowATR:
		return t.LowPct
	default:
		return t.DefaultPct
	}
}

// SizeByRisk — размер позиции так, чтобы денежный риск был равен
// riskPct от капитала при ходе цены в один ATR.
func SizeByRisk(capital, atr float64, tiers RiskTiers) (float64, error) {
	if capital <= 0 {
		return 0, fmt.Errorf("capital <= 0")
	}
	if !Valid(atr) || atr <= 0 {
		return 0, fmt.Errorf("atr <= 0")
	}

	riskPct := tiers.EffectiveRiskPct(atr) / 100.0
	if riskPct <= 0 {
		return 0, fmt.Errorf("riskPct <= 0")
	}

	maxRiskAmount := riskPct * capital
	qty := maxRiskAmount / atr
	if qty <= 0 {
		return 0, fmt.Errorf("qty <= 0")
	}
	return qty, nil
}
