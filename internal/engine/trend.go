package engine

import "intraday_bot/internal/models"

// Классификаторы тренда — чистые функции над окнами свечей.
// Свечи подтягивает оркестратор, поэтому на одинаковом входе
// результат всегда одинаковый.

const (
	minTrendBars   = 50
	emaTrendWindow = 200
)

// CheckMultiTimeframeTrend — согласие часа и пятиминутки по EMA(50).
// Bullish только когда оба последних клоуза выше своих EMA(50),
// Bearish — когда оба ниже, иначе Neutral.
func CheckMultiTimeframeTrend(hourBars, fiveMinBars []models.Candle) models.TrendSignal {
	if len(hourBars) < minTrendBars || len(fiveMinBars) < minTrendBars {
		return models.TrendNeutral
	}

	hourClose := hourBars[len(hourBars)-1].Close
	fiveClose := fiveMinBars[len(fiveMinBars)-1].Close
	hourEMA := last(EMA(closesOf(hourBars), 50))
	fiveEMA := last(EMA(closesOf(fiveMinBars), 50))

	if !Valid(hourEMA) || !Valid(fiveEMA) {
		return models.TrendNeutral
	}

	switch {
	case hourClose > hourEMA && fiveClose > fiveEMA:
		return models.TrendBullish
	case hourClose < hourEMA && fiveClose < fiveEMA:
		return models.TrendBearish
	default:
		return models.TrendNeutral
	}
}

// CheckEmaTrend — EMA(200)/EMA(50) на 200-барном окне 5m.
func CheckEmaTrend(bars []models.Candle) models.EmaTrendSignal {
	if len(bars) < emaTrendWindow {
		return models.EmaSideways
	}

	closes := closesOf(bars)
	ema200 := last(EMA(closes, 200))
	ema50 := last(EMA(closes, 50))
	lastClose := closes[len(closes)-1]

	if !Valid(ema200) || !Valid(ema50) {
		return models.EmaSideways
	}

	switch {
	case lastClose > ema200 && ema50 > ema200:
		return models.EmaStrongBuy
	case lastClose < ema200 && ema50 < ema200:
		return models.EmaStrongSell
	default:
		return models.EmaSideways
	}
}

func closesOf(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}
