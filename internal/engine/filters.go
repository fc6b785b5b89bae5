package engine

import "intraday_bot/internal/models"

// FilterConfig — пороги фильтров. MinATR в абсолютных единицах цены,
// поэтому завязан на масштаб инструмента (см. configs/).
type FilterConfig struct {
	VolumeWindow     int     // 20
	VolumeMultiplier float64 // 1.5
	MinATR           float64 // 20
	MinADX           float64 // 20
}

// VolumeFilter пускает только всплеск объёма:
// текущий объём > multiplier × среднего за окно.
func VolumeFilter(candles []models.Candle, cfg FilterConfig) models.GateResult {
	if len(candles) < cfg.VolumeWindow {
		return models.AvoidTrade(models.GateVolume)
	}

	window := candles[len(candles)-cfg.VolumeWindow:]
	var sum float64
	for _, c := range window {
		sum += c.Volume
	}
	mean := sum / float64(cfg.VolumeWindow)

	current := candles[len(candles)-1].Volume
	if !Valid(mean) || current <= cfg.VolumeMultiplier*mean {
		return models.AvoidTrade(models.GateVolume)
	}
	return models.Admit(models.GateVolume)
}

// VolatilityFilter режет слабую волатильность и слабый тренд.
// NaN от индикаторов (мало данных, деление на ноль) — всегда avoid.
func VolatilityFilter(snap Snapshot, cfg FilterConfig) models.GateResult {
	if !Valid(snap.ATR) || snap.ATR < cfg.MinATR {
		return models.AvoidTrade(models.GateVolatility)
	}
	if !Valid(snap.ADX) || snap.ADX < cfg.MinADX {
		return models.AvoidTrade(models.GateVolatility)
	}
	return models.Admit(models.GateVolatility)
}
