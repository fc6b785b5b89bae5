package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"intraday_bot/internal/models"
)

func withVolumes(candles []models.Candle, volumes ...float64) []models.Candle {
	out := make([]models.Candle, len(candles))
	copy(out, candles)
	for i, v := range volumes {
		out[len(out)-len(volumes)+i].Volume = v
	}
	return out
}

func TestVolumeFilter(t *testing.T) {
	cfg := FilterConfig{VolumeWindow: 20, VolumeMultiplier: 1.5}
	base := trendingCandles(30, 100, 0.1) // объём 100 у всех

	t.Run("spike admits", func(t *testing.T) {
		// среднее за окно = (19*100+300)/20 = 110, порог 165
		candles := withVolumes(base, 300)
		got := VolumeFilter(candles, cfg)
		assert.True(t, got.Admit)
		assert.Equal(t, models.GateVolume, got.Reason)
	})

	t.Run("thin volume avoids", func(t *testing.T) {
		candles := withVolumes(base, 50)
		assert.False(t, VolumeFilter(candles, cfg).Admit)
	})

	t.Run("average volume avoids", func(t *testing.T) {
		assert.False(t, VolumeFilter(base, cfg).Admit)
	})

	t.Run("too few candles avoids", func(t *testing.T) {
		assert.False(t, VolumeFilter(base[:10], cfg).Admit)
	})
}

func TestVolatilityFilter(t *testing.T) {
	cfg := FilterConfig{MinATR: 20, MinADX: 20}

	tests := []struct {
		name  string
		snap  Snapshot
		admit bool
	}{
		{"both above thresholds", Snapshot{ATR: 30, ADX: 30}, true},
		{"low atr avoids even with strong adx", Snapshot{ATR: 10, ADX: 90}, false},
		{"low adx avoids even with wide atr", Snapshot{ATR: 90, ADX: 10}, false},
		{"nan atr avoids", Snapshot{ATR: math.NaN(), ADX: 30}, false},
		{"nan adx avoids", Snapshot{ATR: 30, ADX: math.NaN()}, false},
		{"exact thresholds admit", Snapshot{ATR: 20, ADX: 20}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VolatilityFilter(tt.snap, cfg)
			assert.Equal(t, tt.admit, got.Admit)
			assert.Equal(t, models.GateVolatility, got.Reason)
		})
	}
}
