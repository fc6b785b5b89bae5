package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"intraday_bot/internal/models"
)

func trendingCandles(n int, start, step float64) []models.Candle {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)*step
	}
	return mkCandles(closes, 2)
}

func TestCheckMultiTimeframeTrend(t *testing.T) {
	tests := []struct {
		name     string
		hourBars []models.Candle
		fiveBars []models.Candle
		want     models.TrendSignal
	}{
		{
			name:     "both rising is bullish",
			hourBars: trendingCandles(60, 100, 1),
			fiveBars: trendingCandles(60, 100, 0.2),
			want:     models.TrendBullish,
		},
		{
			name:     "both falling is bearish",
			hourBars: trendingCandles(60, 200, -1),
			fiveBars: trendingCandles(60, 200, -0.2),
			want:     models.TrendBearish,
		},
		{
			name:     "disagreement is neutral",
			hourBars: trendingCandles(60, 100, 1),
			fiveBars: trendingCandles(60, 200, -0.2),
			want:     models.TrendNeutral,
		},
		{
			name:     "too few hour bars is neutral",
			hourBars: trendingCandles(10, 100, 1),
			fiveBars: trendingCandles(60, 100, 0.2),
			want:     models.TrendNeutral,
		},
		{
			name:     "flat is neutral",
			hourBars: trendingCandles(60, 100, 0),
			fiveBars: trendingCandles(60, 100, 0),
			want:     models.TrendNeutral,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckMultiTimeframeTrend(tt.hourBars, tt.fiveBars))
		})
	}
}

// один и тот же вход — один и тот же вердикт, без скрытого состояния
func TestCheckMultiTimeframeTrendIdempotent(t *testing.T) {
	hour := trendingCandles(60, 100, 1)
	five := trendingCandles(60, 100, 0.2)

	first := CheckMultiTimeframeTrend(hour, five)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, CheckMultiTimeframeTrend(hour, five))
	}
}

func TestCheckEmaTrend(t *testing.T) {
	tests := []struct {
		name string
		bars []models.Candle
		want models.EmaTrendSignal
	}{
		{"rising is strong buy", trendingCandles(250, 100, 0.5), models.EmaStrongBuy},
		{"falling is strong sell", trendingCandles(250, 300, -0.5), models.EmaStrongSell},
		{"flat is sideways", trendingCandles(250, 100, 0), models.EmaSideways},
		{"short window is sideways", trendingCandles(100, 100, 0.5), models.EmaSideways},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckEmaTrend(tt.bars))
		})
	}
}
