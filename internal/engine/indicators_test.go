package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intraday_bot/internal/models"
)

func mkCandles(closes []float64, spread float64) []models.Candle {
	out := make([]models.Candle, len(closes))
	start := time.Date(2026, 8, 31, 9, 15, 0, 0, time.UTC)
	for i, c := range closes {
		out[i] = models.Candle{
			Start:  start.Add(time.Duration(i) * 5 * time.Minute),
			End:    start.Add(time.Duration(i+1) * 5 * time.Minute),
			Open:   c,
			High:   c + spread/2,
			Low:    c - spread/2,
			Close:  c,
			Volume: 100,
		}
	}
	return out
}

func TestEMA(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, EMA(nil, 9))
	})

	t.Run("seeds with first value", func(t *testing.T) {
		out := EMA([]float64{42, 43, 44}, 9)
		assert.Equal(t, 42.0, out[0])
	})

	t.Run("constant series stays constant", func(t *testing.T) {
		out := EMA([]float64{10, 10, 10, 10}, 5)
		for _, v := range out {
			assert.InDelta(t, 10.0, v, 1e-12)
		}
	})

	t.Run("bounded by series min and max", func(t *testing.T) {
		values := []float64{100, 105, 95, 110, 90, 102}
		out := EMA(values, 3)
		for _, v := range out {
			assert.GreaterOrEqual(t, v, 90.0)
			assert.LessOrEqual(t, v, 110.0)
		}
	})
}

func TestRollingMean(t *testing.T) {
	out := rollingMean([]float64{1, 2, 3, 4, 5}, 3)

	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 2.0, out[2], 1e-12)
	assert.InDelta(t, 3.0, out[3], 1e-12)
	assert.InDelta(t, 4.0, out[4], 1e-12)
}

func TestATR(t *testing.T) {
	// high-low = 2 на каждом баре
	candles := mkCandles([]float64{100, 101, 102, 103, 104}, 2)
	atr := ATR(candles, 3)

	assert.True(t, math.IsNaN(atr[0]))
	assert.True(t, math.IsNaN(atr[1]))
	assert.InDelta(t, 2.0, atr[2], 1e-12)
	assert.InDelta(t, 2.0, atr[4], 1e-12)
}

func TestDirectionalIndex(t *testing.T) {
	candles := mkCandles([]float64{100, 102, 104, 106, 108}, 2)
	atr := ATR(candles, 3)
	d := DirectionalIndex(candles, atr, 3)

	// первый бар и бары без ATR — NaN, не паника
	assert.True(t, math.IsNaN(d.PlusDI[0]))
	assert.True(t, math.IsNaN(d.DX[1]))

	// рост: +DI = 100*(2/2) = 100, −DI = 100*(-2/2) = -100, sum = 0 → NaN
	assert.InDelta(t, 100.0, d.PlusDI[2], 1e-9)
	assert.InDelta(t, -100.0, d.MinusDI[2], 1e-9)
	assert.True(t, math.IsNaN(d.DX[2]), "деление на ноль должно давать NaN")
}

func TestDirectionalIndexZeroATR(t *testing.T) {
	candles := mkCandles([]float64{100, 100, 100, 100}, 0)
	atr := ATR(candles, 2)
	d := DirectionalIndex(candles, atr, 2)

	for i := range candles {
		assert.True(t, math.IsNaN(d.PlusDI[i]))
	}
}

func TestRSI(t *testing.T) {
	t.Run("only gains is 100", func(t *testing.T) {
		closes := make([]float64, 20)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		out := RSI(closes, 14)
		require.True(t, Valid(out[len(out)-1]))
		assert.InDelta(t, 100.0, out[len(out)-1], 1e-9)
	})

	t.Run("warmup is NaN", func(t *testing.T) {
		out := RSI([]float64{100, 101, 102}, 14)
		for _, v := range out {
			assert.True(t, math.IsNaN(v))
		}
	})
}

func TestVWAP(t *testing.T) {
	candles := mkCandles([]float64{100, 100, 100}, 0)
	out := VWAP(candles)
	for _, v := range out {
		assert.InDelta(t, 100.0, v, 1e-12)
	}
}

func TestTakeSnapshotEmpty(t *testing.T) {
	snap := TakeSnapshot(nil)
	assert.True(t, math.IsNaN(snap.Close))
	assert.True(t, math.IsNaN(snap.ATR))
	assert.True(t, math.IsNaN(snap.ADX))
}

func TestTakeSnapshotLastValues(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.1
	}
	candles := mkCandles(closes, 2)
	snap := TakeSnapshot(candles)

	assert.Equal(t, closes[len(closes)-1], snap.Close)
	assert.InDelta(t, 2.0, snap.ATR, 1e-9)
	assert.True(t, Valid(snap.EMA9))
	assert.True(t, Valid(snap.VWAP))
}
