package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTiers = RiskTiers{
	DefaultPct: 2.0,
	HighPct:    3.0,
	LowPct:     1.0,
	HighATR:    50,
	LowATR:     20,
}

func TestEffectiveRiskPct(t *testing.T) {
	assert.Equal(t, 2.0, testTiers.EffectiveRiskPct(35))
	assert.Equal(t, 3.0, testTiers.EffectiveRiskPct(60))
	assert.Equal(t, 1.0, testTiers.EffectiveRiskPct(10))
	// границы относятся к средней ступени
	assert.Equal(t, 2.0, testTiers.EffectiveRiskPct(50))
	assert.Equal(t, 2.0, testTiers.EffectiveRiskPct(20))
}

func TestSizeByRisk(t *testing.T) {
	t.Run("default tier", func(t *testing.T) {
		// 2% от 100000 = 2000, при ATR 40 → 50 единиц
		qty, err := SizeByRisk(100000, 40, testTiers)
		require.NoError(t, err)
		assert.InDelta(t, 50.0, qty, 1e-9)
	})

	t.Run("high atr tier", func(t *testing.T) {
		qty, err := SizeByRisk(100000, 60, testTiers)
		require.NoError(t, err)
		assert.InDelta(t, 50.0, qty, 1e-9) // 3% / 60
	})

	t.Run("low atr tier", func(t *testing.T) {
		qty, err := SizeByRisk(100000, 10, testTiers)
		require.NoError(t, err)
		assert.InDelta(t, 100.0, qty, 1e-9) // 1% / 10
	})

	t.Run("qty non-increasing as risk pct shrinks", func(t *testing.T) {
		// капитал и ATR фиксированы, меняется только ступень риска
		prev := math.Inf(1)
		for _, pct := range []float64{3.0, 2.0, 1.0, 0.5} {
			tiers := testTiers
			tiers.DefaultPct = pct
			qty, err := SizeByRisk(100000, 40, tiers)
			require.NoError(t, err)
			assert.LessOrEqual(t, qty, prev, "riskPct=%v", pct)
			prev = qty
		}
	})

	t.Run("qty grows with capital", func(t *testing.T) {
		small, err := SizeByRisk(50000, 40, testTiers)
		require.NoError(t, err)
		big, err := SizeByRisk(200000, 40, testTiers)
		require.NoError(t, err)
		assert.Greater(t, big, small)
	})

	t.Run("bad inputs", func(t *testing.T) {
		_, err := SizeByRisk(0, 40, testTiers)
		assert.Error(t, err)
		_, err = SizeByRisk(-1, 40, testTiers)
		assert.Error(t, err)
		_, err = SizeByRisk(100000, 0, testTiers)
		assert.Error(t, err)
		_, err = SizeByRisk(100000, math.NaN(), testTiers)
		assert.Error(t, err)
	})
}
