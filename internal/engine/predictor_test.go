package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intraday_bot/internal/models"
)

// separableSet — выборка, где первый признак однозначно задаёт класс.
// Остальные признаки константны и зануляются стандартизацией.
func separableSet(rows int, targetFeature float64) (x [][]float64, labels []int) {
	for i := 0; i < rows; i++ {
		f := 1.0
		if i%2 == 1 {
			f = -1.0
		}
		x = append(x, []float64{f, 5, 50, 0.1, 0.1, 100, 99})
		if f > 0 {
			labels = append(labels, 1)
		} else {
			labels = append(labels, 0)
		}
	}
	x = append(x, []float64{targetFeature, 5, 50, 0.1, 0.1, 100, 99})
	return x, labels
}

func TestPredictSeparable(t *testing.T) {
	p := NewPredictor()

	t.Run("buy side", func(t *testing.T) {
		x, labels := separableSet(40, 1.0)
		got, err := p.Predict(x, labels)
		require.NoError(t, err)
		assert.Equal(t, models.MlBuy, got)
	})

	t.Run("sell side", func(t *testing.T) {
		x, labels := separableSet(40, -1.0)
		got, err := p.Predict(x, labels)
		require.NoError(t, err)
		assert.Equal(t, models.MlSell, got)
	})
}

func TestPredictDegenerateLabels(t *testing.T) {
	p := NewPredictor()

	x, _ := separableSet(40, 1.0)
	labels := make([]int, len(x)-1)
	for i := range labels {
		labels[i] = 1
	}

	_, err := p.Predict(x, labels)
	assert.ErrorIs(t, err, ErrDegenerateLabels)
}

func TestPredictTooFewRows(t *testing.T) {
	p := NewPredictor()

	x, labels := separableSet(4, 1.0)
	_, err := p.Predict(x, labels)
	assert.ErrorIs(t, err, errTooFewRows)
}

func TestPredictLabelLengthMismatch(t *testing.T) {
	p := NewPredictor()

	x, labels := separableSet(40, 1.0)
	_, err := p.Predict(x, labels[:10])
	assert.ErrorIs(t, err, errTooFewRows)
}

func TestBuildFeatures(t *testing.T) {
	candles := trendingCandles(100, 100, 0.5)
	x, labels := BuildFeatures(candles)

	require.NotEmpty(t, x)
	assert.Len(t, labels, len(x)-1)
	for _, row := range x {
		assert.Len(t, row, FeatureCount)
		for _, v := range row {
			assert.True(t, Valid(v))
		}
	}
	// цена монотонно растёт — все метки «выше»
	for _, l := range labels {
		assert.Equal(t, 1, l)
	}
}

func TestBuildFeaturesTooShort(t *testing.T) {
	x, labels := BuildFeatures(nil)
	assert.Nil(t, x)
	assert.Nil(t, labels)
}
