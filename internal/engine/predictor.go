package engine

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"intraday_bot/internal/models"
)

// ErrDegenerateLabels — в обучающей выборке один класс, фит невозможен.
// Наверху это мягкий NoTrade, не падение цикла.
var ErrDegenerateLabels = errors.New("degenerate labels: single class in training set")

var errTooFewRows = errors.New("too few feature rows to fit")

// Predictor — логистическая регрессия, обучаемая заново на каждом цикле.
// Фит на всех строках кроме последней, прогноз по последней.
// Кэширование модели допустимо, но пока не нужно — окно в 200 баров
// обучается за миллисекунды.
type Predictor struct {
	LearnRate float64
	Epochs    int
	MinRows   int
}

func NewPredictor() *Predictor {
	return &Predictor{
		LearnRate: 0.1,
		Epochs:    300,
		MinRows:   30,
	}
}

// Predict возвращает Buy для класса 1, иначе Sell.
func (p *Predictor) Predict(x [][]float64, labels []int) (models.MlSignal, error) {
	if len(x) < p.MinRows || len(labels) != len(x)-1 {
		return "", errTooFewRows
	}

	ones := 0
	for _, l := range labels {
		ones += l
	}
	if ones == 0 || ones == len(labels) {
		return "", ErrDegenerateLabels
	}

	train := x[:len(x)-1]
	target := x[len(x)-1]

	// стандартизация по обучающим строкам
	mean, std := columnStats(train)
	scaled := make([][]float64, len(train))
	for i, row := range train {
		scaled[i] = scaleRow(row, mean, std)
	}
	targetScaled := scaleRow(target, mean, std)

	// градиентный спуск, bias в w[0]
	w := make([]float64, FeatureCount+1)
	grad := make([]float64, FeatureCount+1)
	for epoch := 0; epoch < p.Epochs; epoch++ {
		for i := range grad {
			grad[i] = 0
		}
		for i, row := range scaled {
			pred := sigmoid(w[0] + floats.Dot(w[1:], row))
			diff := pred - float64(labels[i])
			grad[0] += diff
			for j, v := range row {
				grad[j+1] += diff * v
			}
		}
		step := p.LearnRate / float64(len(scaled))
		for i := range w {
			w[i] -= step * grad[i]
		}
	}

	prob := sigmoid(w[0] + floats.Dot(w[1:], targetScaled))
	if prob >= 0.5 {
		return models.MlBuy, nil
	}
	return models.MlSell, nil
}

func columnStats(rows [][]float64) (mean, std []float64) {
	mean = make([]float64, FeatureCount)
	std = make([]float64, FeatureCount)
	col := make([]float64, len(rows))
	for j := 0; j < FeatureCount; j++ {
		for i, row := range rows {
			col[i] = row[j]
		}
		mean[j] = stat.Mean(col, nil)
		std[j] = stat.StdDev(col, nil)
	}
	return mean, std
}

func scaleRow(row, mean, std []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		if std[j] == 0 || math.IsNaN(std[j]) {
			out[j] = 0
			continue
		}
		out[j] = (v - mean[j]) / std[j]
	}
	return out
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
