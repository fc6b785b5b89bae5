package engine

import "intraday_bot/internal/models"

// FeatureCount — фиксированный контракт классификатора:
// {EMA9, EMA21, RSI, MACD, MACD_signal, VWAP, Supertrend}.
const FeatureCount = 7

// BuildFeatures собирает матрицу признаков по окну свечей и метки
// «следующий клоуз выше текущего». Метка есть для всех строк, кроме
// последней — по ней делается прогноз. Строки с NaN (прогрев
// индикаторов) отбрасываются целиком.
func BuildFeatures(candles []models.Candle) (x [][]float64, labels []int) {
	n := len(candles)
	if n < 2 {
		return nil, nil
	}

	closes := closesOf(candles)
	ema9 := EMA(closes, 9)
	ema21 := EMA(closes, 21)
	rsi := RSI(closes, indicatorPeriod)
	macd, signal := MACD(closes)
	vwap := VWAP(candles)
	st := Supertrend(candles)

	rowLabel := make([]int, 0, n)
	for i := 0; i < n; i++ {
		row := []float64{ema9[i], ema21[i], rsi[i], macd[i], signal[i], vwap[i], st[i]}
		ok := true
		for _, v := range row {
			if !Valid(v) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		x = append(x, row)
		if i < n-1 {
			if closes[i+1] > closes[i] {
				rowLabel = append(rowLabel, 1)
			} else {
				rowLabel = append(rowLabel, 0)
			}
		}
	}

	// последняя валидная строка могла оказаться не последним баром окна —
	// тогда метка к ней есть и прогноз честный, это допустимо
	if len(rowLabel) >= len(x) && len(x) > 0 {
		rowLabel = rowLabel[:len(x)-1]
	}
	return x, rowLabel
}
