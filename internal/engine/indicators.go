package engine

import (
	"math"

	"intraday_bot/internal/models"
)

// Индикаторы считаются сериями поверх окна свечей (старые → новые).
// NaN в серии означает «данных недостаточно» — наверху это всегда
// трактуется как avoid/NoTrade, никогда не прокидывается дальше.

// Valid — значение пригодно для сравнения.
func Valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func last(series []float64) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}

// EMA — экспоненциальное среднее, alpha = 2/(span+1).
// Сидируется первым значением, не простым средним.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// rollingMean — простое скользящее среднее, NaN пока окно не заполнено.
func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	nan := 0
	for i, v := range values {
		if math.IsNaN(v) {
			nan++
		} else {
			sum += v
		}
		if i >= window {
			old := values[i-window]
			if math.IsNaN(old) {
				nan--
			} else {
				sum -= old
			}
		}
		if i < window-1 || nan > 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

// ATR — скользящее среднее high−low за period баров.
// Упрощённый true range без гэпов; пороги в конфиге калиброваны
// именно под эту формулу, менять её вместе с ними.
func ATR(candles []models.Candle, period int) []float64 {
	ranges := make([]float64, len(candles))
	for i, c := range candles {
		ranges[i] = c.High - c.Low
	}
	return rollingMean(ranges, period)
}

// Directional — +DI/−DI/DX/ADX по спредам хай/лоу к ATR.
// Деление на ноль даёт NaN, который гасится на уровне фильтров.
type Directional struct {
	PlusDI  []float64
	MinusDI []float64
	DX      []float64
	ADX     []float64
}

func DirectionalIndex(candles []models.Candle, atr []float64, period int) Directional {
	n := len(candles)
	d := Directional{
		PlusDI:  make([]float64, n),
		MinusDI: make([]float64, n),
		DX:      make([]float64, n),
	}
	for i := 0; i < n; i++ {
		if i == 0 || !Valid(atr[i]) || atr[i] == 0 {
			d.PlusDI[i] = math.NaN()
			d.MinusDI[i] = math.NaN()
			d.DX[i] = math.NaN()
			continue
		}
		d.PlusDI[i] = 100 * (candles[i].High - candles[i-1].High) / atr[i]
		d.MinusDI[i] = 100 * (candles[i-1].Low - candles[i].Low) / atr[i]
		sum := d.PlusDI[i] + d.MinusDI[i]
		if sum == 0 {
			d.DX[i] = math.NaN()
			continue
		}
		d.DX[i] = 100 * math.Abs(d.PlusDI[i]-d.MinusDI[i]) / sum
	}
	d.ADX = rollingMean(d.DX, period)
	return d
}

// RSI — относительная сила по скользящим средним гейнов/лоссов.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	gains[0], losses[0] = math.NaN(), math.NaN()
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}
	avgGain := rollingMean(gains, period)
	avgLoss := rollingMean(losses, period)

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if !Valid(avgGain[i]) || !Valid(avgLoss[i]) {
			out[i] = math.NaN()
			continue
		}
		if avgLoss[i] == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// MACD — EMA(12)−EMA(26) и сигнальная EMA(9).
func MACD(closes []float64) (macd, signal []float64) {
	fast := EMA(closes, 12)
	slow := EMA(closes, 26)
	macd = make([]float64, len(closes))
	for i := range closes {
		macd[i] = fast[i] - slow[i]
	}
	signal = EMA(macd, 9)
	return macd, signal
}

// VWAP — накопительный по типичной цене.
func VWAP(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	var cumPV, cumVol float64
	for i, c := range candles {
		typical := (c.High + c.Low + c.Close) / 3
		cumPV += typical * c.Volume
		cumVol += c.Volume
		if cumVol == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = cumPV / cumVol
	}
	return out
}

// Supertrend — линия по ATR(10)×3 с переносом полос.
func Supertrend(candles []models.Candle) []float64 {
	const (
		period = 10
		mult   = 3.0
	)
	n := len(candles)
	out := make([]float64, n)
	atr := ATR(candles, period)

	upper := make([]float64, n)
	lower := make([]float64, n)
	uptrend := true

	for i := 0; i < n; i++ {
		if !Valid(atr[i]) {
			out[i] = math.NaN()
			upper[i] = math.NaN()
			lower[i] = math.NaN()
			continue
		}
		hl2 := (candles[i].High + candles[i].Low) / 2
		basicUpper := hl2 + mult*atr[i]
		basicLower := hl2 - mult*atr[i]

		upper[i] = basicUpper
		lower[i] = basicLower
		if i > 0 && Valid(upper[i-1]) {
			if basicUpper > upper[i-1] && candles[i-1].Close <= upper[i-1] {
				upper[i] = upper[i-1]
			}
			if basicLower < lower[i-1] && candles[i-1].Close >= lower[i-1] {
				lower[i] = lower[i-1]
			}
			if uptrend && candles[i].Close < lower[i] {
				uptrend = false
			} else if !uptrend && candles[i].Close > upper[i] {
				uptrend = true
			}
		}

		if uptrend {
			out[i] = lower[i]
		} else {
			out[i] = upper[i]
		}
	}
	return out
}

// Snapshot — последние значения всех серий по одному окну свечей.
type Snapshot struct {
	Close      float64
	Volume     float64
	EMA9       float64
	EMA21      float64
	EMA50      float64
	EMA200     float64
	ATR        float64
	PlusDI     float64
	MinusDI    float64
	ADX        float64
	RSI        float64
	MACD       float64
	MACDSignal float64
	VWAP       float64
	Supertrend float64
}

const indicatorPeriod = 14

// TakeSnapshot пересчитывает всё окно заново каждый цикл,
// ничего не кэшируя между циклами.
func TakeSnapshot(candles []models.Candle) Snapshot {
	if len(candles) == 0 {
		nan := math.NaN()
		return Snapshot{
			Close: nan, Volume: nan,
			EMA9: nan, EMA21: nan, EMA50: nan, EMA200: nan,
			ATR: nan, PlusDI: nan, MinusDI: nan, ADX: nan,
			RSI: nan, MACD: nan, MACDSignal: nan, VWAP: nan, Supertrend: nan,
		}
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	atr := ATR(candles, indicatorPeriod)
	di := DirectionalIndex(candles, atr, indicatorPeriod)
	macd, signal := MACD(closes)

	return Snapshot{
		Close:      candles[len(candles)-1].Close,
		Volume:     candles[len(candles)-1].Volume,
		EMA9:       last(EMA(closes, 9)),
		EMA21:      last(EMA(closes, 21)),
		EMA50:      last(EMA(closes, 50)),
		EMA200:     last(EMA(closes, 200)),
		ATR:        last(atr),
		PlusDI:     last(di.PlusDI),
		MinusDI:    last(di.MinusDI),
		ADX:        last(di.ADX),
		RSI:        last(RSI(closes, indicatorPeriod)),
		MACD:       last(macd),
		MACDSignal: last(signal),
		VWAP:       last(VWAP(candles)),
		Supertrend: last(Supertrend(candles)),
	}
}
