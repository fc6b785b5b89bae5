package models

import "time"

// Candle — один OHLCV-бар от брокера. Последовательности всегда
// упорядочены от старых к новым.
type Candle struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Interval — таймфрейм свечей в терминах API брокера.
type Interval string

const (
	IntervalHour Interval = "hour"
	Interval5Min Interval = "5minute"
)
