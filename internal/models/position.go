package models

import "time"

// OpenPosition — упрощённая проекция позиции брокера
// для команды /positions в Telegram.
type OpenPosition struct {
	Symbol        string
	Side          Side
	Qty           float64
	Entry         float64
	LastPrice     float64
	UnrealizedPnl float64
	Updated       time.Time
}
