package models

// Side как в ордерах брокера: "BUY"/"SELL" или пустая строка.
type Side string

const (
	SideNone Side = ""
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// TrendSignal — мульти-таймфреймовый тренд (1h + 5m).
type TrendSignal string

const (
	TrendBullish TrendSignal = "BULLISH"
	TrendBearish TrendSignal = "BEARISH"
	TrendNeutral TrendSignal = "NEUTRAL"
)

// EmaTrendSignal — тренд по EMA(200)/EMA(50) на одном таймфрейме.
type EmaTrendSignal string

const (
	EmaStrongBuy  EmaTrendSignal = "STRONG_BUY"
	EmaStrongSell EmaTrendSignal = "STRONG_SELL"
	EmaSideways   EmaTrendSignal = "SIDEWAYS"
)

// MlSignal — направление от обученного классификатора.
type MlSignal string

const (
	MlBuy  MlSignal = "BUY"
	MlSell MlSignal = "SELL"
)

// GateReason — какой именно фильтр отклонил вход.
type GateReason string

const (
	GateVolume     GateReason = "volume"
	GateVolatility GateReason = "volatility"
)

// GateResult — вердикт фильтра: пускаем или нет.
type GateResult struct {
	Admit  bool
	Reason GateReason
}

func Admit(reason GateReason) GateResult      { return GateResult{Admit: true, Reason: reason} }
func AvoidTrade(reason GateReason) GateResult { return GateResult{Admit: false, Reason: reason} }

// NoTradeReason — почему цикл закончился без сделки.
type NoTradeReason string

const (
	ReasonDailyCap        NoTradeReason = "daily cap"
	ReasonCooldown        NoTradeReason = "cooldown"
	ReasonFiltered        NoTradeReason = "filtered"
	ReasonSizingFailed    NoTradeReason = "sizing failed"
	ReasonSignalsDisagree NoTradeReason = "signals disagree"
	ReasonModelFailure    NoTradeReason = "model failure"
	ReasonDataError       NoTradeReason = "data error"
	ReasonDeclined        NoTradeReason = "confirm declined"
)

// TradeDecision — итог одного цикла. Либо NoTrade с причиной,
// либо Execute с направлением/размером и расчётными SL/TP.
type TradeDecision struct {
	Execute bool
	Reason  NoTradeReason // заполнено когда Execute=false

	Side Side
	Qty  float64
	SL   float64
	TP   float64
}

func NoTrade(reason NoTradeReason) TradeDecision {
	return TradeDecision{Execute: false, Reason: reason}
}

// OrderOutcome — результат попытки исполнения.
type OrderOutcome struct {
	Filled  bool
	OrderID string
	Entry   float64
	SL      float64
	TP      float64
}
