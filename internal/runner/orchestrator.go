package runner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"intraday_bot/internal/engine"
	"intraday_bot/internal/models"
	"intraday_bot/internal/modules/config"
	"intraday_bot/internal/risk"
	"intraday_bot/pkg/logger"
)

// Broker — контракт брокера, нужный решающему циклу.
// История может быть короче запрошенной — это не ошибка.
type Broker interface {
	GetCandles(ctx context.Context, symbol string, interval models.Interval, lookbackDays int) ([]models.Candle, error)
	LastPrice(ctx context.Context, symbol string) (float64, error)
	PlaceMarket(ctx context.Context, symbol string, side models.Side, qty int, product string) (string, error)
	PlaceTpsl(ctx context.Context, symbol string, side models.Side, qty int, sl, tp float64) error
	AvailableCapital(ctx context.Context) (float64, error)
}

// Notifier — локальный срез нотифайера (см. modules/notifier).
type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
	Confirm(ctx context.Context, prompt string, timeout time.Duration) bool
}

const (
	hourLookbackDays = 10 // ≥50 часовых баров с запасом
	fiveLookbackDays = 5
	volWindow        = 50  // окно для ATR/ADX фильтра
	featureWindow    = 200 // окно признаков классификатора
)

// Orchestrator собирает один цикл принятия решения: гейты риска →
// тренды и фильтры → сайзинг → классификатор → исполнение.
type Orchestrator struct {
	cfg       *config.Config
	broker    Broker
	risk      *risk.Manager
	predictor *engine.Predictor
	n         Notifier

	now func() time.Time // подменяется в тестах
}

func NewOrchestrator(cfg *config.Config, b Broker, rm *risk.Manager, n Notifier) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		broker:    b,
		risk:      rm,
		predictor: engine.NewPredictor(),
		n:         n,
		now:       time.Now,
	}
}

// RunCycle выполняет одно решение. Любая локальная проблема цикла
// (мало данных, NaN, отказ модели или брокера) — это NoTrade, а не
// ошибка наружу: цикл обязан пережить плохой тик и попробовать снова.
func (o *Orchestrator) RunCycle(ctx context.Context) models.TradeDecision {
	now := o.now()

	// 1-2. Дневной лимит и кулдаун — до любых запросов данных
	if ok, reason := o.risk.Gate(now); !ok {
		if reason == models.ReasonDailyCap {
			o.n.Sendf("⚠️ Дневной лимит %d сделок исчерпан, до конца сессии только наблюдаем", o.cfg.MaxTradesPerDay)
		}
		return models.NoTrade(reason)
	}

	// 3. Данные двух таймфреймов
	hourBars, err := o.broker.GetCandles(ctx, o.cfg.Symbol, models.IntervalHour, hourLookbackDays)
	if err != nil {
		logger.Error("fetch hour candles: %v", err)
		return models.NoTrade(models.ReasonDataError)
	}
	fiveBars, err := o.broker.GetCandles(ctx, o.cfg.Symbol, models.Interval5Min, fiveLookbackDays)
	if err != nil {
		logger.Error("fetch 5m candles: %v", err)
		return models.NoTrade(models.ReasonDataError)
	}

	trend := engine.CheckMultiTimeframeTrend(hourBars, fiveBars)
	emaTrend := engine.CheckEmaTrend(tail(fiveBars, featureWindow))

	fcfg := engine.FilterConfig{
		VolumeWindow:     o.cfg.VolumeWindow,
		VolumeMultiplier: o.cfg.VolumeMultiplier,
		MinATR:           o.cfg.MinATR,
		MinADX:           o.cfg.MinADX,
	}
	snap := engine.TakeSnapshot(tail(fiveBars, volWindow))
	volume := engine.VolumeFilter(fiveBars, fcfg)
	volatility := engine.VolatilityFilter(snap, fcfg)

	if !volume.Admit || !volatility.Admit || emaTrend == models.EmaSideways {
		return models.NoTrade(models.ReasonFiltered)
	}

	// 4. Сайзинг по капиталу и ATR
	capital, err := o.broker.AvailableCapital(ctx)
	if err != nil {
		logger.Error("fetch capital: %v", err)
		return models.NoTrade(models.ReasonDataError)
	}
	tiers := engine.RiskTiers{
		DefaultPct: o.cfg.RiskPctDefault,
		HighPct:    o.cfg.RiskPctHighATR,
		LowPct:     o.cfg.RiskPctLowATR,
		HighATR:    o.cfg.HighATR,
		LowATR:     o.cfg.LowATR,
	}
	qty, err := engine.SizeByRisk(capital, snap.ATR, tiers)
	if err != nil {
		logger.Error("sizing: %v", err)
		return models.NoTrade(models.ReasonSizingFailed)
	}
	lots := int(math.Floor(qty))
	if lots <= 0 {
		return models.NoTrade(models.ReasonSizingFailed)
	}

	// 5. Классификатор на последнем 200-барном окне
	x, labels := engine.BuildFeatures(tail(fiveBars, featureWindow))
	mlSignal, err := o.predictor.Predict(x, labels)
	if err != nil {
		if errors.Is(err, engine.ErrDegenerateLabels) {
			logger.Info("model skip: %v", err)
		} else {
			logger.Error("model: %v", err)
		}
		return models.NoTrade(models.ReasonModelFailure)
	}

	// 6. Все три сигнала должны согласиться
	var side models.Side
	switch {
	case trend == models.TrendBullish && emaTrend == models.EmaStrongBuy && mlSignal == models.MlBuy:
		side = models.SideBuy
	case trend == models.TrendBearish && emaTrend == models.EmaStrongSell && mlSignal == models.MlSell:
		side = models.SideSell
	default:
		logger.Info("signals disagree: trend=%s ema=%s ml=%s", trend, emaTrend, mlSignal)
		return models.NoTrade(models.ReasonSignalsDisagree)
	}

	// 7. Исполнение
	return o.execute(ctx, side, lots)
}

func (o *Orchestrator) execute(ctx context.Context, side models.Side, lots int) models.TradeDecision {
	entry, err := o.broker.LastPrice(ctx, o.cfg.Symbol)
	if err != nil || entry <= 0 {
		logger.Error("last price: %v", err)
		return models.NoTrade(models.ReasonDataError)
	}

	// SL/TP с асимметричными офсетами: стоп уже тейка
	slPct := o.cfg.StopLossPct / 100
	tpPct := o.cfg.TakeProfitPct / 100
	var sl, tp float64
	if side == models.SideBuy {
		sl = entry * (1 - slPct)
		tp = entry * (1 + tpPct)
	} else {
		sl = entry * (1 + slPct)
		tp = entry * (1 - tpPct)
	}

	if o.cfg.ConfirmRequired {
		prompt := buildPrompt(o.cfg.Symbol, side, lots, entry, sl, tp)
		if !o.n.Confirm(ctx, prompt, o.cfg.ConfirmTimeout) {
			o.n.Sendf("⛔️ [%s] Вход отменён/таймаут", o.cfg.Symbol)
			return models.NoTrade(models.ReasonDeclined)
		}
	}

	decision := models.TradeDecision{
		Execute: true,
		Side:    side,
		Qty:     float64(lots),
		SL:      sl,
		TP:      tp,
	}

	orderID, err := o.broker.PlaceMarket(ctx, o.cfg.Symbol, side, lots, o.cfg.Product)
	outcome := models.OrderOutcome{Entry: entry, SL: sl, TP: tp}
	if err != nil {
		logger.Error("place market: %v", err)
		o.n.Sendf("❗️ [%s] Ошибка открытия ордера: %v", o.cfg.Symbol, err)
	} else {
		outcome.Filled = true
		outcome.OrderID = orderID

		// best-effort: брекет не гарантирован, вход уже состоялся
		if err := o.broker.PlaceTpsl(ctx, o.cfg.Symbol, side, lots, sl, tp); err != nil {
			logger.Error("place tpsl: %v", err)
			o.n.Sendf("⚠️ [%s] SL/TP не выставлены: %v", o.cfg.Symbol, err)
		}

		o.n.Sendf("✅ [%s] OPEN %-4s qty=%d @ %.2f | SL=%.2f TP=%.2f (orderId=%s)",
			o.cfg.Symbol, side, lots, entry, sl, tp, orderID)
	}

	o.risk.RecordAttempt(o.now(), outcome)
	return decision
}

func buildPrompt(symbol string, side models.Side, lots int, entry, sl, tp float64) string {
	return fmt.Sprintf("🔔 [%s] %s qty=%d @ %.2f\nSL=%.2f TP=%.2f\nВойти?",
		symbol, side, lots, entry, sl, tp)
}

// tail — последние n элементов, либо всё что есть.
func tail(candles []models.Candle, n int) []models.Candle {
	if len(candles) <= n {
		return candles
	}
	return candles[len(candles)-n:]
}
