package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/opentracing/opentracing-go"

	"intraday_bot/internal/models"
	"intraday_bot/internal/modules/config"
	healthsvc "intraday_bot/internal/modules/health/service"
	"intraday_bot/internal/risk"
	"intraday_bot/pkg/logger"
)

// Loop крутит RunCycle по таймеру до отсечки сессии.
type Loop struct {
	cfg    *config.Config
	orch   *Orchestrator
	risk   *risk.Manager
	n      Notifier
	health *healthsvc.State

	cutoff time.Duration // смещение от полуночи, из cfg.SessionCutoff
}

func NewLoop(cfg *config.Config, orch *Orchestrator, rm *risk.Manager, n Notifier, hs *healthsvc.State) (*Loop, error) {
	cutoff, err := config.ParseCutoff(cfg.SessionCutoff)
	if err != nil {
		return nil, err
	}
	return &Loop{
		cfg:    cfg,
		orch:   orch,
		risk:   rm,
		n:      n,
		health: hs,
		cutoff: cutoff,
	}, nil
}

// Run блокирует до отсечки или отмены контекста.
func (l *Loop) Run(ctx context.Context) {
	// дневной счётчик сбрасываем на старте сессии, не на отсечке:
	// процесс может быть перезапущен посреди дня
	l.risk.ResetDay()

	l.n.Sendf("🚀 Бот запущен: %s, интервал %s, отсечка %s",
		l.cfg.Symbol, l.cfg.PollInterval, l.cfg.SessionCutoff)
	l.health.SetReady(true)
	defer l.health.SetReady(false)

	ticker := time.NewTicker(l.cfg.PollInterval)
	defer ticker.Stop()

	for {
		now := time.Now()
		if l.pastCutoff(now) {
			l.n.Sendf("🏁 Отсечка %s — торговый день закончен", l.cfg.SessionCutoff)
			logger.Info("session cutoff reached, stopping loop")
			return
		}

		decision := l.runCycle(ctx)
		l.health.TouchCycle(time.Now(), decision.Execute)

		if n := l.health.Cycles(); l.cfg.HealthEvery > 0 && n%int64(l.cfg.HealthEvery) == 0 {
			st := l.risk.State()
			l.n.Sendf("💓 Циклов: %d, сделок сегодня: %d, серия убытков: %d",
				n, st.TradesToday, st.ConsecutiveLosses)
		}

		select {
		case <-ctx.Done():
			logger.Info("loop stopped: %v", ctx.Err())
			return
		case <-ticker.C:
		}
	}
}

func (l *Loop) runCycle(ctx context.Context) models.TradeDecision {
	span := opentracing.StartSpan("decision_cycle")
	defer span.Finish()

	cycleCtx := opentracing.ContextWithSpan(ctx, span)
	decision := l.orch.RunCycle(cycleCtx)

	span.SetTag("execute", decision.Execute)
	if decision.Execute {
		span.SetTag("side", string(decision.Side))
		span.SetTag("qty", decision.Qty)
		logger.Info("cycle: execute side=%s qty=%.0f sl=%.2f tp=%.2f",
			decision.Side, decision.Qty, decision.SL, decision.TP)
	} else {
		span.SetTag("reason", string(decision.Reason))
		if decision.Reason != models.ReasonCooldown {
			logger.Info("cycle: no trade (%s)", decision.Reason)
		}
	}
	return decision
}

func (l *Loop) pastCutoff(now time.Time) bool {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return now.Sub(midnight) >= l.cutoff
}

// RiskStatus — текст для команды /risk в Telegram.
func (l *Loop) RiskStatus() string {
	st := l.risk.State()
	msg := fmt.Sprintf("🛡 Риск: сделок сегодня %d/%d, серия убытков %d/%d",
		st.TradesToday, l.cfg.MaxTradesPerDay,
		st.ConsecutiveLosses, l.cfg.LossStreakThreshold)
	if st.InCooldown(time.Now()) {
		msg += fmt.Sprintf("\n⏸ Кулдаун до %s", st.CooldownUntil.Format("15:04:05"))
	}
	return msg
}
