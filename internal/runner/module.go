package runner

import (
	"context"

	"go.uber.org/fx"

	brokersvc "intraday_bot/internal/modules/broker/service"
	"intraday_bot/internal/modules/config"
	healthsvc "intraday_bot/internal/modules/health/service"
	notifiersvc "intraday_bot/internal/modules/notifier/service"
	"intraday_bot/internal/risk"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			func(cfg *config.Config, n notifiersvc.Notifier) *risk.Manager {
				return risk.NewManager(risk.Config{
					MaxTradesPerDay:     cfg.MaxTradesPerDay,
					LossStreakThreshold: cfg.LossStreakThreshold,
					Cooldown:            cfg.Cooldown,
				}, n)
			},
			func(cfg *config.Config, b *brokersvc.Client, rm *risk.Manager, n notifiersvc.Notifier) *Orchestrator {
				return NewOrchestrator(cfg, b, rm, n)
			},
			func(cfg *config.Config, orch *Orchestrator, rm *risk.Manager, n notifiersvc.Notifier, hs *healthsvc.State) (*Loop, error) {
				return NewLoop(cfg, orch, rm, n, hs)
			},
		),
		fx.Invoke(run),
	)
}

func run(lc fx.Lifecycle, loop *Loop, n notifiersvc.Notifier, shutdowner fx.Shutdowner) {
	loopCtx, cancel := context.WithCancel(context.Background())

	// команда /risk отвечает текущим состоянием риск-менеджера
	if tg, ok := n.(*notifiersvc.Telegram); ok {
		tg.SetRiskStatus(loop.RiskStatus)
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				loop.Run(loopCtx)
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
