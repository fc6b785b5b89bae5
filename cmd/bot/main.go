package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"intraday_bot/internal/modules/broker"
	"intraday_bot/internal/modules/config"
	"intraday_bot/internal/modules/health"
	"intraday_bot/internal/modules/notifier"
	"intraday_bot/internal/runner"
	"intraday_bot/pkg/logger"
	"intraday_bot/pkg/tracing"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	app := fx.New(
		config.Module(),
		broker.Module(),
		notifier.Module(),
		health.Module(),
		runner.Module(),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) {
			if cfg.Tracing.Host == "" {
				return
			}
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Tracing.Host,
				Port: cfg.Tracing.Port,
			})
			if err != nil {
				logger.Error("init tracer: %v", err)
				return
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closeTracer()
					return nil
				},
			})
		}),
	)

	app.Run()
}
