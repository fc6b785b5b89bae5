package broker

import (
	"context"

	"go.uber.org/fx"

	"intraday_bot/internal/modules/broker/service"
	"intraday_bot/internal/modules/config"
	notifiersvc "intraday_bot/internal/modules/notifier/service"
	"intraday_bot/pkg/logger"
)

// Module поднимает REST-клиент брокера и тикерный стрим.
// Проверка авторизации на старте: протухший токен — фатально.
func Module() fx.Option {
	return fx.Module("broker",
		fx.Provide(
			service.NewClient,
		),
		fx.Invoke(func(lc fx.Lifecycle, c *service.Client, cfg *config.Config, n notifiersvc.Notifier) {
			streamCtx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					if err := c.CheckAuth(ctx); err != nil {
						// прощальное сообщение перед фатальным выходом
						n.Sendf("🛑 Авторизация у брокера не прошла: %v", err)
						return err
					}
					logger.Info("broker auth ok, starting ticker stream for %s", cfg.Symbol)
					go c.StreamTicker(streamCtx, cfg.Symbol)
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
		}),
	)
}
