package notifier

import (
	"context"

	"go.uber.org/fx"

	brokersvc "intraday_bot/internal/modules/broker/service"
	"intraday_bot/internal/modules/config"
	"intraday_bot/internal/modules/notifier/service"
	"intraday_bot/pkg/logger"
)

// подменяется в тестах
var newTelegram = service.NewTelegram

// NewNotifier выбирает Telegram при наличии токена, иначе stdout.
// Ошибка инициализации Telegram при заданном токене — это почти
// наверняка опечатка в токене, молчать о ней нельзя.
func NewNotifier(cfg *config.Config, b *brokersvc.Client) service.Notifier {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		return service.NewStdout()
	}

	tg, err := newTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, b)
	if err != nil {
		logger.Error("telegram init failed, falling back to stdout: %v", err)
		return service.NewStdout()
	}
	return tg
}

func Module() fx.Option {
	return fx.Module("notifier",
		fx.Provide(NewNotifier),
		fx.Invoke(func(lc fx.Lifecycle, n service.Notifier) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					if tg, ok := n.(*service.Telegram); ok {
						return tg.Start(context.Background())
					}
					return nil
				},
				OnStop: func(context.Context) error {
					if tg, ok := n.(*service.Telegram); ok {
						tg.Stop()
					}
					return nil
				},
			})
		}),
	)
}
