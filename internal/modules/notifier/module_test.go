package notifier

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	brokersvc "intraday_bot/internal/modules/broker/service"
	"intraday_bot/internal/modules/config"
	"intraday_bot/internal/modules/notifier/service"
	"intraday_bot/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestNewNotifierWithoutToken(t *testing.T) {
	cfg := &config.Config{}
	n := NewNotifier(cfg, nil)
	assert.IsType(t, &service.Stdout{}, n)
}

func TestNewNotifierTelegramFailureFallsBack(t *testing.T) {
	orig := newTelegram
	newTelegram = func(string, int64, *brokersvc.Client) (*service.Telegram, error) {
		return nil, errors.New("Not Found")
	}
	t.Cleanup(func() { newTelegram = orig })

	cfg := &config.Config{}
	cfg.Telegram.Token = "битый-токен"
	cfg.Telegram.ChatID = 42

	// кривой токен не роняет бота, но и не проглатывается молча
	n := NewNotifier(cfg, nil)
	assert.IsType(t, &service.Stdout{}, n)
}

func TestNewNotifierTelegramOk(t *testing.T) {
	orig := newTelegram
	newTelegram = func(string, int64, *brokersvc.Client) (*service.Telegram, error) {
		return &service.Telegram{}, nil
	}
	t.Cleanup(func() { newTelegram = orig })

	cfg := &config.Config{}
	cfg.Telegram.Token = "токен"
	cfg.Telegram.ChatID = 42

	n := NewNotifier(cfg, nil)
	assert.IsType(t, &service.Telegram{}, n)
}
