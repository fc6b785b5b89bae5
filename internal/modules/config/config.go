package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const configFilePathENV = "CONFIG_FILE"

// Config — вся конфигурация бота. Значения из yaml,
// секреты и переопределения — из ENV.
type Config struct {
	// Инструмент
	Symbol   string `yaml:"symbol"`   // например "NSE:RELIANCE"
	Exchange string `yaml:"exchange"` // "NSE"
	Product  string `yaml:"product"`  // "MIS" — интрадей

	// Broker API
	Broker struct {
		BaseURL     string `yaml:"base_url"`
		WSURL       string `yaml:"ws_url"`
		APIKey      string `yaml:"api_key"`      // ENV: BROKER_API_KEY
		AccessToken string `yaml:"access_token"` // ENV: BROKER_ACCESS_TOKEN
	} `yaml:"broker"`

	// Telegram
	Telegram struct {
		Token  string `yaml:"token"` // ENV: TELEGRAM_TOKEN
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	// Jaeger
	Tracing struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"tracing"`

	// Health endpoint
	HealthAddr string `yaml:"health_addr"` // напр. ":8080"

	// Риск
	MaxTradesPerDay     int           `yaml:"max_trades_per_day"`    // 10
	StopLossPct         float64       `yaml:"stop_loss_pct"`         // 0.2 => 0.2%
	TakeProfitPct       float64       `yaml:"take_profit_pct"`       // 0.5 => 0.5%
	RiskPctDefault      float64       `yaml:"risk_pct_default"`      // 2.0
	RiskPctHighATR      float64       `yaml:"risk_pct_high_atr"`     // 3.0 при ATR > HighATR
	RiskPctLowATR       float64       `yaml:"risk_pct_low_atr"`      // 1.0 при ATR < LowATR
	HighATR             float64       `yaml:"high_atr"`              // 50
	LowATR              float64       `yaml:"low_atr"`               // 20
	LossStreakThreshold int           `yaml:"loss_streak_threshold"` // 3
	Cooldown            time.Duration `yaml:"-"`                     // ENV: COOLDOWN, по умолчанию 1h

	// Фильтры
	VolumeMultiplier float64 `yaml:"volume_multiplier"` // 1.5
	VolumeWindow     int     `yaml:"volume_window"`     // 20
	MinATR           float64 `yaml:"min_atr"`           // 20, абсолютный порог цены
	MinADX           float64 `yaml:"min_adx"`           // 20

	// Цикл
	PollInterval  time.Duration `yaml:"-"`              // ENV: POLL_INTERVAL, по умолчанию 30s
	SessionCutoff string        `yaml:"session_cutoff"` // "15:15"
	HealthEvery   int           `yaml:"health_every"`   // каждые N циклов health-сообщение

	// Подтверждение входа через Telegram (по умолчанию выключено)
	ConfirmRequired bool          `yaml:"confirm_required"`
	ConfirmTimeout  time.Duration `yaml:"-"` // ENV: CONFIRM_TIMEOUT, по умолчанию 30s
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	config := Config{
		Symbol:   "NSE:RELIANCE",
		Exchange: "NSE",
		Product:  "MIS",

		HealthAddr: ":8080",

		MaxTradesPerDay:     10,
		StopLossPct:         0.2,
		TakeProfitPct:       0.5,
		RiskPctDefault:      2.0,
		RiskPctHighATR:      3.0,
		RiskPctLowATR:       1.0,
		HighATR:             50,
		LowATR:              20,
		LossStreakThreshold: 3,
		Cooldown:            durationFromEnv("COOLDOWN", "1h"),

		VolumeMultiplier: 1.5,
		VolumeWindow:     20,
		MinATR:           20,
		MinADX:           20,

		PollInterval:  durationFromEnv("POLL_INTERVAL", "30s"),
		SessionCutoff: "15:15",
		HealthEvery:   60,

		ConfirmRequired: false,
		ConfirmTimeout:  durationFromEnv("CONFIRM_TIMEOUT", "30s"),
	}

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}

	// ENV поверх yaml: переменная окружения всегда выигрывает
	config.Symbol = getenvDefault("SYMBOL", config.Symbol)
	config.HealthAddr = getenvDefault("HEALTH_ADDR", config.HealthAddr)

	config.MaxTradesPerDay = intFromEnv("MAX_TRADES_PER_DAY", config.MaxTradesPerDay)
	config.StopLossPct = floatFromEnv("STOP_LOSS_PCT", config.StopLossPct)
	config.TakeProfitPct = floatFromEnv("TAKE_PROFIT_PCT", config.TakeProfitPct)
	config.RiskPctDefault = floatFromEnv("RISK_PCT", config.RiskPctDefault)
	config.RiskPctHighATR = floatFromEnv("RISK_PCT_HIGH_ATR", config.RiskPctHighATR)
	config.RiskPctLowATR = floatFromEnv("RISK_PCT_LOW_ATR", config.RiskPctLowATR)
	config.HighATR = floatFromEnv("HIGH_ATR", config.HighATR)
	config.LowATR = floatFromEnv("LOW_ATR", config.LowATR)
	config.LossStreakThreshold = intFromEnv("LOSS_STREAK_THRESHOLD", config.LossStreakThreshold)

	config.VolumeMultiplier = floatFromEnv("VOLUME_MULTIPLIER", config.VolumeMultiplier)
	config.VolumeWindow = intFromEnv("VOLUME_WINDOW", config.VolumeWindow)
	config.MinATR = floatFromEnv("MIN_ATR", config.MinATR)
	config.MinADX = floatFromEnv("MIN_ADX", config.MinADX)

	config.SessionCutoff = getenvDefault("SESSION_CUTOFF", config.SessionCutoff)
	config.HealthEvery = intFromEnv("HEALTH_EVERY", config.HealthEvery)
	config.ConfirmRequired = boolFromEnv("CONFIRM_REQUIRED", config.ConfirmRequired)

	// секреты только из ENV, yaml — запасной вариант для локалки
	if v := os.Getenv("BROKER_API_KEY"); v != "" {
		config.Broker.APIKey = v
	}
	if v := os.Getenv("BROKER_ACCESS_TOKEN"); v != "" {
		config.Broker.AccessToken = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		config.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Telegram.ChatID = id
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.MaxTradesPerDay <= 0 {
		return fmt.Errorf("max_trades_per_day must be > 0")
	}
	if c.StopLossPct <= 0 || c.TakeProfitPct <= 0 {
		return fmt.Errorf("stop_loss_pct and take_profit_pct must be > 0")
	}
	if c.LossStreakThreshold <= 0 {
		return fmt.Errorf("loss_streak_threshold must be > 0")
	}
	if _, err := ParseCutoff(c.SessionCutoff); err != nil {
		return err
	}
	return nil
}

// ParseCutoff разбирает "15:15" в смещение от полуночи.
func ParseCutoff(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("session_cutoff %q: want HH:MM: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func boolFromEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if v == "1" || v == "true" || v == "TRUE" {
			return true
		}
		if v == "0" || v == "false" || v == "FALSE" {
			return false
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
