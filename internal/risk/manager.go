package risk

import (
	"log"
	"sync"
	"time"

	"intraday_bot/internal/models"
)

// Notifier — минимальный срез нотифайера, чтобы не тянуть Telegram сюда.
type Notifier interface {
	Sendf(format string, args ...any)
}

type Config struct {
	MaxTradesPerDay     int
	LossStreakThreshold int
	Cooldown            time.Duration
}

// Manager ведёт RiskState: дневной лимит сделок и серию убытков
// с кулдауном. Кулдаун — это timestamp, проверяемый каждым циклом,
// никакого блокирующего sleep.
type Manager struct {
	mu    sync.Mutex
	cfg   Config
	state models.RiskState
	n     Notifier
}

func NewManager(cfg Config, n Notifier) *Manager {
	return &Manager{cfg: cfg, n: n}
}

// Gate — можно ли вообще оценивать вход в этом цикле.
// Порядок проверок фиксированный: сначала дневной лимит, потом кулдаун.
func (m *Manager) Gate(now time.Time) (bool, models.NoTradeReason) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.TradesToday >= m.cfg.MaxTradesPerDay {
		return false, models.ReasonDailyCap
	}
	if m.state.InCooldown(now) {
		return false, models.ReasonCooldown
	}
	return true, ""
}

// RecordAttempt обновляет состояние по результату попытки исполнения.
// Серия убытков растёт от неудачной попытки, а не от реализованного
// P&L: отказ брокера приравнивается к убытку, филл сбрасывает серию.
func (m *Manager) RecordAttempt(now time.Time, outcome models.OrderOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.TradesToday++

	if outcome.Filled {
		m.state.ConsecutiveLosses = 0
		return
	}

	m.state.ConsecutiveLosses++
	if m.state.ConsecutiveLosses >= m.cfg.LossStreakThreshold {
		m.state.CooldownUntil = now.Add(m.cfg.Cooldown)
		log.Printf("[RISK] loss streak %d, cooldown until %s",
			m.state.ConsecutiveLosses, m.state.CooldownUntil.Format(time.RFC3339))
		if m.n != nil {
			m.n.Sendf("⛔️ %d убытка подряд — торговля на паузе до %s",
				m.state.ConsecutiveLosses, m.state.CooldownUntil.Format("15:04:05"))
		}
	}
}

// ResetDay сбрасывает дневной счётчик. Вызывается на старте сессии,
// чтобы рестарт на следующий день не тащил вчерашний счёт.
func (m *Manager) ResetDay() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.TradesToday = 0
}

func (m *Manager) State() models.RiskState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
