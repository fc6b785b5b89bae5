package risk

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intraday_bot/internal/models"
)

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Sendf(format string, args ...any) {
	f.messages = append(f.messages, fmt.Sprintf(format, args...))
}

func testConfig() Config {
	return Config{
		MaxTradesPerDay:     10,
		LossStreakThreshold: 3,
		Cooldown:            time.Hour,
	}
}

var (
	filled   = models.OrderOutcome{Filled: true, OrderID: "OID1"}
	rejected = models.OrderOutcome{Filled: false}
)

func TestGateFresh(t *testing.T) {
	m := NewManager(testConfig(), nil)
	ok, reason := m.Gate(time.Now())
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestDailyCap(t *testing.T) {
	m := NewManager(testConfig(), nil)
	now := time.Now()

	for i := 0; i < 10; i++ {
		ok, _ := m.Gate(now)
		require.True(t, ok, "attempt %d", i)
		m.RecordAttempt(now, filled)
	}

	ok, reason := m.Gate(now)
	assert.False(t, ok)
	assert.Equal(t, models.ReasonDailyCap, reason)
}

func TestLossStreakCooldown(t *testing.T) {
	n := &fakeNotifier{}
	m := NewManager(testConfig(), n)
	now := time.Now()

	m.RecordAttempt(now, rejected)
	m.RecordAttempt(now, rejected)
	ok, _ := m.Gate(now)
	require.True(t, ok, "две неудачи ещё не порог")

	m.RecordAttempt(now, rejected)

	ok, reason := m.Gate(now)
	assert.False(t, ok)
	assert.Equal(t, models.ReasonCooldown, reason)
	assert.NotEmpty(t, n.messages, "о кулдауне должно прийти уведомление")

	// кулдаун — timestamp: после часа торгуем снова
	ok, _ = m.Gate(now.Add(time.Hour + time.Minute))
	assert.True(t, ok)
}

func TestFillResetsStreak(t *testing.T) {
	m := NewManager(testConfig(), nil)
	now := time.Now()

	m.RecordAttempt(now, rejected)
	m.RecordAttempt(now, rejected)
	m.RecordAttempt(now, filled)
	m.RecordAttempt(now, rejected)
	m.RecordAttempt(now, rejected)

	ok, _ := m.Gate(now)
	assert.True(t, ok, "после сброса серия начинается заново")
	assert.Equal(t, 2, m.State().ConsecutiveLosses)
}

// дневной лимит проверяется раньше кулдауна
func TestGateOrder(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTradesPerDay = 3
	m := NewManager(cfg, nil)
	now := time.Now()

	m.RecordAttempt(now, rejected)
	m.RecordAttempt(now, rejected)
	m.RecordAttempt(now, rejected)

	ok, reason := m.Gate(now)
	assert.False(t, ok)
	assert.Equal(t, models.ReasonDailyCap, reason)
}

func TestResetDay(t *testing.T) {
	m := NewManager(testConfig(), nil)
	now := time.Now()

	m.RecordAttempt(now, rejected)
	m.RecordAttempt(now, rejected)
	m.ResetDay()

	st := m.State()
	assert.Equal(t, 0, st.TradesToday)
	assert.Equal(t, 2, st.ConsecutiveLosses, "серия убытков переживает новый день")
}
