package runner

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	healthsvc "intraday_bot/internal/modules/health/service"
	"intraday_bot/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestLoop(t *testing.T) (*Loop, *fakeNotifier) {
	t.Helper()

	cfg := testCfg()
	cfg.SessionCutoff = "15:15"
	cfg.PollInterval = time.Second

	b := &fakeBroker{}
	n := &fakeNotifier{}
	o, rm := newTestOrchestrator(cfg, b, n)

	loop, err := NewLoop(cfg, o, rm, n, healthsvc.NewState())
	require.NoError(t, err)
	return loop, n
}

func TestPastCutoff(t *testing.T) {
	loop, _ := newTestLoop(t)

	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	assert.False(t, loop.pastCutoff(day.Add(10*time.Hour)))
	assert.False(t, loop.pastCutoff(day.Add(15*time.Hour+14*time.Minute)))
	// ровно на отсечке торговля уже закрыта
	assert.True(t, loop.pastCutoff(day.Add(15*time.Hour+15*time.Minute)))
	assert.True(t, loop.pastCutoff(day.Add(16*time.Hour)))
}

func TestNewLoopBadCutoff(t *testing.T) {
	cfg := testCfg()
	cfg.SessionCutoff = "25:99"

	b := &fakeBroker{}
	n := &fakeNotifier{}
	o, rm := newTestOrchestrator(cfg, b, n)

	_, err := NewLoop(cfg, o, rm, n, healthsvc.NewState())
	assert.Error(t, err)
}

func TestRiskStatus(t *testing.T) {
	loop, _ := newTestLoop(t)

	msg := loop.RiskStatus()
	assert.Contains(t, msg, "0/10")
	assert.Contains(t, msg, "0/3")
}
