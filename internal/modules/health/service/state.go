package service

import (
	"sync/atomic"
	"time"
)

// State — liveness/readiness бота для health-endpoint'а.
type State struct {
	ready     atomic.Bool
	startedAt time.Time

	lastCycleUnix atomic.Int64 // unix seconds последнего цикла
	cycles        atomic.Int64
	decisions     atomic.Int64 // сколько циклов закончились сделкой
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

// TouchCycle отмечает завершённый цикл принятия решения.
func (s *State) TouchCycle(t time.Time, executed bool) {
	s.lastCycleUnix.Store(t.Unix())
	s.cycles.Add(1)
	if executed {
		s.decisions.Add(1)
	}
}

func (s *State) Cycles() int64    { return s.cycles.Load() }
func (s *State) Decisions() int64 { return s.decisions.Load() }

func (s *State) LastCycle() time.Time {
	u := s.lastCycleUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
