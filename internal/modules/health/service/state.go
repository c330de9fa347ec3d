package service

import (
	"sync/atomic"
	"time"
)

// State — готовность процесса и флаг супервизора.
type State struct {
	ready     atomic.Bool
	running   atomic.Bool
	startedAt time.Time

	lastTickUnix atomic.Int64 // unix seconds
}

// NewState: бот стартует запущенным, если autostart.
func NewState(autostart bool) *State {
	s := &State{startedAt: time.Now()}
	s.running.Store(autostart)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) Start() bool   { return !s.running.Swap(true) }
func (s *State) Stop() bool    { return s.running.Swap(false) }
func (s *State) Running() bool { return s.running.Load() }

func (s *State) TouchTick(t time.Time) { s.lastTickUnix.Store(t.Unix()) }
func (s *State) LastTick() time.Time {
	u := s.lastTickUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
