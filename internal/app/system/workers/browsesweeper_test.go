package workers

import (
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type countingSweeper struct {
	calls atomic.Int32
	idle  atomic.Int64
}

func (c *countingSweeper) Sweep(inactive time.Duration) int {
	c.calls.Add(1)
	c.idle.Store(int64(inactive))
	return 1
}

type countingPurger struct{ calls atomic.Int32 }

func (c *countingPurger) Purge() int {
	c.calls.Add(1)
	return 0
}

func TestBrowseSweeper_RunsUntilStopped(t *testing.T) {
	sessions := &countingSweeper{}
	states := &countingPurger{}
	w := NewBrowseSweeper(sessions, states, zap.NewNop(), 5*time.Millisecond, time.Hour)
	w.Start()

	deadline := time.Now().Add(2 * time.Second)
	for sessions.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()
	w.Stop()

	if sessions.calls.Load() < 2 {
		t.Fatalf("sweeps: got %d, want at least 2", sessions.calls.Load())
	}
	if states.calls.Load() != sessions.calls.Load() {
		t.Errorf("purges %d != sweeps %d", states.calls.Load(), sessions.calls.Load())
	}
	if got := time.Duration(sessions.idle.Load()); got != time.Hour {
		t.Errorf("idle passed to Sweep: got %v", got)
	}

	after := sessions.calls.Load()
	time.Sleep(20 * time.Millisecond)
	if sessions.calls.Load() != after {
		t.Error("sweeper kept running after Stop")
	}
}

func TestBrowseSweeper_NilPurger(t *testing.T) {
	w := NewBrowseSweeper(&countingSweeper{}, nil, zap.NewNop(), time.Hour, time.Minute)
	w.sweep()
}
