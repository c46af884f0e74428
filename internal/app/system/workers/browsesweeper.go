// internal/app/system/workers/browsesweeper.go
package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper is implemented by browse.Registry.
type Sweeper interface {
	Sweep(inactive time.Duration) int
}

// Purger is implemented by selections.MemoryStore.
type Purger interface {
	Purge() int
}

// BrowseSweeper is a background worker that evicts idle browse sessions
// and purges expired in-memory selections. Persisted selections outlive
// eviction, so a returning visitor resumes where they left off.
type BrowseSweeper struct {
	sessions Sweeper
	states   Purger
	log      *zap.Logger
	interval time.Duration
	idle     time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewBrowseSweeper creates the worker. states may be nil when selections
// are kept in Redis, which expires them itself.
func NewBrowseSweeper(sessions Sweeper, states Purger, logger *zap.Logger, interval, idle time.Duration) *BrowseSweeper {
	return &BrowseSweeper{
		sessions: sessions,
		states:   states,
		log:      logger,
		interval: interval,
		idle:     idle,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background loop.
func (w *BrowseSweeper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("browse sweeper started",
		zap.Duration("interval", w.interval),
		zap.Duration("idle", w.idle))
}

// Stop signals the worker to stop and waits for it to finish. It is safe
// to call more than once.
func (w *BrowseSweeper) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("browse sweeper stopped")
	})
}

func (w *BrowseSweeper) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *BrowseSweeper) sweep() {
	evicted := w.sessions.Sweep(w.idle)
	purged := 0
	if w.states != nil {
		purged = w.states.Purge()
	}
	if evicted > 0 || purged > 0 {
		w.log.Info("swept browse sessions",
			zap.Int("evicted", evicted),
			zap.Int("purged", purged))
	}
}
