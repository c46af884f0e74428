// internal/app/browse/registry.go
package browse

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/studyvault/internal/app/catalog"
	"github.com/dalemusser/studyvault/internal/app/selection"
	"go.uber.org/zap"
)

// StateStore persists selections between requests and restarts.
// store/selections provides Redis and in-memory implementations.
type StateStore interface {
	Load(ctx context.Context, id string) (selection.State, bool, error)
	Save(ctx context.Context, id string, s selection.State) error
	Delete(ctx context.Context, id string) error
}

// Registry holds live sessions keyed by session id.
type Registry struct {
	lookup  *catalog.Lookup
	storage Lister
	states  StateStore
	strict  bool
	log     *zap.Logger

	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time
}

type entry struct {
	sess     *Session
	lastUsed time.Time
}

// NewRegistry creates a Registry. states may be nil, in which case
// selections live only as long as the process.
func NewRegistry(lookup *catalog.Lookup, storage Lister, states StateStore, strict bool, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		lookup:   lookup,
		storage:  storage,
		states:   states,
		strict:   strict,
		log:      logger,
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// Get returns the session for id, restoring its persisted selection the
// first time it is seen. A persisted state that no longer fits the
// hierarchy is clamped, or panics when the registry is strict.
func (r *Registry) Get(ctx context.Context, id string) *Session {
	r.mu.Lock()
	if e, ok := r.sessions[id]; ok {
		e.lastUsed = r.now()
		r.mu.Unlock()
		return e.sess
	}
	r.mu.Unlock()

	var initial selection.State
	if r.states != nil {
		st, ok, err := r.states.Load(ctx, id)
		if err != nil {
			r.log.Warn("failed to load persisted selection",
				zap.String("session", id), zap.Error(err))
		} else if ok {
			initial = st
			if !r.strict {
				initial = st.Clamp()
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another request may have created it meanwhile
	if e, ok := r.sessions[id]; ok {
		e.lastUsed = r.now()
		return e.sess
	}
	sess := NewSession(id, initial, r.strict, r.lookup, r.storage, r.log)
	r.sessions[id] = &entry{sess: sess, lastUsed: r.now()}
	return sess
}

// Dispatch applies a to the session id and persists the result.
func (r *Registry) Dispatch(ctx context.Context, id string, a selection.Action) *Session {
	sess := r.Get(ctx, id)
	next := sess.Dispatch(a)
	r.save(ctx, id, next)
	return sess
}

// Forget drops the session and its persisted selection.
func (r *Registry) Forget(ctx context.Context, id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	if r.states != nil {
		if err := r.states.Delete(ctx, id); err != nil {
			r.log.Warn("failed to delete persisted selection",
				zap.String("session", id), zap.Error(err))
		}
	}
}

// Sweep evicts sessions idle for longer than inactive from memory and
// returns how many were evicted. Persisted selections are kept, so an
// evicted session resumes where it left off.
func (r *Registry) Sweep(inactive time.Duration) int {
	cutoff := r.now().Add(-inactive)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) save(ctx context.Context, id string, st selection.State) {
	if r.states == nil {
		return
	}
	if err := r.states.Save(ctx, id, st); err != nil {
		r.log.Warn("failed to persist selection",
			zap.String("session", id), zap.Error(err))
	}
}
