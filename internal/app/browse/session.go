// Package browse runs one user's walk through the curriculum: a selection
// machine plus asynchronous resolution of the files in the selected bucket.
//
// Resolution runs in a goroutine per request. Every request is tagged with
// the session's generation counter and the bucket it was started for; a
// finished request only updates the view when both still match, so a slow
// answer for an old selection can never overwrite a newer one.
package browse

import (
	"context"
	"sync"

	"github.com/dalemusser/studyvault/internal/app/catalog"
	"github.com/dalemusser/studyvault/internal/app/merge"
	"github.com/dalemusser/studyvault/internal/app/present"
	"github.com/dalemusser/studyvault/internal/app/selection"
	"github.com/dalemusser/studyvault/internal/app/system/timeouts"
	"github.com/dalemusser/studyvault/internal/domain/models"
	"go.uber.org/zap"
)

// Lister returns the storage-backed files of a bucket. It must not fail;
// *resolver.Resolver is the production implementation.
type Lister interface {
	List(ctx context.Context, b models.Bucket) []models.FileResource
}

// Session is a single browse session. It is safe for concurrent use.
type Session struct {
	ID string

	machine *selection.Machine
	lookup  *catalog.Lookup
	storage Lister
	log     *zap.Logger

	// dmu orders transitions so sync always sees them in dispatch order.
	dmu sync.Mutex

	mu      sync.Mutex
	gen     uint64
	active  string // bucket key of the current selection, "" when incomplete
	files   []models.FileResource
	loading bool

	// inflight counts running resolutions; idle is closed when it drops to 0.
	inflight int
	idle     chan struct{}
}

// NewSession starts a session at initial. strict makes an invalid initial
// state panic instead of being clamped.
func NewSession(id string, initial selection.State, strict bool, lookup *catalog.Lookup, storage Lister, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		ID:      id,
		machine: selection.NewMachine(initial, strict),
		lookup:  lookup,
		storage: storage,
		log:     logger,
	}
	s.sync(s.machine.State(), false)
	return s
}

// State returns the current selection.
func (s *Session) State() selection.State { return s.machine.State() }

// Dispatch applies a and starts resolution when it completes a new bucket.
func (s *Session) Dispatch(a selection.Action) selection.State {
	s.dmu.Lock()
	defer s.dmu.Unlock()
	_, next := s.machine.Dispatch(a)
	s.sync(next, false)
	return next
}

// Restore replaces the selection wholesale (e.g. from persisted state).
func (s *Session) Restore(st selection.State) selection.State {
	s.dmu.Lock()
	defer s.dmu.Unlock()
	next := s.machine.Restore(st)
	s.sync(next, false)
	return next
}

// Refresh re-resolves the active bucket. Results of earlier requests for the
// same bucket are discarded once this one is issued.
func (s *Session) Refresh() {
	s.dmu.Lock()
	defer s.dmu.Unlock()
	s.sync(s.machine.State(), true)
}

// View renders the session.
func (s *Session) View(grouped bool) present.View {
	st := s.machine.State()
	s.mu.Lock()
	files := append([]models.FileResource(nil), s.files...)
	loading := s.loading
	s.mu.Unlock()
	return present.BuildView(st, s.lookup, files, loading, grouped)
}

// WaitIdle blocks until all started resolutions have finished or ctx ends.
func (s *Session) WaitIdle(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()
	if idle == nil {
		return nil
	}
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sync brings the file view in line with st. Leaving a complete bucket
// clears the view immediately; entering one (or force) starts a new
// generation.
func (s *Session) sync(st selection.State, force bool) {
	b, ok := st.Bucket()

	s.mu.Lock()
	if !ok {
		if s.active != "" || s.loading {
			s.gen++
		}
		s.active = ""
		s.files = nil
		s.loading = false
		s.mu.Unlock()
		return
	}

	key := b.Key()
	if key == s.active && !force {
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen
	s.active = key
	s.files = nil
	s.loading = true
	if s.inflight == 0 {
		s.idle = make(chan struct{})
	}
	s.inflight++
	s.mu.Unlock()

	go s.resolve(gen, b)
}

func (s *Session) resolve(gen uint64, b models.Bucket) {
	defer s.finish()

	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Medium(), s.log, "resolve bucket")
	defer cancel()

	var catalogFiles, storageFiles []models.FileResource
	if s.lookup != nil {
		catalogFiles = s.lookup.FilesFor(b.SubjectCode, b.MaterialType)
	}
	if s.storage != nil {
		storageFiles = s.storage.List(ctx, b)
	}
	s.apply(gen, b.Key(), merge.MergeFiles(catalogFiles, storageFiles))
}

// finish marks one resolution as done, waking WaitIdle callers when it was
// the last one.
func (s *Session) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if s.inflight == 0 {
		close(s.idle)
		s.idle = nil
	}
}

// apply installs files when (gen, key) is still the active request and
// reports whether it did.
func (s *Session) apply(gen uint64, key string, files []models.FileResource) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || key != s.active {
		s.log.Debug("discarding stale resolution",
			zap.String("session", s.ID),
			zap.String("bucket", key),
			zap.Uint64("generation", gen),
			zap.Uint64("current_generation", s.gen))
		return false
	}
	s.files = files
	s.loading = false
	return true
}
