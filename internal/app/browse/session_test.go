package browse

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/studyvault/internal/app/catalog"
	"github.com/dalemusser/studyvault/internal/app/resolver"
	"github.com/dalemusser/studyvault/internal/app/selection"
	"github.com/dalemusser/studyvault/internal/app/system/blobstore"
	"github.com/dalemusser/studyvault/internal/domain/models"
	"go.uber.org/zap"
)

const fixture = `
branches:
  - { id: cse, name: Computer Science }
years:
  - year: 2
    semesters:
      - semester: 3
        branches:
          cse:
            - { code: "CSA 103", name: "Data Structures" }
            - { code: "CSB201", name: "Digital Electronics" }
files:
  "CSA 103":
    syllabus:
      - { id: ds_syllabus, name: "Syllabus - DSA", url: "https://example.com/ds" }
`

func newLookup(t *testing.T) *catalog.Lookup {
	t.Helper()
	d, err := catalog.Parse([]byte(fixture))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return catalog.New(d)
}

// call is one pending List request; the test decides when and with what
// it completes.
type call struct {
	bucket models.Bucket
	reply  chan []models.FileResource
}

type scriptedLister struct {
	calls chan call
}

func newScripted() *scriptedLister {
	return &scriptedLister{calls: make(chan call, 16)}
}

func (l *scriptedLister) List(_ context.Context, b models.Bucket) []models.FileResource {
	c := call{bucket: b, reply: make(chan []models.FileResource, 1)}
	l.calls <- c
	return <-c.reply
}

func (l *scriptedLister) next(t *testing.T) call {
	t.Helper()
	select {
	case c := <-l.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a List call")
	}
	return call{}
}

func storageFile(code string, mt models.MaterialType, name string) models.FileResource {
	b := models.Bucket{SubjectCode: code, MaterialType: mt}
	return models.FileResource{ID: resolver.StorageID(b, name), Name: name, Origin: models.OriginStorage, MaterialType: mt}
}

func waitIdle(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.WaitIdle(ctx); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
}

func walkTo(s *Session, code string, mt models.MaterialType) {
	s.Dispatch(selection.SetYear(2))
	s.Dispatch(selection.SetSemester(3))
	s.Dispatch(selection.SetBranch("cse"))
	s.Dispatch(selection.SetSubject(code))
	s.Dispatch(selection.SetMaterial(mt))
}

func TestSession_StaleResponseIsDiscarded(t *testing.T) {
	lister := newScripted()
	s := NewSession("s1", selection.State{}, false, newLookup(t), lister, zap.NewNop())

	walkTo(s, "CSA 103", models.MaterialTypeSyllabus)
	first := lister.next(t)

	// Switch bucket while the first request is still in flight.
	s.Dispatch(selection.SetMaterial(models.MaterialTypePYQ))
	second := lister.next(t)
	if second.bucket.MaterialType != models.MaterialTypePYQ {
		t.Fatalf("second call bucket = %+v", second.bucket)
	}

	// Newer answer lands first, older one afterwards.
	second.reply <- []models.FileResource{storageFile("CSA 103", models.MaterialTypePYQ, "2023.pdf")}
	first.reply <- []models.FileResource{storageFile("CSA 103", models.MaterialTypeSyllabus, "stale.pdf")}
	waitIdle(t, s)

	v := s.View(false)
	if v.Loading {
		t.Error("view still loading")
	}
	if len(v.Files) != 1 || v.Files[0].ID != "storage_CSA103_pyq_2023.pdf" {
		t.Fatalf("files = %+v, want only the pyq upload", v.Files)
	}
}

func TestSession_SameBucketRefreshKeepsNewest(t *testing.T) {
	lister := newScripted()
	s := NewSession("s1", selection.State{}, false, newLookup(t), lister, nil)

	walkTo(s, "CSB201", models.MaterialTypeSyllabus)
	first := lister.next(t)
	s.Refresh()
	second := lister.next(t)

	second.reply <- []models.FileResource{storageFile("CSB201", models.MaterialTypeSyllabus, "new.pdf")}
	first.reply <- []models.FileResource{storageFile("CSB201", models.MaterialTypeSyllabus, "old.pdf")}
	waitIdle(t, s)

	v := s.View(false)
	if len(v.Files) != 1 || !strings.HasSuffix(v.Files[0].ID, "new.pdf") {
		t.Errorf("files = %+v, want new.pdf", v.Files)
	}
}

func TestSession_LeavingBucketClearsView(t *testing.T) {
	lister := newScripted()
	s := NewSession("s1", selection.State{}, false, newLookup(t), lister, nil)

	walkTo(s, "CSA 103", models.MaterialTypeSyllabus)
	pending := lister.next(t)

	s.Dispatch(selection.Reset(selection.LevelBranch))
	v := s.View(false)
	if v.Loading || len(v.Files) != 0 || v.Bucket != "" {
		t.Errorf("view not cleared: %+v", v)
	}

	pending.reply <- []models.FileResource{storageFile("CSA 103", models.MaterialTypeSyllabus, "late.pdf")}
	waitIdle(t, s)

	v = s.View(false)
	if len(v.Files) != 0 {
		t.Errorf("late result applied after leaving bucket: %+v", v.Files)
	}
	if got := s.State(); got != (selection.State{Year: 2, Semester: 3}) {
		t.Errorf("state = %+v", got)
	}
}

func TestSession_ReselectingSameBucketDoesNotRefetch(t *testing.T) {
	lister := newScripted()
	s := NewSession("s1", selection.State{}, false, newLookup(t), lister, nil)

	walkTo(s, "CSA 103", models.MaterialTypeSyllabus)
	c := lister.next(t)
	s.Dispatch(selection.SetMaterial(models.MaterialTypeSyllabus))
	c.reply <- nil
	waitIdle(t, s)

	select {
	case extra := <-lister.calls:
		t.Errorf("unexpected second List call for %+v", extra.bucket)
	default:
	}
}

func TestSession_MergesCatalogAndStorage(t *testing.T) {
	store := blobstore.NewMemory("https://cdn.test")
	if _, err := store.Upload(context.Background(), "materials/CSA103/syllabus/x.pdf", strings.NewReader("pdf"), 3, "application/pdf"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	res := resolver.New(store, "", zap.NewNop())
	s := NewSession("s1", selection.State{}, false, newLookup(t), res, nil)

	walkTo(s, "CSA 103", models.MaterialTypeSyllabus)
	waitIdle(t, s)

	v := s.View(false)
	if len(v.Files) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(v.Files), v.Files)
	}
	if v.Files[0].ID != "ds_syllabus" || v.Files[0].Origin != models.OriginCatalog {
		t.Errorf("first = %+v, want catalog entry", v.Files[0])
	}
	if v.Files[1].ID != "storage_CSA103_syllabus_x.pdf" {
		t.Errorf("second = %+v", v.Files[1])
	}
}

func TestSession_DegradedStorageShowsCatalogOnly(t *testing.T) {
	res := resolver.New(blobstore.Unconfigured{Reason: "no credentials"}, "", zap.NewNop())
	s := NewSession("s1", selection.State{}, false, newLookup(t), res, nil)

	walkTo(s, "CSA 103", models.MaterialTypeSyllabus)
	waitIdle(t, s)

	v := s.View(false)
	if len(v.Files) != 1 || v.Files[0].ID != "ds_syllabus" {
		t.Errorf("files = %+v", v.Files)
	}

	s.Dispatch(selection.SetMaterial(models.MaterialTypeLabwork))
	waitIdle(t, s)
	v = s.View(false)
	if !v.Empty || v.Message == "" {
		t.Errorf("expected empty view with message, got %+v", v)
	}
}

func TestSession_RestoreStartsResolution(t *testing.T) {
	lister := newScripted()
	s := NewSession("s1", selection.State{}, false, newLookup(t), lister, nil)

	s.Restore(selection.State{Year: 2, Semester: 3, Branch: "cse", Subject: "CSA 103", MaterialType: models.MaterialTypePYQ})
	c := lister.next(t)
	if c.bucket.Key() != "CSA103/pyq" {
		t.Errorf("bucket = %q", c.bucket.Key())
	}
	c.reply <- nil
	waitIdle(t, s)
}

type instantLister struct{}

func (instantLister) List(context.Context, models.Bucket) []models.FileResource { return nil }

func TestSession_WaitIdleDuringRefresh(t *testing.T) {
	s := NewSession("s1", selection.State{}, false, newLookup(t), instantLister{}, nil)
	walkTo(s, "CSA 103", models.MaterialTypePYQ)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				s.Refresh()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
				_ = s.WaitIdle(ctx)
				cancel()
			}
		}()
	}
	wg.Wait()

	waitIdle(t, s)
	if v := s.View(false); v.Loading {
		t.Errorf("view still loading after all resolutions finished: %+v", v)
	}
}

func TestSession_WaitIdleWithNothingRunning(t *testing.T) {
	s := NewSession("s1", selection.State{}, false, newLookup(t), instantLister{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.WaitIdle(ctx); err != nil {
		t.Errorf("WaitIdle on idle session = %v, want nil", err)
	}
}
