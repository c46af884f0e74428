// internal/app/system/blobstore/memory.go
package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

type memObject struct {
	data []byte
	meta ObjectMeta
}

// Memory is an in-process Store. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memObject
	baseURL string
	err     error
}

// NewMemory returns an empty Memory store whose public URLs start with baseURL.
func NewMemory(baseURL string) *Memory {
	return &Memory{objects: make(map[string]memObject), baseURL: baseURL}
}

// FailWith makes every subsequent operation return err (nil restores normal
// behaviour). Used to simulate an unreachable store.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Memory) List(ctx context.Context, prefix string) ([]ObjectMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}

	dirs := make(map[string]bool)
	var out []ObjectMeta
	for key, obj := range m.objects {
		name, isDir, ok := directChild(prefix, key)
		if !ok {
			continue
		}
		if isDir {
			if !dirs[name] {
				dirs[name] = true
				out = append(out, ObjectMeta{Name: name, Path: prefix + name + "/", IsDir: true})
			}
			continue
		}
		out = append(out, obj.meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (m *Memory) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) (ObjectMeta, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ObjectMeta{}, fmt.Errorf("read upload: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return ObjectMeta{}, m.err
	}
	meta := ObjectMeta{
		Name:        Base(path),
		Path:        path,
		Size:        int64(len(data)),
		ContentType: contentType,
		UpdatedAt:   time.Now().UTC(),
	}
	m.objects[path] = memObject{data: data, meta: meta}
	return meta, nil
}

func (m *Memory) Remove(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.objects[path]; !ok {
		return fmt.Errorf("remove %s: %w", path, ErrNotFound)
	}
	delete(m.objects, path)
	return nil
}

func (m *Memory) Open(ctx context.Context, path string) (io.ReadCloser, ObjectMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, ObjectMeta{}, m.err
	}
	obj, ok := m.objects[path]
	if !ok {
		return nil, ObjectMeta{}, fmt.Errorf("open %s: %w", path, ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.meta, nil
}

func (m *Memory) PublicURL(path string) string {
	return joinURL(m.baseURL, path)
}
