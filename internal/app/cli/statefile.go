// internal/app/cli/statefile.go
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/dalemusser/studyvault/internal/app/selection"
	"github.com/peterbourgon/diskv/v3"
)

// DiskStore keeps one selection per profile as a JSON file under BasePath,
// so `studyctl select` calls build on each other across invocations.
type DiskStore struct {
	d *diskv.Diskv
}

// NewDiskStore opens (creating on first write) a store rooted at basePath.
func NewDiskStore(basePath string) *DiskStore {
	return &DiskStore{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 64 * 1024,
	})}
}

func key(id string) string {
	id = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '.' {
			return '_'
		}
		return r
	}, id)
	return id + ".json"
}

func (s *DiskStore) Load(_ context.Context, id string) (selection.State, bool, error) {
	raw, err := s.d.Read(key(id))
	if errors.Is(err, fs.ErrNotExist) {
		return selection.State{}, false, nil
	}
	if err != nil {
		return selection.State{}, false, fmt.Errorf("read selection %s: %w", id, err)
	}
	var st selection.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return selection.State{}, false, fmt.Errorf("decode selection %s: %w", id, err)
	}
	return st, true, nil
}

func (s *DiskStore) Save(_ context.Context, id string, st selection.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode selection %s: %w", id, err)
	}
	if err := s.d.Write(key(id), raw); err != nil {
		return fmt.Errorf("write selection %s: %w", id, err)
	}
	return nil
}

func (s *DiskStore) Delete(_ context.Context, id string) error {
	err := s.d.Erase(key(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("erase selection %s: %w", id, err)
	}
	return nil
}
