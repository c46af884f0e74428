// internal/app/system/blobstore/badger.go
package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	badgerMetaPrefix = "meta:"
	badgerBlobPrefix = "blob:"
)

// Badger keeps objects in an embedded Badger database. Each object is two
// keys: meta:<path> (JSON ObjectMeta) and blob:<path> (content).
type Badger struct {
	db      *badger.DB
	baseURL string
}

// NewBadger opens (or creates) a store at dir. An empty dir opens an
// in-memory database. baseURL is where the blobs feature serves objects
// (e.g. "/blobs").
func NewBadger(dir, baseURL string) (*Badger, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Badger{db: db, baseURL: baseURL}, nil
}

// Close releases the database.
func (b *Badger) Close() error {
	return b.db.Close()
}

func (b *Badger) List(ctx context.Context, prefix string) ([]ObjectMeta, error) {
	var out []ObjectMeta
	seenDirs := make(map[string]bool)

	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(badgerMetaPrefix + prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			key := string(item.Key()[len(badgerMetaPrefix):])

			name, isDir, ok := directChild(prefix, key)
			if !ok {
				continue
			}
			if isDir {
				if !seenDirs[name] {
					seenDirs[name] = true
					out = append(out, ObjectMeta{Name: name, Path: prefix + name + "/", IsDir: true})
				}
				continue
			}

			var meta ObjectMeta
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			}); err != nil {
				return fmt.Errorf("decode meta %s: %w", key, err)
			}
			out = append(out, meta)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger: list %s: %w", prefix, err)
	}
	return out, nil
}

func (b *Badger) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) (ObjectMeta, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ObjectMeta{}, fmt.Errorf("badger: read upload: %w", err)
	}
	meta := ObjectMeta{
		Name:        Base(path),
		Path:        path,
		Size:        int64(len(data)),
		ContentType: contentType,
		UpdatedAt:   time.Now().UTC(),
	}
	mb, err := json.Marshal(meta)
	if err != nil {
		return ObjectMeta{}, err
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(badgerBlobPrefix+path), data); err != nil {
			return err
		}
		return txn.Set([]byte(badgerMetaPrefix+path), mb)
	})
	if err != nil {
		return ObjectMeta{}, fmt.Errorf("badger: put %s: %w", path, err)
	}
	return meta, nil
}

func (b *Badger) Remove(ctx context.Context, path string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(badgerMetaPrefix + path)); err != nil {
			return err
		}
		if err := txn.Delete([]byte(badgerBlobPrefix + path)); err != nil {
			return err
		}
		return txn.Delete([]byte(badgerMetaPrefix + path))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("badger: delete %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("badger: delete %s: %w", path, err)
	}
	return nil
}

func (b *Badger) Open(ctx context.Context, path string) (io.ReadCloser, ObjectMeta, error) {
	var (
		data []byte
		meta ObjectMeta
	)
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerMetaPrefix + path))
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &meta) }); err != nil {
			return err
		}
		item, err = txn.Get([]byte(badgerBlobPrefix + path))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ObjectMeta{}, fmt.Errorf("badger: get %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, ObjectMeta{}, fmt.Errorf("badger: get %s: %w", path, err)
	}
	return io.NopCloser(bytes.NewReader(data)), meta, nil
}

func (b *Badger) PublicURL(path string) string {
	return joinURL(b.baseURL, path)
}
