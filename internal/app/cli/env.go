// internal/app/cli/env.go
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dalemusser/studyvault/internal/app/browse"
	"github.com/dalemusser/studyvault/internal/app/catalog"
	"github.com/dalemusser/studyvault/internal/app/resolver"
	"github.com/dalemusser/studyvault/internal/app/system/blobstore"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options are the persistent flags shared by every command.
type Options struct {
	Home       string // state directory, "~" expanded
	Profile    string // selection slot inside Home
	Catalog    string // blank uses the built-in catalog
	Storage    string // badger or s3
	BadgerPath string // blank means <Home>/blobs
	Root       string
	Verbose    bool

	// S3; defaults come from STUDYVAULT_STORAGE_* variables.
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	PublicURL string
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// DefaultOptions reads STUDYVAULT_* variables so the CLI can point at the
// same storage as a running server.
func DefaultOptions() Options {
	return Options{
		Home:      envOr("STUDYVAULT_HOME", "~/.studyvault"),
		Profile:   "default",
		Storage:   envOr("STUDYVAULT_STORAGE_TYPE", "badger"),
		Root:      envOr("STUDYVAULT_MATERIAL_ROOT", resolver.DefaultRoot),
		Endpoint:  os.Getenv("STUDYVAULT_STORAGE_ENDPOINT"),
		AccessKey: os.Getenv("STUDYVAULT_STORAGE_ACCESS_KEY"),
		SecretKey: os.Getenv("STUDYVAULT_STORAGE_SECRET_KEY"),
		Region:    envOr("STUDYVAULT_STORAGE_REGION", "us-east-1"),
		Bucket:    envOr("STUDYVAULT_STORAGE_BUCKET", "study-materials"),
		PublicURL: os.Getenv("STUDYVAULT_STORAGE_PUBLIC_URL"),
	}
}

// Env is what a command runs against.
type Env struct {
	Log      *zap.Logger
	Lookup   *catalog.Lookup
	Resolver *resolver.Resolver
	States   browse.StateStore
	Profile  string

	closers []func() error
}

// Open builds an Env from opts. Storage problems degrade to an
// unconfigured store exactly as in the server.
func Open(ctx context.Context, opts Options) (*Env, error) {
	home, err := homedir.Expand(opts.Home)
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", opts.Home, err)
	}

	level := zapcore.WarnLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	var d catalog.Data
	if opts.Catalog == "" {
		d, err = catalog.Default()
	} else {
		d, err = catalog.Load(opts.Catalog)
	}
	if err != nil {
		return nil, err
	}

	e := &Env{
		Log:     logger,
		Lookup:  catalog.New(d),
		States:  NewDiskStore(filepath.Join(home, "selections")),
		Profile: opts.Profile,
	}
	e.closers = append(e.closers, func() error { _ = logger.Sync(); return nil })

	store := openStore(ctx, opts, home, logger)
	if c, ok := store.(interface{ Close() error }); ok {
		e.closers = append(e.closers, c.Close)
	}
	e.Resolver = resolver.New(store, opts.Root, logger)
	return e, nil
}

func openStore(ctx context.Context, opts Options, home string, logger *zap.Logger) blobstore.Store {
	switch opts.Storage {
	case "s3":
		if opts.Endpoint == "" || opts.AccessKey == "" {
			logger.Warn("storage endpoint or access key missing; file storage disabled")
			return blobstore.Unconfigured{Reason: "storage endpoint or access key missing"}
		}
		s, err := blobstore.NewS3(ctx, blobstore.S3Config{
			Endpoint:  opts.Endpoint,
			Region:    opts.Region,
			Bucket:    opts.Bucket,
			AccessKey: opts.AccessKey,
			SecretKey: opts.SecretKey,
			PublicURL: opts.PublicURL,
		})
		if err != nil {
			logger.Warn("S3 client build failed; file storage disabled", zap.Error(err))
			return blobstore.Unconfigured{Reason: err.Error()}
		}
		return s
	default:
		dir := opts.BadgerPath
		if dir == "" {
			dir = filepath.Join(home, "blobs")
		}
		b, err := blobstore.NewBadger(dir, "/blobs")
		if err != nil {
			logger.Warn("badger blob store unavailable; file storage disabled", zap.Error(err))
			return blobstore.Unconfigured{Reason: err.Error()}
		}
		return b
	}
}

// Close releases the blob store and flushes the logger.
func (e *Env) Close() error {
	var first error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Session restores the profile's selection into a browse session.
func (e *Env) Session(ctx context.Context, strict bool) (*browse.Session, error) {
	st, _, err := e.States.Load(ctx, e.Profile)
	if err != nil {
		return nil, err
	}
	return browse.NewSession(e.Profile, st.Clamp(), strict, e.Lookup, e.Resolver, e.Log), nil
}
