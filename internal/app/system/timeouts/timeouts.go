// Package timeouts holds the deadlines used for I/O started by HTTP
// handlers, the browse session and the background workers.
//
// Tiers:
//   - Ping: health checks against the record store
//   - Short: single record reads and writes
//   - Medium: bucket listings against the blob store
//   - Long: streaming a blob to a client
//   - Batch: uploads
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
	DefaultBatch  = 2 * time.Minute
)

// EnvPrefix prefixes the variables read by ConfigureFromEnv.
const EnvPrefix = "STUDYVAULT_TIMEOUT_"

var mu sync.RWMutex

var current = defaults()

func defaults() Config {
	return Config{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Long:   DefaultLong,
		Batch:  DefaultBatch,
	}
}

func get(pick func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return pick(current)
}

func Ping() time.Duration   { return get(func(c Config) time.Duration { return c.Ping }) }
func Short() time.Duration  { return get(func(c Config) time.Duration { return c.Short }) }
func Medium() time.Duration { return get(func(c Config) time.Duration { return c.Medium }) }
func Long() time.Duration   { return get(func(c Config) time.Duration { return c.Long }) }
func Batch() time.Duration  { return get(func(c Config) time.Duration { return c.Batch }) }

// Config holds one value per tier. Zero values leave a tier unchanged.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Batch  time.Duration
}

func (c *Config) fields() []struct {
	env string
	dst *time.Duration
} {
	return []struct {
		env string
		dst *time.Duration
	}{
		{"PING", &c.Ping},
		{"SHORT", &c.Short},
		{"MEDIUM", &c.Medium},
		{"LONG", &c.Long},
		{"BATCH", &c.Batch},
	}
}

// Configure overrides the non-zero tiers of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	src := cfg.fields()
	for i, f := range current.fields() {
		if v := *src[i].dst; v > 0 {
			*f.dst = v
		}
	}
}

// Reset restores the defaults. Tests call it in cleanup.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = defaults()
}

// ConfigureFromEnv reads STUDYVAULT_TIMEOUT_{PING,SHORT,MEDIUM,LONG,BATCH}
// as Go durations ("500ms", "2m"). Unset, invalid and non-positive values
// are skipped. It returns how many tiers were set.
func ConfigureFromEnv() int {
	var cfg Config
	n := 0
	for _, f := range cfg.fields() {
		v := os.Getenv(EnvPrefix + f.env)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*f.dst = d
			n++
		}
	}
	Configure(cfg)
	return n
}

// Current returns a copy of the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// WithTimeout is context.WithTimeout whose cancel func logs a Warn naming
// operation when the deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list bucket files")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
