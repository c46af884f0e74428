// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/studyvault/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup applies timeout overrides and starts the background workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		cur := timeouts.Current()
		logger.Info("timeouts configured from environment",
			zap.Int("count", n),
			zap.Duration("medium", cur.Medium),
			zap.Duration("batch", cur.Batch))
	}

	logger.Info("catalog loaded", zap.Ints("years", deps.Catalog.Years()))

	if deps.BrowseSweep != nil {
		deps.BrowseSweep.Start()
	}
	return nil
}
