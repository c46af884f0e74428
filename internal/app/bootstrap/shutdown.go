// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the workers and closes every backend, reporting all
// failures together.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.BrowseSweep != nil {
		deps.BrowseSweep.Stop()
	}
	if deps.Writes != nil {
		deps.Writes.Close()
	}

	var errs []error
	if deps.closeBlobs != nil {
		if err := deps.closeBlobs(); err != nil {
			logger.Error("blob store close failed", zap.Error(err))
			errs = append(errs, err)
		}
	}
	if deps.Redis != nil {
		if err := deps.Redis.Close(); err != nil {
			logger.Error("redis close failed", zap.Error(err))
			errs = append(errs, err)
		}
	}
	if deps.Postgres != nil {
		logger.Info("closing PostgreSQL pool")
		deps.Postgres.Close()
	}
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
