// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/studyvault/internal/app/system/indexes"
	"github.com/dalemusser/studyvault/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema creates the record store's collections, validators and
// indexes, or its Postgres tables.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase != nil {
		if err := validators.EnsureAll(ctx, deps.MongoDatabase, logger); err != nil {
			logger.Error("ensure mongo validators failed", zap.Error(err))
			return err
		}
		if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
			logger.Error("ensure mongo indexes failed", zap.Error(err))
			return err
		}
	}
	if deps.UploadsPG != nil {
		if err := deps.UploadsPG.EnsureSchema(ctx); err != nil {
			logger.Error("ensure postgres schema failed", zap.Error(err))
			return err
		}
	}
	return nil
}
