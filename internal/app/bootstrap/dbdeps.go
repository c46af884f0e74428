// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/studyvault/internal/app/browse"
	"github.com/dalemusser/studyvault/internal/app/catalog"
	"github.com/dalemusser/studyvault/internal/app/features/files"
	"github.com/dalemusser/studyvault/internal/app/resolver"
	"github.com/dalemusser/studyvault/internal/app/store/selections"
	uploadstore "github.com/dalemusser/studyvault/internal/app/store/uploads"
	"github.com/dalemusser/studyvault/internal/app/store/uploadspg"
	"github.com/dalemusser/studyvault/internal/app/system/blobstore"
	"github.com/dalemusser/studyvault/internal/app/system/ratelimit"
	"github.com/dalemusser/studyvault/internal/app/system/timeouts"
	"github.com/dalemusser/studyvault/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// DBDeps holds the back-end clients and the long-lived services built on
// them. Optional backends are nil when not configured.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Postgres      *pgxpool.Pool
	Redis         *redis.Client

	Blobs       blobstore.Store
	closeBlobs  func() error
	Catalog     *catalog.Lookup
	Resolver    *resolver.Resolver
	Records     files.Records
	UploadsPG   *uploadspg.Store
	MemStates   *selections.MemoryStore
	Sessions    *browse.Registry
	BrowseSweep *workers.BrowseSweeper
	Writes      *ratelimit.Limiter
}

// ConnectDB opens every configured backend and builds the services that
// depend on them. Only a missing catalog or an unreachable record store
// fails startup; storage and Redis problems degrade.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	lookup, err := loadCatalog(appCfg.CatalogPath)
	if err != nil {
		logger.Error("catalog load failed", zap.String("path", appCfg.CatalogPath), zap.Error(err))
		return DBDeps{}, err
	}
	deps.Catalog = lookup

	switch appCfg.RecordsBackend {
	case RecordsMongo:
		client, err := connectMongo(ctx, appCfg.MongoURI)
		if err != nil {
			logger.Error("MongoDB connect failed", zap.Error(err))
			return DBDeps{}, err
		}
		deps.MongoClient = client
		deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
		deps.Records = uploadstore.New(deps.MongoDatabase)
		logger.Info("record store: mongo", zap.String("database", appCfg.MongoDatabase))
	case RecordsPostgres:
		pool, err := uploadspg.Connect(ctx, appCfg.PostgresDSN)
		if err != nil {
			logger.Error("PostgreSQL connect failed", zap.Error(err))
			return DBDeps{}, err
		}
		deps.Postgres = pool
		deps.UploadsPG = uploadspg.New(pool)
		deps.Records = deps.UploadsPG
		logger.Info("record store: postgres")
	default:
		logger.Warn("no record store configured; public listings are disabled")
	}

	deps.Blobs, deps.closeBlobs = openBlobStore(ctx, appCfg, logger)
	deps.Resolver = resolver.New(deps.Blobs, appCfg.MaterialRoot, logger)

	var states browse.StateStore
	if appCfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     appCfg.RedisAddr,
			Password: appCfg.RedisPassword,
			DB:       appCfg.RedisDB,
		})
		rs := selections.NewRedis(rdb, 0)
		pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
		err := rs.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Warn("redis unreachable; keeping selections in memory",
				zap.String("addr", appCfg.RedisAddr), zap.Error(err))
			_ = rdb.Close()
		} else {
			deps.Redis = rdb
			states = rs
		}
	}
	if states == nil {
		deps.MemStates = selections.NewMemory(0)
		states = deps.MemStates
	}

	deps.Sessions = browse.NewRegistry(lookup, deps.Resolver, states, appCfg.StrictSelection, logger)

	var purger workers.Purger
	if deps.MemStates != nil {
		purger = deps.MemStates
	}
	deps.BrowseSweep = workers.NewBrowseSweeper(deps.Sessions, purger, logger,
		appCfg.BrowseSweepInterval, appCfg.BrowseIdleTTL)

	if appCfg.UploadRateLimit > 0 {
		deps.Writes = ratelimit.New(appCfg.UploadRateLimit, appCfg.UploadRateWindow)
	}

	return deps, nil
}

func loadCatalog(path string) (*catalog.Lookup, error) {
	var (
		d   catalog.Data
		err error
	)
	if path == "" {
		d, err = catalog.Default()
	} else {
		d, err = catalog.Load(path)
	}
	if err != nil {
		return nil, err
	}
	return catalog.New(d), nil
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// openBlobStore returns the configured backend and its closer. Missing S3
// credentials or a failed client build yield an Unconfigured store.
func openBlobStore(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (blobstore.Store, func() error) {
	noop := func() error { return nil }

	if appCfg.StorageType == StorageBadger {
		b, err := blobstore.NewBadger(appCfg.StorageBadgerPath, appCfg.StorageLocalURL)
		if err != nil {
			logger.Warn("badger blob store unavailable; file storage disabled", zap.Error(err))
			return blobstore.Unconfigured{Reason: err.Error()}, noop
		}
		logger.Info("blob store: badger", zap.String("path", appCfg.StorageBadgerPath))
		return b, b.Close
	}

	var missing string
	switch {
	case appCfg.StorageEndpoint == "":
		missing = "storage_endpoint is not set"
	case appCfg.StorageAccessKey == "":
		missing = "storage_access_key is not set"
	}
	if missing != "" {
		logger.Warn("blob store not configured; listings will show catalog entries only",
			zap.String("reason", missing))
		return blobstore.Unconfigured{Reason: missing}, noop
	}

	s3, err := blobstore.NewS3(ctx, blobstore.S3Config{
		Endpoint:  appCfg.StorageEndpoint,
		Region:    appCfg.StorageRegion,
		Bucket:    appCfg.StorageBucket,
		AccessKey: appCfg.StorageAccessKey,
		SecretKey: appCfg.StorageSecretKey,
		PublicURL: appCfg.StoragePublicURL,
	})
	if err != nil {
		logger.Warn("S3 client build failed; file storage disabled", zap.Error(err))
		return blobstore.Unconfigured{Reason: err.Error()}, noop
	}
	logger.Info("blob store: s3",
		zap.String("endpoint", appCfg.StorageEndpoint),
		zap.String("bucket", appCfg.StorageBucket))
	return s3, noop
}
