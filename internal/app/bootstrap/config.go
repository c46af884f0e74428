// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys are read from config files (mongo_uri), STUDYVAULT_*
// environment variables (STUDYVAULT_MONGO_URI) and flags (--mongo_uri).
var appConfigKeys = []config.AppKey{
	{Name: "records_backend", Default: RecordsMongo, Desc: "Upload record store: 'mongo', 'postgres' or 'none'"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "studyvault", Desc: "MongoDB database name"},
	{Name: "postgres_dsn", Default: "", Desc: "PostgreSQL DSN (records_backend=postgres)"},

	{Name: "redis_addr", Default: "", Desc: "Redis address for selection persistence (blank keeps selections in memory)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},

	{Name: "session_key", Default: "", Desc: "Browse cookie signing key (blank generates one per process)"},
	{Name: "session_name", Default: "studyvault-browse", Desc: "Browse cookie name"},

	// Blob storage
	{Name: "storage_type", Default: StorageS3, Desc: "Blob backend: 's3' or 'badger'"},
	{Name: "storage_endpoint", Default: "", Desc: "S3-compatible endpoint URL"},
	{Name: "storage_access_key", Default: "", Desc: "Storage access key"},
	{Name: "storage_secret_key", Default: "", Desc: "Storage secret key"},
	{Name: "storage_region", Default: "us-east-1", Desc: "Storage region"},
	{Name: "storage_bucket", Default: "study-materials", Desc: "Storage bucket"},
	{Name: "storage_public_url", Default: "", Desc: "Public base URL for objects (blank derives it from endpoint and bucket)"},
	{Name: "storage_badger_path", Default: "", Desc: "Badger directory (blank keeps blobs in memory)"},
	{Name: "storage_local_url", Default: "/blobs", Desc: "URL prefix the badger backend is served under"},

	{Name: "material_root", Default: "materials", Desc: "Top-level storage folder for materials"},
	{Name: "catalog_path", Default: "", Desc: "Catalog YAML file (blank uses the built-in catalog)"},
	{Name: "strict_selection", Default: false, Desc: "Panic on invalid selection states instead of clamping"},
	{Name: "max_upload_mb", Default: 50, Desc: "Maximum upload size in megabytes"},
	{Name: "upload_rate_limit", Default: 30, Desc: "Uploads and deletes per client per window (0 disables)"},
	{Name: "upload_rate_window", Default: "1m", Desc: "Window for upload_rate_limit"},

	{Name: "browse_sweep_interval", Default: "1m", Desc: "How often idle browse sessions are evicted"},
	{Name: "browse_idle_ttl", Default: "30m", Desc: "Idle time before a browse session is evicted"},
}

// LoadConfig loads WAFFLE core config and studyvault's AppConfig.
// Precedence: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STUDYVAULT", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		RecordsBackend: appValues.String("records_backend"),
		MongoURI:       appValues.String("mongo_uri"),
		MongoDatabase:  appValues.String("mongo_database"),
		PostgresDSN:    appValues.String("postgres_dsn"),

		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),

		SessionKey:  appValues.String("session_key"),
		SessionName: appValues.String("session_name"),

		StorageType:       appValues.String("storage_type"),
		StorageEndpoint:   appValues.String("storage_endpoint"),
		StorageAccessKey:  appValues.String("storage_access_key"),
		StorageSecretKey:  appValues.String("storage_secret_key"),
		StorageRegion:     appValues.String("storage_region"),
		StorageBucket:     appValues.String("storage_bucket"),
		StoragePublicURL:  appValues.String("storage_public_url"),
		StorageBadgerPath: appValues.String("storage_badger_path"),
		StorageLocalURL:   appValues.String("storage_local_url"),

		MaterialRoot:    appValues.String("material_root"),
		CatalogPath:     appValues.String("catalog_path"),
		StrictSelection: appValues.Bool("strict_selection"),
		MaxUploadMB:     appValues.Int("max_upload_mb"),

		UploadRateLimit:  appValues.Int("upload_rate_limit"),
		UploadRateWindow: appValues.Duration("upload_rate_window", time.Minute),

		BrowseSweepInterval: appValues.Duration("browse_sweep_interval", time.Minute),
		BrowseIdleTTL:       appValues.Duration("browse_idle_ttl", 30*time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects settings that cannot work at all. Missing storage
// credentials are not an error: the service starts without file storage
// and serves catalog entries only.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	return validateAppConfig(appCfg, logger)
}

func validateAppConfig(appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.RecordsBackend {
	case RecordsMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	case RecordsPostgres:
		if appCfg.PostgresDSN == "" {
			return fmt.Errorf("records_backend=postgres requires postgres_dsn")
		}
	case RecordsNone:
	default:
		return fmt.Errorf("unknown records_backend %q (want mongo, postgres or none)", appCfg.RecordsBackend)
	}

	switch appCfg.StorageType {
	case StorageS3, StorageBadger:
	default:
		return fmt.Errorf("unknown storage_type %q (want s3 or badger)", appCfg.StorageType)
	}

	if appCfg.MaxUploadMB < 0 {
		return fmt.Errorf("max_upload_mb must not be negative")
	}
	if appCfg.UploadRateLimit > 0 && appCfg.UploadRateWindow <= 0 {
		return fmt.Errorf("upload_rate_window must be positive when upload_rate_limit is set")
	}
	if appCfg.BrowseSweepInterval <= 0 || appCfg.BrowseIdleTTL <= 0 {
		return fmt.Errorf("browse_sweep_interval and browse_idle_ttl must be positive")
	}
	return nil
}
