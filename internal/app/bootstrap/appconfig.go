// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Record store backends.
const (
	RecordsMongo    = "mongo"
	RecordsPostgres = "postgres"
	RecordsNone     = "none"
)

// Blob store backends.
const (
	StorageS3     = "s3"
	StorageBadger = "badger"
)

// AppConfig holds studyvault's configuration. WAFFLE's CoreConfig covers
// ports, TLS, logging and CORS; everything below is specific to this app.
type AppConfig struct {
	// Record store for upload metadata: mongo, postgres or none.
	RecordsBackend string
	MongoURI       string
	MongoDatabase  string
	PostgresDSN    string

	// Selection persistence. Empty RedisAddr keeps selections in memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Browse session cookie.
	SessionKey  string // blank generates a per-process key
	SessionName string

	// Blob store.
	StorageType       string // s3 or badger
	StorageEndpoint   string
	StorageAccessKey  string
	StorageSecretKey  string
	StorageRegion     string
	StorageBucket     string
	StoragePublicURL  string
	StorageBadgerPath string // blank opens an in-memory store
	StorageLocalURL   string // where /blobs is reachable for the badger backend

	// Materials.
	MaterialRoot    string // top-level storage folder
	CatalogPath     string // blank uses the embedded catalog
	StrictSelection bool   // panic instead of clamping on invalid states
	MaxUploadMB     int

	// Uploads and deletes allowed per client per window; 0 disables.
	UploadRateLimit  int
	UploadRateWindow time.Duration

	// Browse session housekeeping.
	BrowseSweepInterval time.Duration
	BrowseIdleTTL       time.Duration
}
