// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	blobsfeature "github.com/dalemusser/studyvault/internal/app/features/blobs"
	browsefeature "github.com/dalemusser/studyvault/internal/app/features/browse"
	catalogfeature "github.com/dalemusser/studyvault/internal/app/features/catalog"
	errorsfeature "github.com/dalemusser/studyvault/internal/app/features/errors"
	filesfeature "github.com/dalemusser/studyvault/internal/app/features/files"
	healthfeature "github.com/dalemusser/studyvault/internal/app/features/health"
	"github.com/dalemusser/studyvault/internal/app/system/visitor"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler mounts the feature routers:
//
//	/health   liveness plus database and storage status
//	/catalog  year, semester, branch and subject options
//	/browse   the visitor's cascading selection and its files
//	/files    stateless listings, uploads and deletes per bucket
//	/blobs    object content for the embedded blob backend
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	visitors := visitor.NewManager(appCfg.SessionKey, appCfg.SessionName, secure, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Blobs, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	catalogHandler := catalogfeature.NewHandler(deps.Catalog, errLog, logger)
	r.Mount("/catalog", catalogfeature.Routes(catalogHandler))

	browseHandler := browsefeature.NewHandler(deps.Sessions, errLog, logger)
	r.Mount("/browse", browsefeature.Routes(browseHandler, visitors))

	maxUpload := int64(appCfg.MaxUploadMB) << 20
	filesHandler := filesfeature.NewHandler(deps.Catalog, deps.Resolver, deps.Records, maxUpload, errLog, logger)
	filesHandler.Writes = deps.Writes
	r.Mount("/files", filesfeature.Routes(filesHandler))

	blobsHandler := blobsfeature.NewHandler(deps.Blobs, errLog, logger)
	r.Mount("/blobs", blobsfeature.Routes(blobsHandler))

	return r, nil
}
