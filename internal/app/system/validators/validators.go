// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	uploadstore "github.com/dalemusser/studyvault/internal/app/store/uploads"
	"github.com/dalemusser/studyvault/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the record collections (if missing) and attaches
// JSON-Schema validators. Servers without collMod/validator support
// (some DocumentDB versions) are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll, logger); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				logger.Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
			return
		}
		logger.Info("validator ensured", zap.String("collection", coll))
	}

	ensure(uploadstore.Collection, UploadsSchema())

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, logger *zap.Logger) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err == nil && len(names) > 0 {
		return nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return nil
		}
		logger.Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
	logger.Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	return db.RunCommand(ctx, cmd).Decode(&out)
}

/* ------------------------- error helpers ------------------------- */

func commandErrMatches(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErrMatches(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandErrMatches(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandErrMatches(err, 115, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

// UploadsSchema requires the fields every record backend writes and
// restricts material_type to the known set.
func UploadsSchema() bson.M {
	types := make(bson.A, 0, len(models.MaterialTypes))
	for _, mt := range models.MaterialTypes {
		types = append(types, string(mt))
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"subject_code", "material_type", "path", "file_name", "title", "title_ci", "is_public", "created_at"},
			"properties": bson.M{
				"subject_code":  bson.M{"bsonType": "string", "minLength": 1, "pattern": `^\S+$`},
				"material_type": bson.M{"enum": types},
				"path":          bson.M{"bsonType": "string", "minLength": 1},
				"file_name":     bson.M{"bsonType": "string", "minLength": 1},
				"title":         bson.M{"bsonType": "string"},
				"title_ci":      bson.M{"bsonType": "string"},
				"size":          bson.M{"bsonType": bson.A{"long", "int"}, "minimum": 0},
				"is_public":     bson.M{"bsonType": "bool"},
				"created_at":    bson.M{"bsonType": "date"},
			},
		},
	}
}
