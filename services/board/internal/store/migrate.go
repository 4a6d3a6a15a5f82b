package store

import (
	"embed"

	"go.uber.org/zap"

	"github.com/example/comment-board/internal/platform/db"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate brings the schema at dsn up to date.
func Migrate(dsn string, log *zap.Logger) error {
	return db.MigrateUp(migrations, "migrations", dsn, log)
}
