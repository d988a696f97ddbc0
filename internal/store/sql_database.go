package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/migrations"
)

// DB wraps a database/sql connection with the backend-specific pieces the
// repositories need: a statement builder with the right placeholder format
// and an error classificator for the active driver.
type DB struct {
	*sql.DB
	driver             string
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate brings the database schema up to date. PostgreSQL runs the
// embedded goose migrations; SQLite applies the bundled schema directly.
func (db *DB) Migrate() error {
	if db.driver == "sqlite3" {
		_, err := db.Exec(sqliteSchema)
		return err
	}

	return migrations.Migrate(db.DB)
}
