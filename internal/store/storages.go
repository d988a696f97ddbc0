package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/zero-vault/internal/config"
	"github.com/MKhiriev/zero-vault/internal/logger"
)

// Storages aggregates every repository backed by the shared database
// connection.
type Storages struct {
	AccountRepository AccountRepository
	SessionRepository SessionRepository
	VaultRepository   VaultRepository
	RecordRepository  RecordRepository
}

// NewStorages opens the database selected by cfg.Driver, runs migrations,
// and wires all repositories over the shared connection.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	var db *DB
	var err error

	switch cfg.Driver {
	case "pgx":
		db, err = NewConnectPostgres(ctx, cfg, log)
	case "sqlite3":
		db, err = NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error running migrations")
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	return &Storages{
		AccountRepository: NewAccountRepository(db, log),
		SessionRepository: NewSessionRepository(db, log),
		VaultRepository:   NewVaultRepository(db, log),
		RecordRepository:  NewRecordRepository(db, log),
	}, nil
}
