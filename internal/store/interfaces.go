package store

import (
	"context"
	"time"

	"github.com/MKhiriev/zero-vault/models"
)

// AccountRepository persists account records: the SRP credential pair and
// the optional TOTP secret. Password material itself is never stored.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	FindAccountByUsername(ctx context.Context, username string) (models.Account, error)
	FindAccountByID(ctx context.Context, accountID int64) (models.Account, error)
	UpdateSRPCredentials(ctx context.Context, accountID int64, srpSalt string, srpVerifier string) error
	UpdateTOTPSecret(ctx context.Context, accountID int64, totpSecret string) error
}

// SessionRepository persists opaque bearer sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.Session) (models.Session, error)
	FindSessionByToken(ctx context.Context, token string) (models.Session, error)
	DeleteSessionByToken(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// VaultRepository persists vaults and the vault_access ACL.
type VaultRepository interface {
	CreateVault(ctx context.Context, vault models.Vault) (models.Vault, error)
	FindVaultByID(ctx context.Context, vaultID int64) (models.Vault, error)
	ListVaultsForAccount(ctx context.Context, accountID int64) ([]models.Vault, error)
	GetRole(ctx context.Context, vaultID int64, accountID int64) (models.VaultRole, error)
	DeleteVault(ctx context.Context, vaultID int64) error
}

// RecordRepository persists encrypted vault records.
//
// RotateVault applies a master-password rotation in a single transaction:
// the vault's owner token and every record's ciphertext and IV are replaced
// together, or none are.
type RecordRepository interface {
	CreateRecord(ctx context.Context, record models.VaultRecord) (models.VaultRecord, error)
	FindRecordByID(ctx context.Context, vaultID int64, recordID int64) (models.VaultRecord, error)
	ListRecords(ctx context.Context, vaultID int64) ([]models.VaultRecord, error)
	UpdateRecord(ctx context.Context, record models.VaultRecord) (models.VaultRecord, error)
	DeleteRecord(ctx context.Context, vaultID int64, recordID int64) error
	RotateVault(ctx context.Context, vaultID int64, ownerToken []byte, records []models.VaultRecord) error
}

// ErrorClassification is the result type returned by
// [ErrorClassificator.Classify]. It indicates whether a failed database
// operation should be retried or abandoned.
type ErrorClassification int

const (
	// NonRetryable indicates that the failed operation should not be retried.
	// This is the default classification for unrecognised errors, constraint
	// violations, syntax errors, and data exceptions.
	NonRetryable ErrorClassification = iota

	// Retryable indicates that the failed operation may succeed if attempted
	// again (e.g. after a transient connection loss or a deadlock rollback).
	Retryable
)

// ErrorClassificator inspects driver-level errors so repositories can map
// them to sentinel errors without knowing which backend they run on.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
	IsUniqueViolation(err error) bool
}
