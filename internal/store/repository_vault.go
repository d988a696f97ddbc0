package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/models"
)

// vaultRepository is the SQL-backed implementation of [VaultRepository].
// It maintains the vaults table together with the vault_access ACL: a vault
// row never exists without an OWNER access row.
type vaultRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewVaultRepository constructs a [VaultRepository] backed by the provided
// database connection and logger.
func NewVaultRepository(db *DB, logger *logger.Logger) VaultRepository {
	logger.Debug().Msg("creating vault repository")
	return &vaultRepository{
		db:     db,
		logger: logger,
	}
}

// CreateVault persists a new vault and its OWNER access row in a single
// transaction, returning the vault with the server-assigned VaultID.
func (r *vaultRepository) CreateVault(ctx context.Context, vault models.Vault) (models.Vault, error) {
	log := logger.FromContext(ctx)

	vault.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*vaultRepository.CreateVault").Msg("failed to begin transaction")
		return models.Vault{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	insertVault, args, err := r.db.builder.
		Insert(vault.TableName()).
		Columns("owner_id", "name", "kdf_salt", "owner_token", "created_at").
		Values(vault.OwnerID, vault.Name, vault.KDFSalt, vault.OwnerToken, vault.CreatedAt).
		Suffix("RETURNING vault_id").
		ToSql()
	if err != nil {
		return models.Vault{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = tx.QueryRowContext(ctx, insertVault, args...).Scan(&vault.VaultID); err != nil {
		log.Err(err).Str("func", "*vaultRepository.CreateVault").Int64("owner_id", vault.OwnerID).Msg("error inserting vault")
		return models.Vault{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	insertAccess, args, err := r.db.builder.
		Insert("vault_access").
		Columns("vault_id", "account_id", "role").
		Values(vault.VaultID, vault.OwnerID, models.RoleOwner).
		ToSql()
	if err != nil {
		return models.Vault{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = tx.ExecContext(ctx, insertAccess, args...); err != nil {
		log.Err(err).Str("func", "*vaultRepository.CreateVault").Int64("vault_id", vault.VaultID).Msg("error inserting owner access row")
		return models.Vault{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*vaultRepository.CreateVault").Msg("failed to commit transaction")
		return models.Vault{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return vault, nil
}

// FindVaultByID retrieves a single vault row.
func (r *vaultRepository) FindVaultByID(ctx context.Context, vaultID int64) (models.Vault, error) {
	log := logger.FromContext(ctx)

	var vault models.Vault

	query, args, err := r.db.builder.
		Select("vault_id", "owner_id", "name", "kdf_salt", "owner_token", "created_at").
		From(vault.TableName()).
		Where(map[string]any{"vault_id": vaultID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*vaultRepository.FindVaultByID").Msg("failed to build select query")
		return models.Vault{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&vault.VaultID, &vault.OwnerID, &vault.Name, &vault.KDFSalt, &vault.OwnerToken, &vault.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Vault{}, ErrVaultNotFound
		}

		log.Err(err).Str("func", "*vaultRepository.FindVaultByID").Int64("vault_id", vaultID).Msg("error scanning vault row")
		return models.Vault{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return vault, nil
}

// ListVaultsForAccount returns every vault the account can see, owned or
// shared, ordered by vault id.
func (r *vaultRepository) ListVaultsForAccount(ctx context.Context, accountID int64) ([]models.Vault, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select("v.vault_id", "v.owner_id", "v.name", "v.kdf_salt", "v.owner_token", "v.created_at").
		From("vaults v").
		Join("vault_access va ON va.vault_id = v.vault_id").
		Where(map[string]any{"va.account_id": accountID}).
		OrderBy("v.vault_id").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*vaultRepository.ListVaultsForAccount").Msg("failed to build select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*vaultRepository.ListVaultsForAccount").Int64("account_id", accountID).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	vaults := make([]models.Vault, 0, 8)

	for rows.Next() {
		var vault models.Vault
		if scanErr := rows.Scan(&vault.VaultID, &vault.OwnerID, &vault.Name, &vault.KDFSalt, &vault.OwnerToken, &vault.CreatedAt); scanErr != nil {
			log.Err(scanErr).Str("func", "*vaultRepository.ListVaultsForAccount").Msg("failed to scan vault row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		vaults = append(vaults, vault)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*vaultRepository.ListVaultsForAccount").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return vaults, nil
}

// GetRole returns the account's role on the vault, or [ErrNoVaultAccess]
// when no ACL row exists.
func (r *vaultRepository) GetRole(ctx context.Context, vaultID int64, accountID int64) (models.VaultRole, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select("role").
		From("vault_access").
		Where(map[string]any{"vault_id": vaultID, "account_id": accountID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*vaultRepository.GetRole").Msg("failed to build select query")
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var role models.VaultRole
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoVaultAccess
		}

		log.Err(err).Str("func", "*vaultRepository.GetRole").Int64("vault_id", vaultID).Msg("error scanning role row")
		return "", fmt.Errorf("unexpected DB error: %w", err)
	}

	return role, nil
}

// DeleteVault removes the vault together with its records and ACL rows.
// The dependent tables are cleared explicitly so the behavior does not rely
// on cascade support in the active backend.
func (r *vaultRepository) DeleteVault(ctx context.Context, vaultID int64) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*vaultRepository.DeleteVault").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"vault_records", "vault_access"} {
		query, args, buildErr := r.db.builder.
			Delete(table).
			Where(map[string]any{"vault_id": vaultID}).
			ToSql()
		if buildErr != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
		}

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).Str("func", "*vaultRepository.DeleteVault").Str("table", table).Msg("error clearing dependent rows")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	query, args, err := r.db.builder.
		Delete(models.Vault{}.TableName()).
		Where(map[string]any{"vault_id": vaultID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*vaultRepository.DeleteVault").Int64("vault_id", vaultID).Msg("error deleting vault")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrVaultNotFound
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*vaultRepository.DeleteVault").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}
