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

// recordRepository is the SQL-backed implementation of [RecordRepository].
// Ciphertexts are stored as raw bytes, IVs as hex strings, exactly as the
// client transmitted them.
type recordRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewRecordRepository constructs a [RecordRepository] backed by the provided
// database connection and logger.
func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	logger.Debug().Msg("creating record repository")
	return &recordRepository{
		db:     db,
		logger: logger,
	}
}

// CreateRecord persists a new encrypted record and returns it with the
// server-assigned RecordID.
func (r *recordRepository) CreateRecord(ctx context.Context, record models.VaultRecord) (models.VaultRecord, error) {
	log := logger.FromContext(ctx)

	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	query, args, err := r.db.builder.
		Insert(record.TableName()).
		Columns("vault_id", "ciphertext", "iv", "created_at", "updated_at").
		Values(record.VaultID, record.Ciphertext, record.IV, record.CreatedAt, record.UpdatedAt).
		Suffix("RETURNING record_id").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.CreateRecord").Msg("failed to build insert query")
		return models.VaultRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&record.RecordID); err != nil {
		log.Err(err).Str("func", "*recordRepository.CreateRecord").Int64("vault_id", record.VaultID).Msg("error inserting record")
		return models.VaultRecord{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return record, nil
}

// FindRecordByID retrieves one record, scoped to its vault so a record id
// from another vault can never be addressed.
func (r *recordRepository) FindRecordByID(ctx context.Context, vaultID int64, recordID int64) (models.VaultRecord, error) {
	log := logger.FromContext(ctx)

	var record models.VaultRecord

	query, args, err := r.db.builder.
		Select("record_id", "vault_id", "ciphertext", "iv", "created_at", "updated_at").
		From(record.TableName()).
		Where(map[string]any{"vault_id": vaultID, "record_id": recordID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.FindRecordByID").Msg("failed to build select query")
		return models.VaultRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&record.RecordID, &record.VaultID, &record.Ciphertext, &record.IV, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.VaultRecord{}, ErrRecordNotFound
		}

		log.Err(err).Str("func", "*recordRepository.FindRecordByID").Int64("record_id", recordID).Msg("error scanning record row")
		return models.VaultRecord{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return record, nil
}

// ListRecords returns every record of the vault ordered by record id.
func (r *recordRepository) ListRecords(ctx context.Context, vaultID int64) ([]models.VaultRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select("record_id", "vault_id", "ciphertext", "iv", "created_at", "updated_at").
		From(models.VaultRecord{}.TableName()).
		Where(map[string]any{"vault_id": vaultID}).
		OrderBy("record_id").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.ListRecords").Msg("failed to build select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.ListRecords").Int64("vault_id", vaultID).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.VaultRecord, 0, 50)

	for rows.Next() {
		var record models.VaultRecord
		scanErr := rows.Scan(&record.RecordID, &record.VaultID, &record.Ciphertext, &record.IV, &record.CreatedAt, &record.UpdatedAt)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*recordRepository.ListRecords").Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*recordRepository.ListRecords").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

// UpdateRecord replaces a record's ciphertext and IV and bumps updated_at.
func (r *recordRepository) UpdateRecord(ctx context.Context, record models.VaultRecord) (models.VaultRecord, error) {
	log := logger.FromContext(ctx)

	record.UpdatedAt = time.Now().UTC()

	query, args, err := r.db.builder.
		Update(record.TableName()).
		Set("ciphertext", record.Ciphertext).
		Set("iv", record.IV).
		Set("updated_at", record.UpdatedAt).
		Where(map[string]any{"vault_id": record.VaultID, "record_id": record.RecordID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.UpdateRecord").Msg("failed to build update query")
		return models.VaultRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.UpdateRecord").Int64("record_id", record.RecordID).Msg("error executing update")
		return models.VaultRecord{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.VaultRecord{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return models.VaultRecord{}, ErrRecordNotFound
	}

	return record, nil
}

// DeleteRecord removes one record, scoped to its vault.
func (r *recordRepository) DeleteRecord(ctx context.Context, vaultID int64, recordID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Delete(models.VaultRecord{}.TableName()).
		Where(map[string]any{"vault_id": vaultID, "record_id": recordID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.DeleteRecord").Msg("failed to build delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.DeleteRecord").Int64("record_id", recordID).Msg("error executing delete")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// RotateVault replaces the vault's owner token and every record's
// ciphertext and IV in one transaction.
//
// The rotation payload must cover the whole vault: each record update must
// hit exactly one row, and the count of updated records must equal the
// vault's record count. Any mismatch returns [ErrRotationIncomplete] and
// rolls everything back, so the vault never ends up partially re-encrypted.
func (r *recordRepository) RotateVault(ctx context.Context, vaultID int64, ownerToken []byte, records []models.VaultRecord) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.RotateVault").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	updateVault, args, err := r.db.builder.
		Update(models.Vault{}.TableName()).
		Set("owner_token", ownerToken).
		Where(map[string]any{"vault_id": vaultID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := tx.ExecContext(ctx, updateVault, args...)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.RotateVault").Int64("vault_id", vaultID).Msg("error updating owner token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected, affErr := result.RowsAffected(); affErr != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, affErr)
	} else if affected == 0 {
		return ErrVaultNotFound
	}

	now := time.Now().UTC()
	for _, record := range records {
		updateRecord, recordArgs, buildErr := r.db.builder.
			Update(record.TableName()).
			Set("ciphertext", record.Ciphertext).
			Set("iv", record.IV).
			Set("updated_at", now).
			Where(map[string]any{"vault_id": vaultID, "record_id": record.RecordID}).
			ToSql()
		if buildErr != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
		}

		result, err = tx.ExecContext(ctx, updateRecord, recordArgs...)
		if err != nil {
			log.Err(err).Str("func", "*recordRepository.RotateVault").Int64("record_id", record.RecordID).Msg("error updating rotated record")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		affected, affErr := result.RowsAffected()
		if affErr != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, affErr)
		}
		if affected != 1 {
			log.Warn().Str("func", "*recordRepository.RotateVault").Int64("record_id", record.RecordID).Msg("rotated record does not exist in vault")
			return ErrRotationIncomplete
		}
	}

	// The payload must cover every record the vault currently has.
	countQuery, args, err := r.db.builder.
		Select("COUNT(*)").
		From(models.VaultRecord{}.TableName()).
		Where(map[string]any{"vault_id": vaultID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int64
	if err = tx.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Err(err).Str("func", "*recordRepository.RotateVault").Msg("error counting vault records")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if total != int64(len(records)) {
		log.Warn().
			Str("func", "*recordRepository.RotateVault").
			Int64("vault_id", vaultID).
			Int64("records_in_vault", total).
			Int("records_rotated", len(records)).
			Msg("rotation payload does not cover the vault")
		return ErrRotationIncomplete
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*recordRepository.RotateVault").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}
