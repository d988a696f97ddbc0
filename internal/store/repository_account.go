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

// accountRepository is the SQL-backed implementation of [AccountRepository].
// It handles account creation and lookup against the "accounts" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type accountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAccountRepository constructs an [AccountRepository] backed by the
// provided database connection and logger.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAccount persists a new account record and returns the fully
// populated [models.Account] with the server-assigned AccountID.
//
// Error handling:
//   - unique violation on username → [ErrUsernameTaken].
//   - any other driver-level error → wrapped as "unexpected DB error".
func (r *accountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	account.CreatedAt = time.Now().UTC()

	query, args, err := r.db.builder.
		Insert(account.TableName()).
		Columns("username", "srp_salt", "srp_verifier", "totp_secret", "created_at").
		Values(account.Username, account.SRPSalt, account.SRPVerifier, account.TOTPSecret, account.CreatedAt).
		Suffix("RETURNING account_id").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("failed to build insert query")
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&account.AccountID); err != nil {
		if r.db.errorClassificator.IsUniqueViolation(err) {
			return models.Account{}, ErrUsernameTaken
		}

		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error inserting account")
		return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return account, nil
}

// FindAccountByUsername retrieves the account whose username matches exactly.
//
// Error handling:
//   - sql.ErrNoRows → [ErrAccountNotFound].
//   - any other driver-level error → wrapped as "unexpected DB error".
func (r *accountRepository) FindAccountByUsername(ctx context.Context, username string) (models.Account, error) {
	return r.findAccount(ctx, "username", username)
}

// FindAccountByID retrieves the account with the given identifier.
func (r *accountRepository) FindAccountByID(ctx context.Context, accountID int64) (models.Account, error) {
	return r.findAccount(ctx, "account_id", accountID)
}

func (r *accountRepository) findAccount(ctx context.Context, column string, value any) (models.Account, error) {
	log := logger.FromContext(ctx)

	var account models.Account

	query, args, err := r.db.builder.
		Select("account_id", "username", "srp_salt", "srp_verifier", "totp_secret", "created_at").
		From(account.TableName()).
		Where(map[string]any{column: value}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.findAccount").Msg("failed to build select query")
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&account.AccountID, &account.Username, &account.SRPSalt, &account.SRPVerifier, &account.TOTPSecret, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}

		log.Err(err).Str("func", "*accountRepository.findAccount").Str("column", column).Msg("error scanning account row")
		return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return account, nil
}

// UpdateSRPCredentials replaces the stored salt and verifier pair, used by
// the password-change flow. Both values always change together.
func (r *accountRepository) UpdateSRPCredentials(ctx context.Context, accountID int64, srpSalt string, srpVerifier string) error {
	return r.updateAccount(ctx, accountID, map[string]any{
		"srp_salt":     srpSalt,
		"srp_verifier": srpVerifier,
	})
}

// UpdateTOTPSecret sets the TOTP secret when the second factor is enabled,
// or clears it (empty string) when disabled.
func (r *accountRepository) UpdateTOTPSecret(ctx context.Context, accountID int64, totpSecret string) error {
	return r.updateAccount(ctx, accountID, map[string]any{
		"totp_secret": totpSecret,
	})
}

func (r *accountRepository) updateAccount(ctx context.Context, accountID int64, values map[string]any) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Update(models.Account{}.TableName()).
		SetMap(values).
		Where(map[string]any{"account_id": accountID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.updateAccount").Msg("failed to build update query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.updateAccount").Int64("account_id", accountID).Msg("error executing update")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrAccountNotFound
	}

	return nil
}
