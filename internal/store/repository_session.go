package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/models"
)

// sessionRepository is the SQL-backed implementation of [SessionRepository].
// Tokens are opaque random strings; the table row is the sole source of
// truth for whether a token is live.
type sessionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSessionRepository constructs a [SessionRepository] backed by the
// provided database connection and logger.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

// CreateSession persists a new bearer session and returns it with the
// server-assigned SessionID.
func (r *sessionRepository) CreateSession(ctx context.Context, session models.Session) (models.Session, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Insert(session.TableName()).
		Columns("account_id", "token", "created_at", "expires_at").
		Values(session.AccountID, session.Token, session.CreatedAt, session.ExpiresAt).
		Suffix("RETURNING session_id").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.CreateSession").Msg("failed to build insert query")
		return models.Session{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&session.SessionID); err != nil {
		log.Err(err).Str("func", "*sessionRepository.CreateSession").Int64("account_id", session.AccountID).Msg("error inserting session")
		return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return session, nil
}

// FindSessionByToken retrieves the session row matching the given token.
//
// Expiry is not checked here; callers decide what a stale row means.
func (r *sessionRepository) FindSessionByToken(ctx context.Context, token string) (models.Session, error) {
	log := logger.FromContext(ctx)

	var session models.Session

	query, args, err := r.db.builder.
		Select("session_id", "account_id", "token", "created_at", "expires_at").
		From(session.TableName()).
		Where(map[string]any{"token": token}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.FindSessionByToken").Msg("failed to build select query")
		return models.Session{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&session.SessionID, &session.AccountID, &session.Token, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}

		log.Err(err).Str("func", "*sessionRepository.FindSessionByToken").Msg("error scanning session row")
		return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return session, nil
}

// DeleteSessionByToken revokes a session. Deleting an unknown token returns
// [ErrSessionNotFound].
func (r *sessionRepository) DeleteSessionByToken(ctx context.Context, token string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Delete(models.Session{}.TableName()).
		Where(map[string]any{"token": token}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteSessionByToken").Msg("failed to build delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteSessionByToken").Msg("error executing delete")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// DeleteExpiredSessions removes every session whose expiry is at or before
// now and returns the number of rows removed. Used by the sweep worker.
func (r *sessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Delete(models.Session{}.TableName()).
		Where(sq.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteExpiredSessions").Msg("failed to build delete query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteExpiredSessions").Msg("error executing delete")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}
