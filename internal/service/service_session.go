package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/store"
	"github.com/MKhiriev/zero-vault/internal/utils"
	"github.com/MKhiriev/zero-vault/models"
)

type sessionService struct {
	sessions store.SessionRepository
	duration time.Duration
	logger   *logger.Logger
}

// NewSessionService creates a service issuing and validating opaque
// bearer tokens. Tokens carry no claims; every lookup goes to the store.
func NewSessionService(sessions store.SessionRepository, duration time.Duration, log *logger.Logger) SessionService {
	log.Debug().Msg("SessionService initialized")

	return &sessionService{
		sessions: sessions,
		duration: duration,
		logger:   log,
	}
}

func (s *sessionService) Issue(ctx context.Context, accountID int64) (models.Session, error) {
	log := logger.FromContext(ctx)

	token, err := utils.NewOpaqueToken()
	if err != nil {
		log.Error().Err(err).Str("func", "*sessionService.Issue").Msg("token generation failed")
		return models.Session{}, fmt.Errorf("error generating session token: %w", err)
	}

	session, err := s.sessions.CreateSession(ctx, models.Session{
		AccountID: accountID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.duration),
	})
	if err != nil {
		log.Error().Err(err).Str("func", "*sessionService.Issue").Msg("session creation failed")
		return models.Session{}, fmt.Errorf("error creating session: %w", err)
	}

	return session, nil
}

func (s *sessionService) Validate(ctx context.Context, token string) (models.Session, error) {
	log := logger.FromContext(ctx)

	session, err := s.sessions.FindSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return models.Session{}, ErrInvalidOrExpiredToken
		}
		log.Error().Err(err).Str("func", "*sessionService.Validate").Msg("session lookup failed")
		return models.Session{}, fmt.Errorf("error looking up session: %w", err)
	}

	if session.Expired(time.Now().UTC()) {
		// Stale rows are removed on touch; the sweeper catches the rest.
		if err := s.sessions.DeleteSessionByToken(ctx, token); err != nil && !errors.Is(err, store.ErrSessionNotFound) {
			log.Warn().Err(err).Str("func", "*sessionService.Validate").Msg("expired session cleanup failed")
		}
		return models.Session{}, ErrInvalidOrExpiredToken
	}

	return session, nil
}

func (s *sessionService) Revoke(ctx context.Context, token string) error {
	log := logger.FromContext(ctx)

	if err := s.sessions.DeleteSessionByToken(ctx, token); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return ErrInvalidOrExpiredToken
		}
		log.Error().Err(err).Str("func", "*sessionService.Revoke").Msg("session deletion failed")
		return fmt.Errorf("error deleting session: %w", err)
	}

	return nil
}

func (s *sessionService) SweepExpired(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	swept, err := s.sessions.DeleteExpiredSessions(ctx, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Str("func", "*sessionService.SweepExpired").Msg("session sweep failed")
		return 0, fmt.Errorf("error sweeping sessions: %w", err)
	}

	return swept, nil
}
