// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/zero-vault/internal/crypto"
	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/store"
	"github.com/MKhiriev/zero-vault/models"
)

type authService struct {
	accounts   store.AccountRepository
	handshakes store.PendingStore[*crypto.SRPServer]
	logger     *logger.Logger
}

// NewAuthService creates a service handling registration and the SRP
// login exchange. Handshake state lives in the given pending store and is
// keyed by username, so a new challenge replaces any unfinished one.
func NewAuthService(accounts store.AccountRepository, handshakes store.PendingStore[*crypto.SRPServer], log *logger.Logger) AuthService {
	log.Debug().Msg("AuthService initialized")

	return &authService{
		accounts:   accounts,
		handshakes: handshakes,
		logger:     log,
	}
}

func (s *authService) Register(ctx context.Context, username, srpSalt, srpVerifier string) (models.Account, error) {
	log := logger.FromContext(ctx)

	if err := validateUsername(username); err != nil {
		return models.Account{}, err
	}
	if err := validateSRPCredentials(srpSalt, srpVerifier); err != nil {
		return models.Account{}, err
	}

	account, err := s.accounts.CreateAccount(ctx, models.Account{
		Username:    username,
		SRPSalt:     srpSalt,
		SRPVerifier: srpVerifier,
	})
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			return models.Account{}, err
		}
		log.Error().Err(err).Str("func", "*authService.Register").Msg("account creation failed")
		return models.Account{}, fmt.Errorf("error creating account: %w", err)
	}

	log.Info().Str("func", "*authService.Register").Int64("account_id", account.AccountID).Msg("account registered")

	return account, nil
}

func (s *authService) BeginChallenge(ctx context.Context, username string) (string, string, error) {
	log := logger.FromContext(ctx)

	account, err := s.accounts.FindAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			// Unknown usernames fail exactly like a wrong proof does, and
			// pay the same ephemeral cost so the miss cannot be timed.
			crypto.BurnChallenge(username)
			return "", "", ErrInvalidCredentials
		}
		log.Error().Err(err).Str("func", "*authService.BeginChallenge").Msg("account lookup failed")
		return "", "", fmt.Errorf("error looking up account: %w", err)
	}

	srv, err := crypto.NewSRPServer(account.Username, account.SRPSalt, account.SRPVerifier)
	if err != nil {
		log.Error().Err(err).Str("func", "*authService.BeginChallenge").Msg("handshake setup failed")
		return "", "", fmt.Errorf("error starting handshake: %w", err)
	}

	s.handshakes.Put(username, srv)

	return srv.Salt(), srv.PublicKey(), nil
}

func (s *authService) VerifyProof(ctx context.Context, username, clientPublicKey, clientProof string) (string, models.Account, error) {
	log := logger.FromContext(ctx)

	srv, ok := s.handshakes.Get(username)
	if !ok {
		// No live handshake: the challenge expired, was never requested,
		// or this proof was already spent. All look the same to the caller.
		return "", models.Account{}, ErrInvalidCredentials
	}
	// One shot per challenge, whether the proof checks out or not.
	s.handshakes.Delete(username)

	serverProof, err := srv.VerifyProof(clientPublicKey, clientProof)
	if err != nil {
		if errors.Is(err, crypto.ErrInvalidProof) {
			return "", models.Account{}, ErrInvalidCredentials
		}
		log.Error().Err(err).Str("func", "*authService.VerifyProof").Msg("proof verification failed")
		return "", models.Account{}, fmt.Errorf("error verifying proof: %w", err)
	}

	account, err := s.accounts.FindAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return "", models.Account{}, ErrInvalidCredentials
		}
		log.Error().Err(err).Str("func", "*authService.VerifyProof").Msg("account lookup failed")
		return "", models.Account{}, fmt.Errorf("error looking up account: %w", err)
	}

	log.Info().Str("func", "*authService.VerifyProof").Int64("account_id", account.AccountID).Msg("proof accepted")

	return serverProof, account, nil
}

func (s *authService) ChangePassword(ctx context.Context, accountID int64, srpSalt, srpVerifier string) error {
	log := logger.FromContext(ctx)

	if err := validateSRPCredentials(srpSalt, srpVerifier); err != nil {
		return err
	}

	if err := s.accounts.UpdateSRPCredentials(ctx, accountID, srpSalt, srpVerifier); err != nil {
		log.Error().Err(err).Str("func", "*authService.ChangePassword").Msg("credential update failed")
		return fmt.Errorf("error updating credentials: %w", err)
	}

	log.Info().Str("func", "*authService.ChangePassword").Int64("account_id", accountID).Msg("srp credentials replaced")

	return nil
}

func (s *authService) SweepHandshakes() int {
	return s.handshakes.Sweep()
}
