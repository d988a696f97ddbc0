// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/zero-vault/models"
)

var errStorage = errors.New("storage error")

// ─────────────────────────────────────────────
// Mock: store.AccountRepository
// ─────────────────────────────────────────────

type mockAccountRepository struct {
	createFn         func(ctx context.Context, account models.Account) (models.Account, error)
	findByUsernameFn func(ctx context.Context, username string) (models.Account, error)
	findByIDFn       func(ctx context.Context, accountID int64) (models.Account, error)
	updateSRPFn      func(ctx context.Context, accountID int64, srpSalt, srpVerifier string) error
	updateTOTPFn     func(ctx context.Context, accountID int64, totpSecret string) error
}

func (m *mockAccountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	if m.createFn != nil {
		return m.createFn(ctx, account)
	}
	return account, nil
}

func (m *mockAccountRepository) FindAccountByUsername(ctx context.Context, username string) (models.Account, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return models.Account{}, nil
}

func (m *mockAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (models.Account, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, accountID)
	}
	return models.Account{}, nil
}

func (m *mockAccountRepository) UpdateSRPCredentials(ctx context.Context, accountID int64, srpSalt, srpVerifier string) error {
	if m.updateSRPFn != nil {
		return m.updateSRPFn(ctx, accountID, srpSalt, srpVerifier)
	}
	return nil
}

func (m *mockAccountRepository) UpdateTOTPSecret(ctx context.Context, accountID int64, totpSecret string) error {
	if m.updateTOTPFn != nil {
		return m.updateTOTPFn(ctx, accountID, totpSecret)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.SessionRepository
// ─────────────────────────────────────────────

type mockSessionRepository struct {
	createFn        func(ctx context.Context, session models.Session) (models.Session, error)
	findByTokenFn   func(ctx context.Context, token string) (models.Session, error)
	deleteByTokenFn func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockSessionRepository) CreateSession(ctx context.Context, session models.Session) (models.Session, error) {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return session, nil
}

func (m *mockSessionRepository) FindSessionByToken(ctx context.Context, token string) (models.Session, error) {
	if m.findByTokenFn != nil {
		return m.findByTokenFn(ctx, token)
	}
	return models.Session{}, nil
}

func (m *mockSessionRepository) DeleteSessionByToken(ctx context.Context, token string) error {
	if m.deleteByTokenFn != nil {
		return m.deleteByTokenFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx, now)
	}
	return 0, nil
}

// ─────────────────────────────────────────────
// Mock: store.VaultRepository
// ─────────────────────────────────────────────

type mockVaultRepository struct {
	createFn         func(ctx context.Context, vault models.Vault) (models.Vault, error)
	findByIDFn       func(ctx context.Context, vaultID int64) (models.Vault, error)
	listForAccountFn func(ctx context.Context, accountID int64) ([]models.Vault, error)
	getRoleFn        func(ctx context.Context, vaultID, accountID int64) (models.VaultRole, error)
	deleteFn         func(ctx context.Context, vaultID int64) error
}

func (m *mockVaultRepository) CreateVault(ctx context.Context, vault models.Vault) (models.Vault, error) {
	if m.createFn != nil {
		return m.createFn(ctx, vault)
	}
	return vault, nil
}

func (m *mockVaultRepository) FindVaultByID(ctx context.Context, vaultID int64) (models.Vault, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, vaultID)
	}
	return models.Vault{}, nil
}

func (m *mockVaultRepository) ListVaultsForAccount(ctx context.Context, accountID int64) ([]models.Vault, error) {
	if m.listForAccountFn != nil {
		return m.listForAccountFn(ctx, accountID)
	}
	return nil, nil
}

func (m *mockVaultRepository) GetRole(ctx context.Context, vaultID, accountID int64) (models.VaultRole, error) {
	if m.getRoleFn != nil {
		return m.getRoleFn(ctx, vaultID, accountID)
	}
	return models.RoleOwner, nil
}

func (m *mockVaultRepository) DeleteVault(ctx context.Context, vaultID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, vaultID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.RecordRepository
// ─────────────────────────────────────────────

type mockRecordRepository struct {
	createFn   func(ctx context.Context, record models.VaultRecord) (models.VaultRecord, error)
	findByIDFn func(ctx context.Context, vaultID, recordID int64) (models.VaultRecord, error)
	listFn     func(ctx context.Context, vaultID int64) ([]models.VaultRecord, error)
	updateFn   func(ctx context.Context, record models.VaultRecord) (models.VaultRecord, error)
	deleteFn   func(ctx context.Context, vaultID, recordID int64) error
	rotateFn   func(ctx context.Context, vaultID int64, ownerToken []byte, records []models.VaultRecord) error
}

func (m *mockRecordRepository) CreateRecord(ctx context.Context, record models.VaultRecord) (models.VaultRecord, error) {
	if m.createFn != nil {
		return m.createFn(ctx, record)
	}
	return record, nil
}

func (m *mockRecordRepository) FindRecordByID(ctx context.Context, vaultID, recordID int64) (models.VaultRecord, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, vaultID, recordID)
	}
	return models.VaultRecord{}, nil
}

func (m *mockRecordRepository) ListRecords(ctx context.Context, vaultID int64) ([]models.VaultRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx, vaultID)
	}
	return nil, nil
}

func (m *mockRecordRepository) UpdateRecord(ctx context.Context, record models.VaultRecord) (models.VaultRecord, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, record)
	}
	return record, nil
}

func (m *mockRecordRepository) DeleteRecord(ctx context.Context, vaultID, recordID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, vaultID, recordID)
	}
	return nil
}

func (m *mockRecordRepository) RotateVault(ctx context.Context, vaultID int64, ownerToken []byte, records []models.VaultRecord) error {
	if m.rotateFn != nil {
		return m.rotateFn(ctx, vaultID, ownerToken, records)
	}
	return nil
}
