// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/store"
	"github.com/MKhiriev/zero-vault/models"
)

// defaultVaultName is used when a vault is created without a name.
const defaultVaultName = "Personal"

type vaultService struct {
	vaults  store.VaultRepository
	records store.RecordRepository
	logger  *logger.Logger
}

// NewVaultService creates a service managing vaults and their encrypted
// records. The server never holds a vault key; it stores ciphertext and
// checks access, nothing more.
func NewVaultService(vaults store.VaultRepository, records store.RecordRepository, log *logger.Logger) VaultService {
	log.Debug().Msg("VaultService initialized")

	return &vaultService{
		vaults:  vaults,
		records: records,
		logger:  log,
	}
}

// requireAccess returns the caller's role in the vault. Missing access and
// missing vaults both come back as ErrAccessDenied so that probing vault
// ids reveals nothing.
func (s *vaultService) requireAccess(ctx context.Context, accountID, vaultID int64) (models.VaultRole, error) {
	role, err := s.vaults.GetRole(ctx, vaultID, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNoVaultAccess) {
			return "", ErrAccessDenied
		}
		return "", fmt.Errorf("error checking vault access: %w", err)
	}

	return role, nil
}

func (s *vaultService) requireOwner(ctx context.Context, accountID, vaultID int64) error {
	role, err := s.requireAccess(ctx, accountID, vaultID)
	if err != nil {
		return err
	}
	if role != models.RoleOwner {
		return ErrAccessDenied
	}

	return nil
}

func (s *vaultService) CreateVault(ctx context.Context, ownerID int64, name, kdfSalt, ownerTokenHex string) (models.Vault, error) {
	log := logger.FromContext(ctx)

	if name == "" {
		name = defaultVaultName
	}
	if _, err := hex.DecodeString(kdfSalt); err != nil {
		return models.Vault{}, fmt.Errorf("%w: salt must be hex encoded", ErrValidation)
	}
	ownerToken, err := decodeCiphertext(ownerTokenHex)
	if err != nil {
		return models.Vault{}, err
	}

	vault, err := s.vaults.CreateVault(ctx, models.Vault{
		OwnerID:    ownerID,
		Name:       name,
		KDFSalt:    kdfSalt,
		OwnerToken: ownerToken,
	})
	if err != nil {
		log.Error().Err(err).Str("func", "*vaultService.CreateVault").Msg("vault creation failed")
		return models.Vault{}, fmt.Errorf("error creating vault: %w", err)
	}

	log.Info().Str("func", "*vaultService.CreateVault").Int64("vault_id", vault.VaultID).Msg("vault created")

	return vault, nil
}

func (s *vaultService) ListVaults(ctx context.Context, accountID int64) ([]models.Vault, error) {
	log := logger.FromContext(ctx)

	vaults, err := s.vaults.ListVaultsForAccount(ctx, accountID)
	if err != nil {
		log.Error().Err(err).Str("func", "*vaultService.ListVaults").Msg("vault listing failed")
		return nil, fmt.Errorf("error listing vaults: %w", err)
	}

	return vaults, nil
}

func (s *vaultService) DeleteVault(ctx context.Context, accountID, vaultID int64) error {
	log := logger.FromContext(ctx)

	if err := s.requireOwner(ctx, accountID, vaultID); err != nil {
		return err
	}

	if err := s.vaults.DeleteVault(ctx, vaultID); err != nil {
		log.Error().Err(err).Str("func", "*vaultService.DeleteVault").Msg("vault deletion failed")
		return fmt.Errorf("error deleting vault: %w", err)
	}

	log.Info().Str("func", "*vaultService.DeleteVault").Int64("vault_id", vaultID).Msg("vault deleted")

	return nil
}

func (s *vaultService) ListRecords(ctx context.Context, accountID, vaultID int64) ([]models.VaultRecord, error) {
	log := logger.FromContext(ctx)

	if _, err := s.requireAccess(ctx, accountID, vaultID); err != nil {
		return nil, err
	}

	records, err := s.records.ListRecords(ctx, vaultID)
	if err != nil {
		log.Error().Err(err).Str("func", "*vaultService.ListRecords").Msg("record listing failed")
		return nil, fmt.Errorf("error listing records: %w", err)
	}

	return records, nil
}

func (s *vaultService) GetRecord(ctx context.Context, accountID, vaultID, recordID int64) (models.VaultRecord, error) {
	log := logger.FromContext(ctx)

	if _, err := s.requireAccess(ctx, accountID, vaultID); err != nil {
		return models.VaultRecord{}, err
	}

	record, err := s.records.FindRecordByID(ctx, vaultID, recordID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return models.VaultRecord{}, err
		}
		log.Error().Err(err).Str("func", "*vaultService.GetRecord").Msg("record lookup failed")
		return models.VaultRecord{}, fmt.Errorf("error looking up record: %w", err)
	}

	return record, nil
}

func (s *vaultService) AddRecord(ctx context.Context, accountID, vaultID int64, encryptedDataHex, iv string) (models.VaultRecord, error) {
	log := logger.FromContext(ctx)

	if _, err := s.requireAccess(ctx, accountID, vaultID); err != nil {
		return models.VaultRecord{}, err
	}

	ciphertext, err := decodeCiphertext(encryptedDataHex)
	if err != nil {
		return models.VaultRecord{}, err
	}
	if err := validateIV(iv); err != nil {
		return models.VaultRecord{}, err
	}

	record, err := s.records.CreateRecord(ctx, models.VaultRecord{
		VaultID:    vaultID,
		Ciphertext: ciphertext,
		IV:         iv,
	})
	if err != nil {
		log.Error().Err(err).Str("func", "*vaultService.AddRecord").Msg("record creation failed")
		return models.VaultRecord{}, fmt.Errorf("error creating record: %w", err)
	}

	return record, nil
}

func (s *vaultService) UpdateRecord(ctx context.Context, accountID, vaultID, recordID int64, encryptedDataHex, iv string) (models.VaultRecord, error) {
	log := logger.FromContext(ctx)

	if _, err := s.requireAccess(ctx, accountID, vaultID); err != nil {
		return models.VaultRecord{}, err
	}

	ciphertext, err := decodeCiphertext(encryptedDataHex)
	if err != nil {
		return models.VaultRecord{}, err
	}
	if err := validateIV(iv); err != nil {
		return models.VaultRecord{}, err
	}

	record, err := s.records.UpdateRecord(ctx, models.VaultRecord{
		RecordID:   recordID,
		VaultID:    vaultID,
		Ciphertext: ciphertext,
		IV:         iv,
	})
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return models.VaultRecord{}, err
		}
		log.Error().Err(err).Str("func", "*vaultService.UpdateRecord").Msg("record update failed")
		return models.VaultRecord{}, fmt.Errorf("error updating record: %w", err)
	}

	return record, nil
}

func (s *vaultService) DeleteRecord(ctx context.Context, accountID, vaultID, recordID int64) error {
	log := logger.FromContext(ctx)

	if _, err := s.requireAccess(ctx, accountID, vaultID); err != nil {
		return err
	}

	if err := s.records.DeleteRecord(ctx, vaultID, recordID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return err
		}
		log.Error().Err(err).Str("func", "*vaultService.DeleteRecord").Msg("record deletion failed")
		return fmt.Errorf("error deleting record: %w", err)
	}

	return nil
}

func (s *vaultService) RotateMasterPassword(ctx context.Context, accountID, vaultID int64, ownerTokenHex string, records []models.RotatedRecord) error {
	log := logger.FromContext(ctx)

	if err := s.requireOwner(ctx, accountID, vaultID); err != nil {
		return err
	}

	ownerToken, err := decodeCiphertext(ownerTokenHex)
	if err != nil {
		return err
	}

	rotated := make([]models.VaultRecord, 0, len(records))
	for _, r := range records {
		ciphertext, err := decodeCiphertext(r.EncryptedData)
		if err != nil {
			return err
		}
		if err := validateIV(r.IV); err != nil {
			return err
		}
		rotated = append(rotated, models.VaultRecord{
			RecordID:   r.ID,
			VaultID:    vaultID,
			Ciphertext: ciphertext,
			IV:         r.IV,
		})
	}

	if err := s.records.RotateVault(ctx, vaultID, ownerToken, rotated); err != nil {
		if errors.Is(err, store.ErrRotationIncomplete) || errors.Is(err, store.ErrVaultNotFound) {
			// Partial payloads must not leave the vault half re-encrypted.
			return fmt.Errorf("%w: rotation payload does not cover the vault", ErrValidation)
		}
		log.Error().Err(err).Str("func", "*vaultService.RotateMasterPassword").Msg("rotation failed")
		return fmt.Errorf("error rotating vault: %w", err)
	}

	log.Info().Str("func", "*vaultService.RotateMasterPassword").Int64("vault_id", vaultID).Int("records", len(records)).Msg("master password rotated")

	return nil
}
