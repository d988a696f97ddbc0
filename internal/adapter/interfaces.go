// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter implements the client half of the vault protocol over
// HTTP/REST.
//
// The [VaultClient] interface hides transport details from callers: it runs
// the SRP exchange, manages the bearer token, performs all vault-key
// derivation and record encryption locally, and maps HTTP status codes to
// the sentinel errors in errors.go so callers can use [errors.Is].
// Plaintext material (passwords, vault keys, decrypted records) never
// leaves the process.
package adapter

import (
	"context"

	"github.com/MKhiriev/zero-vault/models"
)

// LoginResult reports the outcome of the SRP exchange. When Requires2FA is
// set the session is not established yet; the caller must follow up with
// VerifyTwoFactor using TempToken.
type LoginResult struct {
	Requires2FA bool
	TempToken   string
}

// VaultClient is the client-side API of the vault server.
type VaultClient interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests.
	SetToken(token string)

	// Token returns the stored bearer token, or an empty string.
	Token() string

	// Register creates an account. The salt and verifier are computed
	// locally; the password never crosses the wire. The returned session
	// token is stored via SetToken.
	Register(ctx context.Context, username, password string) error

	// Login runs the full SRP exchange. It aborts with
	// ErrServerProofMismatch if the server cannot prove knowledge of the
	// shared session key. When no second factor is enabled the session
	// token is stored via SetToken before returning.
	Login(ctx context.Context, username, password string) (LoginResult, error)

	// VerifyTwoFactor completes a pending 2FA login and stores the session
	// token via SetToken.
	VerifyTwoFactor(ctx context.Context, tempToken, totpCode string) error

	// Logout revokes the current session and clears the stored token.
	Logout(ctx context.Context) error

	// ChangePassword re-derives the SRP credential pair from the new
	// password locally and replaces it on the server.
	ChangePassword(ctx context.Context, newPassword string) error

	SetupTwoFactor(ctx context.Context) (secret, qrCodeURL string, err error)
	EnableTwoFactor(ctx context.Context, secret, totpCode string) error
	DisableTwoFactor(ctx context.Context, totpCode string) error

	// CreateVault generates a fresh KDF salt, derives the vault key from
	// the master password, and seals the canary over accountID.
	CreateVault(ctx context.Context, accountID int64, name, masterPassword string) (models.VaultResponse, error)
	ListVaults(ctx context.Context) ([]models.VaultResponse, error)
	DeleteVault(ctx context.Context, vaultID int64) error

	// UnlockVault derives the vault key from the master password and the
	// vault's salt, then checks it against the canary. Returns
	// ErrWrongMasterPassword if the canary does not open.
	UnlockVault(vault models.VaultResponse, masterPassword string) ([]byte, error)

	// AddRecord encrypts the entry under the vault key and uploads it.
	AddRecord(ctx context.Context, vaultID int64, vaultKey []byte, entry models.PasswordEntry) (models.RecordResponse, error)
	ListRecords(ctx context.Context, vaultID int64) ([]models.RecordResponse, error)
	GetRecord(ctx context.Context, vaultID, recordID int64) (models.RecordResponse, error)
	UpdateRecord(ctx context.Context, vaultID, recordID int64, vaultKey []byte, entry models.PasswordEntry) (models.RecordResponse, error)
	DeleteRecord(ctx context.Context, vaultID, recordID int64) error

	// DecryptRecord opens one downloaded record with the vault key.
	DecryptRecord(vaultKey []byte, record models.RecordResponse) (models.PasswordEntry, error)

	// RotateMasterPassword downloads every record, re-encrypts the whole
	// vault plus the canary under the key derived from newPassword, and
	// uploads the result in a single atomic request.
	RotateMasterPassword(ctx context.Context, vault models.VaultResponse, oldPassword, newPassword string) error
}
