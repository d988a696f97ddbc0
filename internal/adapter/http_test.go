// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/zero-vault/internal/config"
	transport "github.com/MKhiriev/zero-vault/internal/handler/http"
	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/service"
	"github.com/MKhiriev/zero-vault/internal/store"
	"github.com/MKhiriev/zero-vault/models"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer spins up the full stack on an in-memory SQLite database and
// returns a client wired to it.
func newTestServer(t *testing.T) VaultClient {
	t.Helper()

	log := logger.Nop()

	storages, err := store.NewStorages(context.Background(), config.DB{
		Driver: "sqlite3",
		DSN:    ":memory:",
	}, log)
	require.NoError(t, err)

	cfg := config.StructuredConfig{}
	cfg.App.SessionDuration = time.Hour
	cfg.App.PendingLoginTTL = 5 * time.Minute
	cfg.App.HandshakeTTL = 2 * time.Minute
	cfg.App.TOTPIssuer = "zero-vault"

	services := service.NewServices(storages, cfg, log)
	srv := httptest.NewServer(transport.NewHandler(services, log).Init())
	t.Cleanup(srv.Close)

	return NewHTTPVaultClient(ClientConfig{BaseURL: srv.URL})
}

func TestClient_RegisterLoginLogout(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "alice", "correcthorse123"))
	assert.NotEmpty(t, client.Token())

	require.NoError(t, client.Logout(ctx))
	assert.Empty(t, client.Token())

	result, err := client.Login(ctx, "alice", "correcthorse123")
	require.NoError(t, err)
	assert.False(t, result.Requires2FA)
	assert.NotEmpty(t, client.Token())
}

func TestClient_Login_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "alice", "correcthorse123"))

	_, errWrong := client.Login(ctx, "alice", "wrongpassword")
	_, errUnknown := client.Login(ctx, "nobody", "whatever")

	require.ErrorIs(t, errWrong, ErrUnauthorized)
	require.ErrorIs(t, errUnknown, ErrUnauthorized)
}

func TestClient_DuplicateUsernameRejected(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "alice", "correcthorse123"))

	err := client.Register(ctx, "alice", "differentpassword")
	require.ErrorIs(t, err, ErrConflict)
}

func TestClient_VaultLifecycle(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "alice", "correcthorse123"))

	vault, err := client.CreateVault(ctx, 1, "Personal", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "Personal", vault.Name)
	assert.Equal(t, int64(1), vault.OwnerID)

	// Right master password opens the canary, wrong one does not.
	vaultKey, err := client.UnlockVault(vault, "hunter22")
	require.NoError(t, err)
	_, err = client.UnlockVault(vault, "hunter23")
	require.ErrorIs(t, err, ErrWrongMasterPassword)

	entry := models.PasswordEntry{
		Username: "alice@example.com",
		Website:  "https://example.com",
		Password: "s3cret",
		Notes:    "personal account",
	}
	record, err := client.AddRecord(ctx, vault.ID, vaultKey, entry)
	require.NoError(t, err)
	assert.NotZero(t, record.ID)

	records, err := client.ListRecords(ctx, vault.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)

	decrypted, err := client.DecryptRecord(vaultKey, records[0])
	require.NoError(t, err)
	assert.Equal(t, entry, decrypted)

	// Update and re-read.
	entry.Password = "n3w-s3cret"
	_, err = client.UpdateRecord(ctx, vault.ID, record.ID, vaultKey, entry)
	require.NoError(t, err)

	fetched, err := client.GetRecord(ctx, vault.ID, record.ID)
	require.NoError(t, err)
	decrypted, err = client.DecryptRecord(vaultKey, fetched)
	require.NoError(t, err)
	assert.Equal(t, "n3w-s3cret", decrypted.Password)

	require.NoError(t, client.DeleteRecord(ctx, vault.ID, record.ID))
	records, err = client.ListRecords(ctx, vault.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClient_VaultAccessDeniedForStranger(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "alice", "correcthorse123"))
	vault, err := client.CreateVault(ctx, 1, "Personal", "hunter22")
	require.NoError(t, err)

	// bob cannot see or touch alice's vault.
	require.NoError(t, client.Register(ctx, "bob", "bobpassword1"))

	_, err = client.ListRecords(ctx, vault.ID)
	require.ErrorIs(t, err, ErrForbidden)

	err = client.DeleteVault(ctx, vault.ID)
	require.ErrorIs(t, err, ErrForbidden)

	vaults, err := client.ListVaults(ctx)
	require.NoError(t, err)
	assert.Empty(t, vaults)
}

func TestClient_RotateMasterPassword(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "alice", "correcthorse123"))
	vault, err := client.CreateVault(ctx, 1, "Personal", "hunter22")
	require.NoError(t, err)

	oldKey, err := client.UnlockVault(vault, "hunter22")
	require.NoError(t, err)

	entries := []models.PasswordEntry{
		{Website: "https://one.example.com", Password: "one"},
		{Website: "https://two.example.com", Password: "two"},
		{Website: "https://three.example.com", Password: "three"},
	}
	for _, entry := range entries {
		_, err = client.AddRecord(ctx, vault.ID, oldKey, entry)
		require.NoError(t, err)
	}

	require.NoError(t, client.RotateMasterPassword(ctx, vault, "hunter22", "hunter23"))

	// The canary and every record now open under the new password only.
	vaults, err := client.ListVaults(ctx)
	require.NoError(t, err)
	require.Len(t, vaults, 1)
	rotated := vaults[0]

	_, err = client.UnlockVault(rotated, "hunter22")
	require.ErrorIs(t, err, ErrWrongMasterPassword)

	newKey, err := client.UnlockVault(rotated, "hunter23")
	require.NoError(t, err)

	records, err := client.ListRecords(ctx, rotated.ID)
	require.NoError(t, err)
	require.Len(t, records, len(entries))

	websites := make(map[string]bool)
	for _, record := range records {
		entry, decErr := client.DecryptRecord(newKey, record)
		require.NoError(t, decErr)
		websites[entry.Website] = true
	}
	for _, entry := range entries {
		assert.True(t, websites[entry.Website])
	}
}

func TestClient_TwoFactorFlow(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "alice", "correcthorse123"))

	secret, qrCodeURL, err := client.SetupTwoFactor(ctx)
	require.NoError(t, err)
	assert.Contains(t, qrCodeURL, "otpauth://totp/")

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, client.EnableTwoFactor(ctx, secret, code))

	// A fresh login now stops at the second factor.
	client.SetToken("")
	result, err := client.Login(ctx, "alice", "correcthorse123")
	require.NoError(t, err)
	require.True(t, result.Requires2FA)
	assert.NotEmpty(t, result.TempToken)
	assert.Empty(t, client.Token())

	code, err = totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, client.VerifyTwoFactor(ctx, result.TempToken, code))
	assert.NotEmpty(t, client.Token())

	code, err = totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, client.DisableTwoFactor(ctx, code))

	result, err = client.Login(ctx, "alice", "correcthorse123")
	require.NoError(t, err)
	assert.False(t, result.Requires2FA)
}

func TestClient_ChangePassword(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "alice", "correcthorse123"))
	require.NoError(t, client.ChangePassword(ctx, "newhorsebattery"))

	// Existing session still works; the old password does not.
	client.SetToken("")
	_, err := client.Login(ctx, "alice", "correcthorse123")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = client.Login(ctx, "alice", "newhorsebattery")
	require.NoError(t, err)
}

func TestClient_UnauthenticatedRequestsRejected(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	_, err := client.ListVaults(ctx)
	require.ErrorIs(t, err, ErrUnauthorized)
}
