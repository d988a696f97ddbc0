package service

import (
	"context"

	"github.com/MKhiriev/zero-vault/models"
)

// AuthService implements the SRP-6a side of authentication: registration,
// the challenge/proof exchange, and password changes. It never sees a
// password; clients submit salts, verifiers, and proofs.
type AuthService interface {
	// Register creates an account from a client-computed salt and verifier.
	Register(ctx context.Context, username, srpSalt, srpVerifier string) (models.Account, error)

	// BeginChallenge starts an SRP handshake and returns the stored salt
	// and a fresh server public ephemeral. Unknown usernames fail exactly
	// like a wrong proof does.
	BeginChallenge(ctx context.Context, username string) (salt, serverPublicKey string, err error)

	// VerifyProof checks the client's proof against the pending handshake.
	// The handshake is consumed whether the proof is right or wrong; a
	// replayed proof meets no handshake and fails.
	VerifyProof(ctx context.Context, username, clientPublicKey, clientProof string) (serverProof string, account models.Account, err error)

	// ChangePassword replaces the account's salt and verifier pair.
	ChangePassword(ctx context.Context, accountID int64, srpSalt, srpVerifier string) error

	// SweepHandshakes evicts expired pending handshakes.
	SweepHandshakes() int
}

// TwoFactorService manages the TOTP second factor and the pending state of
// logins waiting for a code.
type TwoFactorService interface {
	// Setup generates a fresh secret and provisioning URI. Nothing is
	// persisted until Enable confirms the client holds the secret.
	Setup(ctx context.Context, accountID int64) (secret, qrCodeURL string, err error)

	// Enable stores the secret after the client proves it can produce a
	// valid code for it.
	Enable(ctx context.Context, accountID int64, secret, code string) error

	// Disable clears the stored secret, but only for a currently valid code.
	Disable(ctx context.Context, accountID int64, code string) error

	// Gate decides the outcome of a successful SRP login: accounts without
	// a second factor pass straight through, accounts with one receive a
	// temporary token and must complete the login via CompleteLogin.
	Gate(ctx context.Context, account models.Account) (requires bool, tempToken string, err error)

	// CompleteLogin exchanges a pending temp token plus a valid TOTP code
	// for the account. The pending entry is consumed on success only; a
	// wrong code may be retried until the entry expires.
	CompleteLogin(ctx context.Context, tempToken, code string) (models.Account, error)

	// SweepPending evicts expired pending logins.
	SweepPending() int
}

// SessionService issues and checks opaque bearer sessions.
type SessionService interface {
	Issue(ctx context.Context, accountID int64) (models.Session, error)
	Validate(ctx context.Context, token string) (models.Session, error)
	Revoke(ctx context.Context, token string) error
	SweepExpired(ctx context.Context) (int64, error)
}

// VaultService manages vaults and their encrypted records on behalf of an
// authenticated account. Every operation enforces the vault ACL; rotation
// and deletion additionally require the OWNER role.
type VaultService interface {
	CreateVault(ctx context.Context, ownerID int64, name, kdfSalt, ownerTokenHex string) (models.Vault, error)
	ListVaults(ctx context.Context, accountID int64) ([]models.Vault, error)
	DeleteVault(ctx context.Context, accountID, vaultID int64) error

	ListRecords(ctx context.Context, accountID, vaultID int64) ([]models.VaultRecord, error)
	GetRecord(ctx context.Context, accountID, vaultID, recordID int64) (models.VaultRecord, error)
	AddRecord(ctx context.Context, accountID, vaultID int64, encryptedDataHex, iv string) (models.VaultRecord, error)
	UpdateRecord(ctx context.Context, accountID, vaultID, recordID int64, encryptedDataHex, iv string) (models.VaultRecord, error)
	DeleteRecord(ctx context.Context, accountID, vaultID, recordID int64) error

	// RotateMasterPassword applies a client-computed re-encryption of the
	// whole vault atomically. Owner only.
	RotateMasterPassword(ctx context.Context, accountID, vaultID int64, ownerTokenHex string, records []models.RotatedRecord) error
}
