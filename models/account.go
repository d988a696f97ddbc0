package models

import "time"

// Account represents a registered user of the vault service.
//
// The server never stores a password or any key material derived from one:
// authentication relies on the SRP verifier, and vault contents are opaque
// ciphertexts produced on the client.
type Account struct {
	// AccountID is the internal unique identifier of the account.
	// It is not exposed via JSON and is used only at the persistence layer.
	AccountID int64 `json:"-"`

	// Username is the unique login identifier. Matching is exact,
	// case-sensitive, as stored.
	Username string `json:"username"`

	// SRPSalt is the hex-encoded salt generated by the client at
	// registration. It seeds both the PBKDF2 strengthening step and the
	// SRP x-derivation.
	SRPSalt string `json:"srp_salt"`

	// SRPVerifier is the hex-encoded SRP-6a verifier. The server can check
	// proofs against it but cannot recover the password from it.
	SRPVerifier string `json:"srp_verifier"`

	// TOTPSecret is the base32 TOTP secret when the second factor is
	// enabled, empty otherwise. Never exposed via JSON.
	TOTPSecret string `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TwoFactorEnabled reports whether the account has a TOTP secret set.
func (a Account) TwoFactorEnabled() bool {
	return a.TOTPSecret != ""
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}
