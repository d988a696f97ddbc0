package models

import "time"

// TokenResponse carries a freshly issued bearer session token.
type TokenResponse struct {
	Token string `json:"token"`
}

// ChallengeResponse is the reply to POST /auth/srp-challenge.
type ChallengeResponse struct {
	Salt            string `json:"salt"`
	ServerPublicKey string `json:"server_public_key"`
}

// LoginResponse is the reply to POST /auth/login.
//
// Exactly one of the two outcomes is populated: a direct Token for accounts
// without a second factor, or Requires2FA plus TempToken when a TOTP check
// must follow. ServerProof is always present on success so the client can
// detect a rogue server.
type LoginResponse struct {
	ServerProof string `json:"server_proof"`
	Token       string `json:"token,omitempty"`
	Requires2FA bool   `json:"requires_2fa,omitempty"`
	TempToken   string `json:"temp_token,omitempty"`
}

// TwoFactorSetupResponse is the reply to POST /auth/2fa/setup. The secret
// is not persisted until the matching enable call succeeds.
type TwoFactorSetupResponse struct {
	Secret    string `json:"secret"`
	QRCodeURL string `json:"qr_code_url"`
}

// VaultResponse is the wire form of a vault. EncryptedUserID is the hex
// canary blob; the client decrypts it with the derived vault key and
// compares it against OwnerID to tell a wrong master password from
// corrupted data before touching any record.
type VaultResponse struct {
	ID              int64     `json:"id"`
	OwnerID         int64     `json:"owner_id"`
	Name            string    `json:"name"`
	Salt            string    `json:"salt"`
	EncryptedUserID string    `json:"encryptedUserId"`
	CreatedAt       time.Time `json:"created_at"`
}

// RecordResponse is the wire form of a vault record. EncryptedData and IV
// are lowercase hex.
type RecordResponse struct {
	ID            int64     `json:"id"`
	VaultID       int64     `json:"vault_id"`
	EncryptedData string    `json:"encryptedData"`
	IV            string    `json:"iv"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SuccessResponse acknowledges an operation with no other payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the generic error body. Message is always a client-safe
// string; internals stay in the server logs.
type ErrorResponse struct {
	Error string `json:"error"`
}
