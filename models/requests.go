package models

// RegisterRequest is the payload of POST /auth/register. Salt and verifier
// are computed on the client; the password itself never crosses the wire.
type RegisterRequest struct {
	Username    string `json:"username"`
	SRPSalt     string `json:"srp_salt"`
	SRPVerifier string `json:"srp_verifier"`
}

// ChallengeRequest is the payload of POST /auth/srp-challenge.
type ChallengeRequest struct {
	Username string `json:"username"`
}

// LoginRequest is the payload of POST /auth/login. All SRP values are
// lowercase hex.
type LoginRequest struct {
	Username        string `json:"username"`
	ClientPublicKey string `json:"client_public_key"`
	ClientProof     string `json:"client_proof"`
}

// VerifyTwoFactorRequest is the payload of POST /auth/verify-2fa.
type VerifyTwoFactorRequest struct {
	TempToken string `json:"temp_token"`
	TOTPCode  string `json:"totp_code"`
}

// ChangePasswordRequest is the payload of PUT /auth/password. The client
// re-derives salt and verifier from the new password.
type ChangePasswordRequest struct {
	SRPSalt     string `json:"srp_salt"`
	SRPVerifier string `json:"srp_verifier"`
}

// TwoFactorEnableRequest is the payload of POST /auth/2fa/enable. Token is
// the current 6-digit TOTP code for the provided secret.
type TwoFactorEnableRequest struct {
	Secret string `json:"secret"`
	Token  string `json:"token"`
}

// TwoFactorDisableRequest is the payload of POST /auth/2fa/disable.
type TwoFactorDisableRequest struct {
	Token string `json:"token"`
}

// CreateVaultRequest is the payload of POST /vaults. EncryptedUserID is the
// hex-encoded canary blob produced under the freshly derived vault key.
type CreateVaultRequest struct {
	Name            string `json:"name,omitempty"`
	Salt            string `json:"salt"`
	EncryptedUserID string `json:"encryptedUserId"`
}

// RecordRequest carries one encrypted credential record. Both fields are
// lowercase hex.
type RecordRequest struct {
	EncryptedData string `json:"encryptedData"`
	IV            string `json:"iv"`
}

// RotatedRecord is one re-encrypted record inside a master-password
// rotation request.
type RotatedRecord struct {
	ID            int64  `json:"id"`
	EncryptedData string `json:"encryptedData"`
	IV            string `json:"iv"`
}

// RotateVaultRequest is the payload of POST /vaults/{id}/update-master-password.
// The client has already re-encrypted every record and the canary under the
// new vault key; the server applies the whole set atomically.
type RotateVaultRequest struct {
	EncryptedUserID string          `json:"encryptedUserId"`
	Passwords       []RotatedRecord `json:"passwords"`
}
