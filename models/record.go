package models

import "time"

// VaultRecord is a single encrypted credential entry.
//
// Ciphertext is opaque to the server. The IV is unique per record and per
// re-encryption; it is stored alongside the ciphertext because the client
// needs both to decrypt.
type VaultRecord struct {
	RecordID   int64     `json:"id"`
	VaultID    int64     `json:"vault_id"`
	Ciphertext []byte    `json:"-"`
	IV         string    `json:"iv"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the VaultRecord model.
func (r VaultRecord) TableName() string {
	return "vault_records"
}

// PasswordEntry is the plaintext JSON layout of a vault record as produced
// and consumed by the client. The server never sees this form.
type PasswordEntry struct {
	Username string `json:"username"`
	Website  string `json:"website"`
	Password string `json:"password"`
	TOTPSeed string `json:"totp_seed,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Metadata string `json:"metadata,omitempty"`
}
