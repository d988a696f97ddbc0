package models

import "time"

// VaultRole is the access level an account holds on a vault.
type VaultRole string

const (
	// RoleOwner may do everything a member can, plus delete the vault and
	// rotate its master password.
	RoleOwner VaultRole = "OWNER"

	// RoleMember may read and write vault records.
	RoleMember VaultRole = "MEMBER"
)

// Vault groups encrypted records under one client-side master password.
//
// OwnerToken is the ciphertext, under the vault key, of the owning account's
// identifier. Decrypting it to the expected value proves a candidate vault
// key is correct ("was the master password right?"). It is a correctness
// check only, never an authorization mechanism.
type Vault struct {
	VaultID int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	Name    string `json:"name"`

	// KDFSalt is the hex-encoded per-vault salt used by the client to
	// derive the vault key from the master password.
	KDFSalt string `json:"salt"`

	// OwnerToken is the vault-key canary blob (IV prepended to the
	// ciphertext). Transmitted as lowercase hex.
	OwnerToken []byte `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Vault model.
func (v Vault) TableName() string {
	return "vaults"
}
