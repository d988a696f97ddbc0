package crypto

import "github.com/MKhiriev/zero-vault/models"

// KeyService performs all deterministic key derivations of the scheme.
// It knows nothing about the network, the database, or users.
//
// The two derivations are deliberately incompatible with each other:
//
//	authKey  = PBKDF2-SHA256(password, salt, 10k)  -> hex   (SRP step)
//	vaultKey = PBKDF2-SHA512(password, salt, 100k) -> bytes (AES step)
type KeyService interface {
	// GenerateSalt generates a random salt (16 bytes / 128 bits) and
	// returns it as hex. The salt is not a secret; the server stores it
	// in the clear.
	GenerateSalt() (string, error)

	// DeriveAuthKey strengthens the password for SRP verifier and proof
	// generation: PBKDF2-SHA256, 10 000 iterations, 256-bit output, hex
	// encoded. Deterministic for a given (password, salt) pair.
	DeriveAuthKey(password, salt string) string

	// DeriveVaultKey derives the AES-256 vault key from the master
	// password and the per-vault salt: PBKDF2-SHA512, 100 000 iterations,
	// 32 raw bytes. The higher iteration count reflects that this key
	// encrypts data at rest. Deterministic; never persisted or sent.
	DeriveVaultKey(masterPassword, salt string) []byte
}

// VaultCipher performs the client-side envelope encryption of vault
// records and the owner-id canary.
type VaultCipher interface {
	// EncryptRecord encrypts plaintext with AES-256-CBC (PKCS#7 padding)
	// under key, using a fresh random 16-byte IV. Returns the ciphertext
	// and the hex-encoded IV.
	EncryptRecord(key, plaintext []byte) (ciphertext []byte, iv string, err error)

	// DecryptRecord reverses EncryptRecord. Padding or format errors are
	// reported as ErrDecryptionFailed — to the caller both mean "wrong
	// vault key".
	DecryptRecord(key, ciphertext []byte, iv string) ([]byte, error)

	// MakeOwnerToken encrypts the account identifier as a canary for the
	// vault key. The returned blob is iv ‖ ciphertext.
	MakeOwnerToken(key []byte, accountID int64) ([]byte, error)

	// CheckOwnerToken decrypts the canary blob and compares it with the
	// expected account identifier. It returns false both when decryption
	// fails and when the value mismatches; the two cases are
	// indistinguishable to the caller.
	CheckOwnerToken(key, token []byte, accountID int64) bool

	// RotateRecords re-encrypts every record from oldKey to newKey with a
	// fresh IV each, and recomputes the owner token. The whole result is
	// computed in memory before anything is returned; persistence must
	// apply it as a single atomic unit.
	RotateRecords(oldKey, newKey []byte, accountID int64, records []models.VaultRecord) ([]byte, []models.VaultRecord, error)
}
