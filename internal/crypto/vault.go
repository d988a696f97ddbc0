// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/MKhiriev/zero-vault/models"
)

// vaultCipher is the private implementation of [VaultCipher].
type vaultCipher struct{}

// NewVaultCipher constructs a [VaultCipher] using AES-256-CBC with PKCS#7
// padding, the record format shared by every client of this service.
func NewVaultCipher() VaultCipher {
	return &vaultCipher{}
}

// EncryptRecord implements [VaultCipher]. The IV is freshly random on
// every call; it must never repeat for a given key.
func (v *vaultCipher) EncryptRecord(key, plaintext []byte) ([]byte, string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, "", fmt.Errorf("create cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, "", fmt.Errorf("generate iv: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return ciphertext, hex.EncodeToString(iv), nil
}

// DecryptRecord implements [VaultCipher]. Every malformed-input and
// bad-padding condition collapses into [ErrDecryptionFailed]: to the caller
// they all mean the same thing — the key was wrong.
func (v *vaultCipher) DecryptRecord(key, ciphertext []byte, iv string) ([]byte, error) {
	ivBytes, err := hex.DecodeString(iv)
	if err != nil || len(ivBytes) != aes.BlockSize {
		return nil, ErrDecryptionFailed
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, ivBytes).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return unpadded, nil
}

// MakeOwnerToken implements [VaultCipher]. Unlike records, the canary is a
// single blob: the IV is prepended so the check side needs no second field.
func (v *vaultCipher) MakeOwnerToken(key []byte, accountID int64) ([]byte, error) {
	ciphertext, iv, err := v.EncryptRecord(key, []byte(strconv.FormatInt(accountID, 10)))
	if err != nil {
		return nil, err
	}

	ivBytes, err := hex.DecodeString(iv)
	if err != nil {
		return nil, err
	}

	return append(ivBytes, ciphertext...), nil
}

// CheckOwnerToken implements [VaultCipher]. A decryption failure and a
// value mismatch produce the same false result on purpose.
func (v *vaultCipher) CheckOwnerToken(key, token []byte, accountID int64) bool {
	if len(token) <= aes.BlockSize {
		return false
	}

	iv, ciphertext := token[:aes.BlockSize], token[aes.BlockSize:]
	plaintext, err := v.DecryptRecord(key, ciphertext, hex.EncodeToString(iv))
	if err != nil {
		return false
	}

	expected := []byte(strconv.FormatInt(accountID, 10))
	return subtle.ConstantTimeCompare(plaintext, expected) == 1
}

// RotateRecords implements [VaultCipher]. Nothing is returned until every
// record has been decrypted under oldKey and re-encrypted under newKey, so
// a wrong old key fails the whole rotation before any output exists.
func (v *vaultCipher) RotateRecords(oldKey, newKey []byte, accountID int64, records []models.VaultRecord) ([]byte, []models.VaultRecord, error) {
	reEncrypted := make([]models.VaultRecord, 0, len(records))

	for _, record := range records {
		plaintext, err := v.DecryptRecord(oldKey, record.Ciphertext, record.IV)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", record.RecordID, err)
		}

		ciphertext, iv, err := v.EncryptRecord(newKey, plaintext)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", record.RecordID, err)
		}

		record.Ciphertext = ciphertext
		record.IV = iv
		reEncrypted = append(reEncrypted, record)
	}

	ownerToken, err := v.MakeOwnerToken(newKey, accountID)
	if err != nil {
		return nil, nil, err
	}

	return ownerToken, reEncrypted, nil
}

// pkcs7Pad appends PKCS#7 padding up to blockSize.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

// pkcs7Unpad strips and validates PKCS#7 padding.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrDecryptionFailed
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, ErrDecryptionFailed
	}

	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrDecryptionFailed
		}
	}

	return data[:len(data)-padLen], nil
}
