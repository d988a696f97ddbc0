// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize = 16

	authIterations = 10000
	authKeySize    = 32

	vaultIterations = 100000
	vaultKeySize    = 32
)

// keyService is the private implementation of [KeyService].
type keyService struct{}

// NewKeyService constructs a [KeyService]. The derivation parameters are
// fixed: they are part of the wire-compatibility contract between client
// and server, not a deployment knob.
func NewKeyService() KeyService {
	return &keyService{}
}

// GenerateSalt implements [KeyService]. It reads 16 random bytes from the
// OS CSPRNG and returns them hex-encoded. Returns an error if the random
// read fails.
func (k *keyService) GenerateSalt() (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}
	return hex.EncodeToString(salt), nil
}

// DeriveAuthKey implements [KeyService]. The salt is consumed in its hex
// string form on both sides, so no decode step can ever fail here.
func (k *keyService) DeriveAuthKey(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), authIterations, authKeySize, sha256.New)
	return hex.EncodeToString(key)
}

// DeriveVaultKey implements [KeyService]. The output is used directly as
// an AES-256 key and exists only in client memory.
func (k *keyService) DeriveVaultKey(masterPassword, salt string) []byte {
	return pbkdf2.Key([]byte(masterPassword), []byte(salt), vaultIterations, vaultKeySize, sha512.New)
}
