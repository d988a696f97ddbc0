package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"strings"
)

// tokenSize is the entropy of an opaque token in bytes (256 bits).
const tokenSize = 32

// NewOpaqueToken generates a random bearer token: 32 bytes from the OS
// CSPRNG, hex-encoded. The token carries no structure and no claims —
// the server-side ledger is the only source of truth about it.
//
// Returns an error if the random read fails.
//
// Example usage:
//
//	token, err := utils.NewOpaqueToken()
func NewOpaqueToken() (string, error) {
	raw := make([]byte, tokenSize)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", err
	}

	return hex.EncodeToString(raw), nil
}

// ParseBearerToken extracts the token from an "Authorization" header value
// of the form "Bearer <token>".
//
// Returns an error if the header does not split into exactly two parts or
// the token part is empty.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
