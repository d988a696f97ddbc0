package service

import (
	"encoding/hex"
	"fmt"
	"unicode/utf8"
)

// Input caps. Field names are part of the wire contract; the limits bound
// what the server is willing to store or process.
const (
	minUsernameChars  = 3
	maxUsernameBytes  = 255
	maxSRPFieldBytes  = 1000
	totpCodeDigits    = 6
	maxCiphertextSize = 10 << 20 // raw bytes; hex form is twice that
)

func validateUsername(username string) error {
	if utf8.RuneCountInString(username) < minUsernameChars {
		return fmt.Errorf("%w: username must be at least %d characters", ErrValidation, minUsernameChars)
	}
	if len(username) > maxUsernameBytes {
		return fmt.Errorf("%w: username must not exceed %d bytes", ErrValidation, maxUsernameBytes)
	}
	return nil
}

func validateSRPCredentials(srpSalt, srpVerifier string) error {
	if srpSalt == "" || srpVerifier == "" {
		return fmt.Errorf("%w: srp_salt and srp_verifier are required", ErrValidation)
	}
	if len(srpSalt) > maxSRPFieldBytes || len(srpVerifier) > maxSRPFieldBytes {
		return fmt.Errorf("%w: srp fields must not exceed %d bytes", ErrValidation, maxSRPFieldBytes)
	}
	if _, err := hex.DecodeString(srpSalt); err != nil {
		return fmt.Errorf("%w: srp_salt must be hex encoded", ErrValidation)
	}
	if _, err := hex.DecodeString(srpVerifier); err != nil {
		return fmt.Errorf("%w: srp_verifier must be hex encoded", ErrValidation)
	}
	return nil
}

func validateTOTPCode(code string) error {
	if len(code) != totpCodeDigits {
		return fmt.Errorf("%w: totp code must be exactly %d digits", ErrValidation, totpCodeDigits)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: totp code must be exactly %d digits", ErrValidation, totpCodeDigits)
		}
	}
	return nil
}

// decodeCiphertext checks the size cap and hex encoding of an encrypted
// payload and returns the raw bytes.
func decodeCiphertext(encryptedDataHex string) ([]byte, error) {
	if encryptedDataHex == "" {
		return nil, fmt.Errorf("%w: encryptedData is required", ErrValidation)
	}
	if len(encryptedDataHex) > 2*maxCiphertextSize {
		return nil, fmt.Errorf("%w: encryptedData exceeds the size limit", ErrValidation)
	}

	ciphertext, err := hex.DecodeString(encryptedDataHex)
	if err != nil {
		return nil, fmt.Errorf("%w: encryptedData must be hex encoded", ErrValidation)
	}

	return ciphertext, nil
}

func validateIV(iv string) error {
	raw, err := hex.DecodeString(iv)
	if err != nil {
		return fmt.Errorf("%w: iv must be hex encoded", ErrValidation)
	}
	if len(raw) != 16 {
		return fmt.Errorf("%w: iv must be 16 bytes", ErrValidation)
	}
	return nil
}
