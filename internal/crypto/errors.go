// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrDecryptionFailed is returned when a record or canary cannot be
	// decrypted under the supplied key. Callers surface it as "could not
	// unlock, check your password" without exposing cipher internals.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidProof is returned when an SRP client proof does not match
	// the server-side computation, or when the exchange state is missing.
	ErrInvalidProof = errors.New("invalid srp proof")
)
