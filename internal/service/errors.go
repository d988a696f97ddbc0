package service

import "errors"

var (
	// ErrInvalidCredentials covers every way an SRP login can fail: unknown
	// username, wrong proof, missing or consumed handshake. One error for
	// all of them so responses carry no enumeration signal.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidOrExpiredToken is returned when a bearer session or a
	// pending two-factor temp token is not found or past its lifetime.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrInvalidCode is returned when a TOTP code does not verify against
	// the relevant secret.
	ErrInvalidCode = errors.New("invalid code")

	// ErrAccessDenied is returned on vault ACL violations, including
	// member attempts at owner-only operations. Vaults the account cannot
	// see are reported the same way as vaults it may not touch.
	ErrAccessDenied = errors.New("access denied")

	// ErrValidation is returned for malformed or oversized input fields.
	ErrValidation = errors.New("validation failed")
)
