package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("access denied")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")

	// ErrServerProofMismatch means the server failed to prove knowledge of
	// the shared SRP session key. The login is aborted even though the
	// server accepted the client's proof.
	ErrServerProofMismatch = errors.New("server proof mismatch")

	// ErrWrongMasterPassword means the vault canary did not decrypt to the
	// owner's identifier under the derived key.
	ErrWrongMasterPassword = errors.New("wrong master password")
)
