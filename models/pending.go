package models

// PendingLogin is the ephemeral state between a successful SRP exchange and
// the TOTP check for accounts with the second factor enabled.
//
// TempToken is an opaque random token handed to the client; presenting it
// together with a valid TOTP code completes the login. It never yields a
// session on its own.
type PendingLogin struct {
	TempToken string
	AccountID int64
}
