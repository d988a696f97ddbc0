package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUsernameTaken is returned when an attempt to register a new account
	// fails because an account with the same username already exists.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrAccountNotFound is returned when a query expected to match at least
	// one account record produces an empty result set.
	ErrAccountNotFound = errors.New("no account was found")

	// ErrSessionNotFound is returned when a session lookup or revocation
	// targets a token that is not present in the sessions table.
	ErrSessionNotFound = errors.New("no session was found")

	// ErrVaultNotFound is returned when a query or mutation targets a vault
	// that does not exist.
	ErrVaultNotFound = errors.New("no vault was found")

	// ErrNoVaultAccess is returned when the account has no row in the
	// vault_access table for the requested vault.
	ErrNoVaultAccess = errors.New("no vault access was granted")

	// ErrRecordNotFound is returned when a query or mutation targets a vault
	// record (identified by record_id and vault_id) that does not exist.
	ErrRecordNotFound = errors.New("no vault record was found")

	// ErrRotationIncomplete is returned when a master-password rotation does
	// not cover every record of the vault, or a rotated record update affects
	// no rows. The enclosing transaction is rolled back, so the vault stays
	// fully under the old key.
	ErrRotationIncomplete = errors.New("rotation does not cover all vault records")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
