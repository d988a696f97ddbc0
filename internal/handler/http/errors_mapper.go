package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/service"
	"github.com/MKhiriev/zero-vault/internal/store"
)

// errorStatusMap translates sentinel errors into HTTP status codes. Anything
// not listed is a 500: internals never leak to the client.
var errorStatusMap = map[error]int{
	service.ErrValidation:            http.StatusBadRequest,
	service.ErrInvalidCredentials:    http.StatusUnauthorized,
	service.ErrInvalidOrExpiredToken: http.StatusUnauthorized,
	service.ErrInvalidCode:           http.StatusUnauthorized,
	service.ErrAccessDenied:          http.StatusForbidden,

	store.ErrUsernameTaken:   http.StatusConflict,
	store.ErrAccountNotFound: http.StatusNotFound,
	store.ErrVaultNotFound:   http.StatusNotFound,
	store.ErrRecordNotFound:  http.StatusNotFound,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// clientMessage returns the body text for a mapped error. Client-fault
// statuses echo the sentinel text; everything else gets the generic status
// text so server internals stay in the logs.
func clientMessage(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}

// handleServiceError logs the error and writes the mapped JSON error body.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	log.Err(err).Int("status", status).Msg("request failed")

	writeError(w, clientMessage(err, status), status)
}
