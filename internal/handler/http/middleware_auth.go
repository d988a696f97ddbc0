// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/service"
	"github.com/MKhiriev/zero-vault/internal/utils"
	"github.com/MKhiriev/zero-vault/models"
)

// auth enforces bearer-session authentication.
//
// It extracts the token from the "Authorization" header, validates it
// against the session ledger, and stores the account id and the presented
// token in the request context before delegating to the next handler.
// The token is opaque: no claims are read from it, every request hits the
// ledger.
//
// Requests are rejected with HTTP 401 when the header is absent or
// malformed, or when the token is unknown, revoked, or expired.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			writeError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		token, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			writeError(w, ErrInvalidAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		session, err := h.services.SessionService.Validate(ctx, token)
		if err != nil {
			if errors.Is(err, service.ErrInvalidOrExpiredToken) {
				log.Err(err).Msg("token rejected")
				writeError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}
			log.Err(err).Msg("session validation failed")
			writeError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		ctx = context.WithValue(ctx, utils.AccountIDCtxKey, session.AccountID)
		ctx = context.WithValue(ctx, utils.SessionTokenCtxKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accountID pulls the authenticated account id out of the request context.
// Reaching a handler without it means the auth middleware was bypassed, so
// the request is rejected rather than served with a zero id.
func accountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return 0, false
	}
	return id, true
}

// writeError sends the uniform JSON error body.
func writeError(w http.ResponseWriter, message string, statusCode int) {
	_, _ = utils.WriteJSON(w, models.ErrorResponse{Error: message}, statusCode)
}
