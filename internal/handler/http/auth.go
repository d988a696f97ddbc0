package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/service"
	"github.com/MKhiriev/zero-vault/internal/utils"
	"github.com/MKhiriev/zero-vault/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		writeError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	account, err := h.services.AuthService.Register(ctx, req.Username, req.SRPSalt, req.SRPVerifier)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	// A fresh account has no second factor yet, so the session is issued
	// right away.
	session, err := h.services.SessionService.Issue(ctx, account.AccountID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.TokenResponse{Token: session.Token}, http.StatusOK)
}

func (h *Handler) srpChallenge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		writeError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	salt, serverPublicKey, err := h.services.AuthService.BeginChallenge(ctx, req.Username)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.ChallengeResponse{
		Salt:            salt,
		ServerPublicKey: serverPublicKey,
	}, http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		writeError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	serverProof, account, err := h.services.AuthService.VerifyProof(ctx, req.Username, req.ClientPublicKey, req.ClientProof)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	requires2FA, tempToken, err := h.services.TwoFactorService.Gate(ctx, account)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if requires2FA {
		_, _ = utils.WriteJSON(w, models.LoginResponse{
			ServerProof: serverProof,
			Requires2FA: true,
			TempToken:   tempToken,
		}, http.StatusOK)
		return
	}

	session, err := h.services.SessionService.Issue(ctx, account.AccountID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	log.Debug().Int64("account_id", account.AccountID).Msg("login completed")

	_, _ = utils.WriteJSON(w, models.LoginResponse{
		ServerProof: serverProof,
		Token:       session.Token,
	}, http.StatusOK)
}

func (h *Handler) verifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.VerifyTwoFactorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		writeError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	account, err := h.services.TwoFactorService.CompleteLogin(ctx, req.TempToken, req.TOTPCode)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	session, err := h.services.SessionService.Issue(ctx, account.AccountID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.TokenResponse{Token: session.Token}, http.StatusOK)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		writeError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.ChangePassword(ctx, id, req.SRPSalt, req.SRPVerifier); err != nil {
		handleServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := utils.GetSessionTokenFromContext(ctx)
	if !ok {
		writeError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.SessionService.Revoke(ctx, token); err != nil {
		// The session may have been swept between the middleware check and
		// here. Logout is idempotent either way.
		if !errors.Is(err, service.ErrInvalidOrExpiredToken) {
			handleServiceError(w, r, err)
			return
		}
	}

	_, _ = utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}
