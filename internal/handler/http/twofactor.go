package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/utils"
	"github.com/MKhiriev/zero-vault/models"
)

func (h *Handler) setupTwoFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := accountID(w, r)
	if !ok {
		return
	}

	secret, qrCodeURL, err := h.services.TwoFactorService.Setup(ctx, id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.TwoFactorSetupResponse{
		Secret:    secret,
		QRCodeURL: qrCodeURL,
	}, http.StatusOK)
}

func (h *Handler) enableTwoFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req models.TwoFactorEnableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		writeError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.TwoFactorService.Enable(ctx, id, req.Secret, req.Token); err != nil {
		handleServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}

func (h *Handler) disableTwoFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req models.TwoFactorDisableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		writeError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.TwoFactorService.Disable(ctx, id, req.Token); err != nil {
		handleServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}
