// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/utils"
	"github.com/MKhiriev/zero-vault/models"
	"github.com/go-chi/chi/v5"
)

// pathID parses a numeric URL parameter. A malformed id is a client fault.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func vaultResponse(vault models.Vault) models.VaultResponse {
	return models.VaultResponse{
		ID:              vault.VaultID,
		OwnerID:         vault.OwnerID,
		Name:            vault.Name,
		Salt:            vault.KDFSalt,
		EncryptedUserID: hex.EncodeToString(vault.OwnerToken),
		CreatedAt:       vault.CreatedAt,
	}
}

func recordResponse(record models.VaultRecord) models.RecordResponse {
	return models.RecordResponse{
		ID:            record.RecordID,
		VaultID:       record.VaultID,
		EncryptedData: hex.EncodeToString(record.Ciphertext),
		IV:            record.IV,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}

func (h *Handler) createVault(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req models.CreateVaultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		writeError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	vault, err := h.services.VaultService.CreateVault(ctx, id, req.Name, req.Salt, req.EncryptedUserID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, vaultResponse(vault), http.StatusCreated)
}

func (h *Handler) listVaults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := accountID(w, r)
	if !ok {
		return
	}

	vaults, err := h.services.VaultService.ListVaults(ctx, id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	response := make([]models.VaultResponse, 0, len(vaults))
	for _, vault := range vaults {
		response = append(response, vaultResponse(vault))
	}

	_, _ = utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) deleteVault(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := accountID(w, r)
	if !ok {
		return
	}
	vaultID, ok := pathID(w, r, "vaultID")
	if !ok {
		return
	}

	if err := h.services.VaultService.DeleteVault(ctx, id, vaultID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := accountID(w, r)
	if !ok {
		return
	}
	vaultID, ok := pathID(w, r, "vaultID")
	if !ok {
		return
	}

	records, err := h.services.VaultService.ListRecords(ctx, id, vaultID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	response := make([]models.RecordResponse, 0, len(records))
	for _, record := range records {
		response = append(response, recordResponse(record))
	}

	_, _ = utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := accountID(w, r)
	if !ok {
		return
	}
	vaultID, ok := pathID(w, r, "vaultID")
	if !ok {
		return
	}
	recordID, ok := pathID(w, r, "passwordID")
	if !ok {
		return
	}

	record, err := h.services.VaultService.GetRecord(ctx, id, vaultID, recordID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, recordResponse(record), http.StatusOK)
}

func (h *Handler) addRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	id, ok := accountID(w, r)
	if !ok {
		return
	}
	vaultID, ok := pathID(w, r, "vaultID")
	if !ok {
		return
	}

	var req models.RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		writeError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	record, err := h.services.VaultService.AddRecord(ctx, id, vaultID, req.EncryptedData, req.IV)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, recordResponse(record), http.StatusCreated)
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	id, ok := accountID(w, r)
	if !ok {
		return
	}
	vaultID, ok := pathID(w, r, "vaultID")
	if !ok {
		return
	}
	recordID, ok := pathID(w, r, "passwordID")
	if !ok {
		return
	}

	var req models.RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		writeError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	record, err := h.services.VaultService.UpdateRecord(ctx, id, vaultID, recordID, req.EncryptedData, req.IV)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, recordResponse(record), http.StatusOK)
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := accountID(w, r)
	if !ok {
		return
	}
	vaultID, ok := pathID(w, r, "vaultID")
	if !ok {
		return
	}
	recordID, ok := pathID(w, r, "passwordID")
	if !ok {
		return
	}

	if err := h.services.VaultService.DeleteRecord(ctx, id, vaultID, recordID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}

func (h *Handler) rotateMasterPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	id, ok := accountID(w, r)
	if !ok {
		return
	}
	vaultID, ok := pathID(w, r, "vaultID")
	if !ok {
		return
	}

	var req models.RotateVaultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		writeError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.VaultService.RotateMasterPassword(ctx, id, vaultID, req.EncryptedUserID, req.Passwords); err != nil {
		handleServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}
