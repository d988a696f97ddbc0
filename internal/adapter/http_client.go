package adapter

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/zero-vault/internal/crypto"
	"github.com/MKhiriev/zero-vault/models"
	"github.com/go-resty/resty/v2"
)

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpVaultClient struct {
	client *resty.Client
	keys   crypto.KeyService
	cipher crypto.VaultCipher

	mu    sync.RWMutex
	token string
}

func NewHTTPVaultClient(cfg ClientConfig) VaultClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpVaultClient{
		client: cli,
		keys:   crypto.NewKeyService(),
		cipher: crypto.NewVaultCipher(),
	}
}

func (h *httpVaultClient) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpVaultClient) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// request starts a JSON request with the stored bearer token attached.
func (h *httpVaultClient) request(ctx context.Context) *resty.Request {
	req := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json")
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// ─────────────────────────────────────────────
// Authentication
// ─────────────────────────────────────────────

func (h *httpVaultClient) Register(ctx context.Context, username, password string) error {
	salt, verifier, err := crypto.ComputeVerifier(password)
	if err != nil {
		return fmt.Errorf("register compute verifier: %w", err)
	}

	var body models.TokenResponse
	resp, err := h.request(ctx).
		SetBody(models.RegisterRequest{
			Username:    username,
			SRPSalt:     salt,
			SRPVerifier: verifier,
		}).
		SetResult(&body).
		Post("/auth/register")
	if err != nil {
		return fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	h.SetToken(body.Token)
	return nil
}

func (h *httpVaultClient) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var challenge models.ChallengeResponse
	resp, err := h.request(ctx).
		SetBody(models.ChallengeRequest{Username: username}).
		SetResult(&challenge).
		Post("/auth/srp-challenge")
	if err != nil {
		return LoginResult{}, fmt.Errorf("challenge request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return LoginResult{}, err
	}

	client, err := crypto.NewSRPClient(username, password)
	if err != nil {
		return LoginResult{}, fmt.Errorf("srp client: %w", err)
	}
	proof, err := client.ComputeProof(challenge.Salt, challenge.ServerPublicKey)
	if err != nil {
		return LoginResult{}, fmt.Errorf("compute proof: %w", err)
	}

	var login models.LoginResponse
	resp, err = h.request(ctx).
		SetBody(models.LoginRequest{
			Username:        username,
			ClientPublicKey: client.PublicKey(),
			ClientProof:     proof,
		}).
		SetResult(&login).
		Post("/auth/login")
	if err != nil {
		return LoginResult{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return LoginResult{}, err
	}

	// Mutual authentication: a server that accepted the proof without
	// knowing the verifier could not produce this value.
	if !client.VerifyServerProof(login.ServerProof) {
		return LoginResult{}, ErrServerProofMismatch
	}

	if login.Requires2FA {
		return LoginResult{Requires2FA: true, TempToken: login.TempToken}, nil
	}

	h.SetToken(login.Token)
	return LoginResult{}, nil
}

func (h *httpVaultClient) VerifyTwoFactor(ctx context.Context, tempToken, totpCode string) error {
	var body models.TokenResponse
	resp, err := h.request(ctx).
		SetBody(models.VerifyTwoFactorRequest{
			TempToken: tempToken,
			TOTPCode:  totpCode,
		}).
		SetResult(&body).
		Post("/auth/verify-2fa")
	if err != nil {
		return fmt.Errorf("verify-2fa request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	h.SetToken(body.Token)
	return nil
}

func (h *httpVaultClient) Logout(ctx context.Context) error {
	resp, err := h.request(ctx).Delete("/auth/logout")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	h.SetToken("")
	return nil
}

func (h *httpVaultClient) ChangePassword(ctx context.Context, newPassword string) error {
	salt, verifier, err := crypto.ComputeVerifier(newPassword)
	if err != nil {
		return fmt.Errorf("change password compute verifier: %w", err)
	}

	resp, err := h.request(ctx).
		SetBody(models.ChangePasswordRequest{
			SRPSalt:     salt,
			SRPVerifier: verifier,
		}).
		Put("/auth/password")
	if err != nil {
		return fmt.Errorf("change password request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpVaultClient) SetupTwoFactor(ctx context.Context) (string, string, error) {
	var body models.TwoFactorSetupResponse
	resp, err := h.request(ctx).
		SetResult(&body).
		Post("/auth/2fa/setup")
	if err != nil {
		return "", "", fmt.Errorf("2fa setup request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", "", err
	}
	return body.Secret, body.QRCodeURL, nil
}

func (h *httpVaultClient) EnableTwoFactor(ctx context.Context, secret, totpCode string) error {
	resp, err := h.request(ctx).
		SetBody(models.TwoFactorEnableRequest{Secret: secret, Token: totpCode}).
		Post("/auth/2fa/enable")
	if err != nil {
		return fmt.Errorf("2fa enable request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpVaultClient) DisableTwoFactor(ctx context.Context, totpCode string) error {
	resp, err := h.request(ctx).
		SetBody(models.TwoFactorDisableRequest{Token: totpCode}).
		Post("/auth/2fa/disable")
	if err != nil {
		return fmt.Errorf("2fa disable request: %w", err)
	}
	return mapHTTPError(resp)
}

// ─────────────────────────────────────────────
// Vaults
// ─────────────────────────────────────────────

func (h *httpVaultClient) CreateVault(ctx context.Context, accountID int64, name, masterPassword string) (models.VaultResponse, error) {
	salt, err := h.keys.GenerateSalt()
	if err != nil {
		return models.VaultResponse{}, fmt.Errorf("generate vault salt: %w", err)
	}

	vaultKey := h.keys.DeriveVaultKey(masterPassword, salt)
	ownerToken, err := h.cipher.MakeOwnerToken(vaultKey, accountID)
	if err != nil {
		return models.VaultResponse{}, fmt.Errorf("seal vault canary: %w", err)
	}

	var body models.VaultResponse
	resp, err := h.request(ctx).
		SetBody(models.CreateVaultRequest{
			Name:            name,
			Salt:            salt,
			EncryptedUserID: hex.EncodeToString(ownerToken),
		}).
		SetResult(&body).
		Post("/vaults")
	if err != nil {
		return models.VaultResponse{}, fmt.Errorf("create vault request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.VaultResponse{}, err
	}
	return body, nil
}

func (h *httpVaultClient) ListVaults(ctx context.Context) ([]models.VaultResponse, error) {
	var body []models.VaultResponse
	resp, err := h.request(ctx).
		SetResult(&body).
		Get("/vaults")
	if err != nil {
		return nil, fmt.Errorf("list vaults request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return body, nil
}

func (h *httpVaultClient) DeleteVault(ctx context.Context, vaultID int64) error {
	resp, err := h.request(ctx).Delete(fmt.Sprintf("/vaults/%d", vaultID))
	if err != nil {
		return fmt.Errorf("delete vault request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpVaultClient) UnlockVault(vault models.VaultResponse, masterPassword string) ([]byte, error) {
	vaultKey := h.keys.DeriveVaultKey(masterPassword, vault.Salt)

	ownerToken, err := hex.DecodeString(vault.EncryptedUserID)
	if err != nil {
		return nil, fmt.Errorf("decode vault canary: %w", err)
	}
	if !h.cipher.CheckOwnerToken(vaultKey, ownerToken, vault.OwnerID) {
		return nil, ErrWrongMasterPassword
	}

	return vaultKey, nil
}

// ─────────────────────────────────────────────
// Records
// ─────────────────────────────────────────────

func (h *httpVaultClient) AddRecord(ctx context.Context, vaultID int64, vaultKey []byte, entry models.PasswordEntry) (models.RecordResponse, error) {
	req, err := h.sealEntry(vaultKey, entry)
	if err != nil {
		return models.RecordResponse{}, err
	}

	var body models.RecordResponse
	resp, err := h.request(ctx).
		SetBody(req).
		SetResult(&body).
		Post(fmt.Sprintf("/vaults/%d/passwords", vaultID))
	if err != nil {
		return models.RecordResponse{}, fmt.Errorf("add record request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RecordResponse{}, err
	}
	return body, nil
}

func (h *httpVaultClient) ListRecords(ctx context.Context, vaultID int64) ([]models.RecordResponse, error) {
	var body []models.RecordResponse
	resp, err := h.request(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("/vaults/%d/passwords", vaultID))
	if err != nil {
		return nil, fmt.Errorf("list records request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return body, nil
}

func (h *httpVaultClient) GetRecord(ctx context.Context, vaultID, recordID int64) (models.RecordResponse, error) {
	var body models.RecordResponse
	resp, err := h.request(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("/vaults/%d/passwords/%d", vaultID, recordID))
	if err != nil {
		return models.RecordResponse{}, fmt.Errorf("get record request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RecordResponse{}, err
	}
	return body, nil
}

func (h *httpVaultClient) UpdateRecord(ctx context.Context, vaultID, recordID int64, vaultKey []byte, entry models.PasswordEntry) (models.RecordResponse, error) {
	req, err := h.sealEntry(vaultKey, entry)
	if err != nil {
		return models.RecordResponse{}, err
	}

	var body models.RecordResponse
	resp, err := h.request(ctx).
		SetBody(req).
		SetResult(&body).
		Put(fmt.Sprintf("/vaults/%d/passwords/%d", vaultID, recordID))
	if err != nil {
		return models.RecordResponse{}, fmt.Errorf("update record request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RecordResponse{}, err
	}
	return body, nil
}

func (h *httpVaultClient) DeleteRecord(ctx context.Context, vaultID, recordID int64) error {
	resp, err := h.request(ctx).Delete(fmt.Sprintf("/vaults/%d/passwords/%d", vaultID, recordID))
	if err != nil {
		return fmt.Errorf("delete record request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpVaultClient) DecryptRecord(vaultKey []byte, record models.RecordResponse) (models.PasswordEntry, error) {
	ciphertext, err := hex.DecodeString(record.EncryptedData)
	if err != nil {
		return models.PasswordEntry{}, fmt.Errorf("decode record ciphertext: %w", err)
	}

	plaintext, err := h.cipher.DecryptRecord(vaultKey, ciphertext, record.IV)
	if err != nil {
		return models.PasswordEntry{}, err
	}

	var entry models.PasswordEntry
	if err := json.Unmarshal(plaintext, &entry); err != nil {
		return models.PasswordEntry{}, fmt.Errorf("decode record entry: %w", err)
	}
	return entry, nil
}

// sealEntry encrypts one plaintext entry under the vault key.
func (h *httpVaultClient) sealEntry(vaultKey []byte, entry models.PasswordEntry) (models.RecordRequest, error) {
	plaintext, err := json.Marshal(entry)
	if err != nil {
		return models.RecordRequest{}, fmt.Errorf("encode record entry: %w", err)
	}

	ciphertext, iv, err := h.cipher.EncryptRecord(vaultKey, plaintext)
	if err != nil {
		return models.RecordRequest{}, fmt.Errorf("encrypt record: %w", err)
	}

	return models.RecordRequest{
		EncryptedData: hex.EncodeToString(ciphertext),
		IV:            iv,
	}, nil
}

// ─────────────────────────────────────────────
// Master-password rotation
// ─────────────────────────────────────────────

func (h *httpVaultClient) RotateMasterPassword(ctx context.Context, vault models.VaultResponse, oldPassword, newPassword string) error {
	oldKey, err := h.UnlockVault(vault, oldPassword)
	if err != nil {
		return err
	}
	newKey := h.keys.DeriveVaultKey(newPassword, vault.Salt)

	responses, err := h.ListRecords(ctx, vault.ID)
	if err != nil {
		return err
	}

	records := make([]models.VaultRecord, 0, len(responses))
	for _, rec := range responses {
		ciphertext, decodeErr := hex.DecodeString(rec.EncryptedData)
		if decodeErr != nil {
			return fmt.Errorf("decode record ciphertext: %w", decodeErr)
		}
		records = append(records, models.VaultRecord{
			RecordID:   rec.ID,
			VaultID:    rec.VaultID,
			Ciphertext: ciphertext,
			IV:         rec.IV,
		})
	}

	newOwnerToken, rotated, err := h.cipher.RotateRecords(oldKey, newKey, vault.OwnerID, records)
	if err != nil {
		return fmt.Errorf("rotate records: %w", err)
	}

	passwords := make([]models.RotatedRecord, 0, len(rotated))
	for _, rec := range rotated {
		passwords = append(passwords, models.RotatedRecord{
			ID:            rec.RecordID,
			EncryptedData: hex.EncodeToString(rec.Ciphertext),
			IV:            rec.IV,
		})
	}

	resp, err := h.request(ctx).
		SetBody(models.RotateVaultRequest{
			EncryptedUserID: hex.EncodeToString(newOwnerToken),
			Passwords:       passwords,
		}).
		Post(fmt.Sprintf("/vaults/%d/update-master-password", vault.ID))
	if err != nil {
		return fmt.Errorf("rotate request: %w", err)
	}
	return mapHTTPError(resp)
}
