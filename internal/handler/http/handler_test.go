package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/service"
	"github.com/MKhiriev/zero-vault/internal/store"
	"github.com/MKhiriev/zero-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Mocks for the service layer
// ─────────────────────────────────────────────

type mockAuthService struct {
	registerFn    func(ctx context.Context, username, srpSalt, srpVerifier string) (models.Account, error)
	challengeFn   func(ctx context.Context, username string) (string, string, error)
	verifyProofFn func(ctx context.Context, username, clientPublicKey, clientProof string) (string, models.Account, error)
	changePassFn  func(ctx context.Context, accountID int64, srpSalt, srpVerifier string) error
}

func (m *mockAuthService) Register(ctx context.Context, username, srpSalt, srpVerifier string) (models.Account, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, username, srpSalt, srpVerifier)
	}
	return models.Account{AccountID: 1, Username: username}, nil
}

func (m *mockAuthService) BeginChallenge(ctx context.Context, username string) (string, string, error) {
	if m.challengeFn != nil {
		return m.challengeFn(ctx, username)
	}
	return "salt", "serverpub", nil
}

func (m *mockAuthService) VerifyProof(ctx context.Context, username, clientPublicKey, clientProof string) (string, models.Account, error) {
	if m.verifyProofFn != nil {
		return m.verifyProofFn(ctx, username, clientPublicKey, clientProof)
	}
	return "serverproof", models.Account{AccountID: 1, Username: username}, nil
}

func (m *mockAuthService) ChangePassword(ctx context.Context, accountID int64, srpSalt, srpVerifier string) error {
	if m.changePassFn != nil {
		return m.changePassFn(ctx, accountID, srpSalt, srpVerifier)
	}
	return nil
}

func (m *mockAuthService) SweepHandshakes() int { return 0 }

type mockTwoFactorService struct {
	gateFn          func(ctx context.Context, account models.Account) (bool, string, error)
	completeLoginFn func(ctx context.Context, tempToken, code string) (models.Account, error)
}

func (m *mockTwoFactorService) Setup(_ context.Context, _ int64) (string, string, error) {
	return "secret", "otpauth://totp/x", nil
}

func (m *mockTwoFactorService) Enable(_ context.Context, _ int64, _, _ string) error { return nil }

func (m *mockTwoFactorService) Disable(_ context.Context, _ int64, _ string) error { return nil }

func (m *mockTwoFactorService) Gate(ctx context.Context, account models.Account) (bool, string, error) {
	if m.gateFn != nil {
		return m.gateFn(ctx, account)
	}
	return false, "", nil
}

func (m *mockTwoFactorService) CompleteLogin(ctx context.Context, tempToken, code string) (models.Account, error) {
	if m.completeLoginFn != nil {
		return m.completeLoginFn(ctx, tempToken, code)
	}
	return models.Account{AccountID: 1}, nil
}

func (m *mockTwoFactorService) SweepPending() int { return 0 }

type mockSessionService struct {
	issueFn    func(ctx context.Context, accountID int64) (models.Session, error)
	validateFn func(ctx context.Context, token string) (models.Session, error)
	revokeFn   func(ctx context.Context, token string) error
}

func (m *mockSessionService) Issue(ctx context.Context, accountID int64) (models.Session, error) {
	if m.issueFn != nil {
		return m.issueFn(ctx, accountID)
	}
	return models.Session{AccountID: accountID, Token: "issued-token", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (m *mockSessionService) Validate(ctx context.Context, token string) (models.Session, error) {
	if m.validateFn != nil {
		return m.validateFn(ctx, token)
	}
	return models.Session{AccountID: 1, Token: token}, nil
}

func (m *mockSessionService) Revoke(ctx context.Context, token string) error {
	if m.revokeFn != nil {
		return m.revokeFn(ctx, token)
	}
	return nil
}

func (m *mockSessionService) SweepExpired(_ context.Context) (int64, error) { return 0, nil }

type mockVaultService struct {
	listVaultsFn func(ctx context.Context, accountID int64) ([]models.Vault, error)
	rotateFn     func(ctx context.Context, accountID, vaultID int64, ownerTokenHex string, records []models.RotatedRecord) error
}

func (m *mockVaultService) CreateVault(_ context.Context, ownerID int64, name, kdfSalt, _ string) (models.Vault, error) {
	return models.Vault{VaultID: 1, OwnerID: ownerID, Name: name, KDFSalt: kdfSalt}, nil
}

func (m *mockVaultService) ListVaults(ctx context.Context, accountID int64) ([]models.Vault, error) {
	if m.listVaultsFn != nil {
		return m.listVaultsFn(ctx, accountID)
	}
	return nil, nil
}

func (m *mockVaultService) DeleteVault(_ context.Context, _, _ int64) error { return nil }

func (m *mockVaultService) ListRecords(_ context.Context, _, _ int64) ([]models.VaultRecord, error) {
	return nil, nil
}

func (m *mockVaultService) GetRecord(_ context.Context, _, _, _ int64) (models.VaultRecord, error) {
	return models.VaultRecord{}, nil
}

func (m *mockVaultService) AddRecord(_ context.Context, _, _ int64, _, _ string) (models.VaultRecord, error) {
	return models.VaultRecord{}, nil
}

func (m *mockVaultService) UpdateRecord(_ context.Context, _, _, _ int64, _, _ string) (models.VaultRecord, error) {
	return models.VaultRecord{}, nil
}

func (m *mockVaultService) DeleteRecord(_ context.Context, _, _, _ int64) error { return nil }

func (m *mockVaultService) RotateMasterPassword(ctx context.Context, accountID, vaultID int64, ownerTokenHex string, records []models.RotatedRecord) error {
	if m.rotateFn != nil {
		return m.rotateFn(ctx, accountID, vaultID, ownerTokenHex, records)
	}
	return nil
}

func newTestRouter(services *service.Services) http.Handler {
	return NewHandler(services, logger.Nop()).Init()
}

func defaultServices() *service.Services {
	return &service.Services{
		AuthService:      &mockAuthService{},
		TwoFactorService: &mockTwoFactorService{},
		SessionService:   &mockSessionService{},
		VaultService:     &mockVaultService{},
	}
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func TestRegister_IssuesToken(t *testing.T) {
	router := newTestRouter(defaultServices())

	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"username":"alice","srp_salt":"aa","srp_verifier":"bb"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"issued-token"}`, rec.Body.String())
}

func TestRegister_UsernameTaken(t *testing.T) {
	services := defaultServices()
	services.AuthService = &mockAuthService{
		registerFn: func(_ context.Context, _, _, _ string) (models.Account, error) {
			return models.Account{}, store.ErrUsernameTaken
		},
	}
	router := newTestRouter(services)

	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"username":"alice","srp_salt":"aa","srp_verifier":"bb"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestRegister_MalformedJSON(t *testing.T) {
	router := newTestRouter(defaultServices())

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_SecondFactorWithholdsToken(t *testing.T) {
	services := defaultServices()
	services.TwoFactorService = &mockTwoFactorService{
		gateFn: func(_ context.Context, _ models.Account) (bool, string, error) {
			return true, "temp-token", nil
		},
	}
	router := newTestRouter(services)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"alice","client_public_key":"aa","client_proof":"bb"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"requires_2fa":true`)
	assert.Contains(t, body, `"temp_token":"temp-token"`)
	assert.NotContains(t, body, `"token"`)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	services := defaultServices()
	services.AuthService = &mockAuthService{
		verifyProofFn: func(_ context.Context, _, _, _ string) (string, models.Account, error) {
			return "", models.Account{}, service.ErrInvalidCredentials
		},
	}
	router := newTestRouter(services)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"alice","client_public_key":"aa","client_proof":"bb"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ─────────────────────────────────────────────
// Auth middleware
// ─────────────────────────────────────────────

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router := newTestRouter(defaultServices())

	req := httptest.NewRequest(http.MethodGet, "/vaults", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_RejectedToken(t *testing.T) {
	services := defaultServices()
	services.SessionService = &mockSessionService{
		validateFn: func(_ context.Context, _ string) (models.Session, error) {
			return models.Session{}, service.ErrInvalidOrExpiredToken
		},
	}
	router := newTestRouter(services)

	req := httptest.NewRequest(http.MethodGet, "/vaults", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_PropagatesAccountID(t *testing.T) {
	var gotAccountID int64
	services := defaultServices()
	services.SessionService = &mockSessionService{
		validateFn: func(_ context.Context, token string) (models.Session, error) {
			return models.Session{AccountID: 42, Token: token}, nil
		},
	}
	services.VaultService = &mockVaultService{
		listVaultsFn: func(_ context.Context, accountID int64) ([]models.Vault, error) {
			gotAccountID = accountID
			return nil, nil
		},
	}
	router := newTestRouter(services)

	req := httptest.NewRequest(http.MethodGet, "/vaults", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotAccountID)
}

func TestLogout_RevokesPresentedToken(t *testing.T) {
	var revoked string
	services := defaultServices()
	services.SessionService = &mockSessionService{
		revokeFn: func(_ context.Context, token string) error {
			revoked = token
			return nil
		},
	}
	router := newTestRouter(services)

	req := httptest.NewRequest(http.MethodDelete, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sometoken", revoked)
}

// ─────────────────────────────────────────────
// Vault routes
// ─────────────────────────────────────────────

func TestRotate_AccessDenied(t *testing.T) {
	services := defaultServices()
	services.VaultService = &mockVaultService{
		rotateFn: func(_ context.Context, _, _ int64, _ string, _ []models.RotatedRecord) error {
			return service.ErrAccessDenied
		},
	}
	router := newTestRouter(services)

	req := httptest.NewRequest(http.MethodPost, "/vaults/3/update-master-password",
		strings.NewReader(`{"encryptedUserId":"aabb","passwords":[]}`))
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestVaultRoutes_MalformedID(t *testing.T) {
	router := newTestRouter(defaultServices())

	req := httptest.NewRequest(http.MethodDelete, "/vaults/notanumber", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// Error mapping
// ─────────────────────────────────────────────

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", service.ErrValidation, http.StatusBadRequest},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid token", service.ErrInvalidOrExpiredToken, http.StatusUnauthorized},
		{"invalid code", service.ErrInvalidCode, http.StatusUnauthorized},
		{"access denied", service.ErrAccessDenied, http.StatusForbidden},
		{"username taken", store.ErrUsernameTaken, http.StatusConflict},
		{"record missing", store.ErrRecordNotFound, http.StatusNotFound},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}
