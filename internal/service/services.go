package service

import (
	"github.com/MKhiriev/zero-vault/internal/config"
	"github.com/MKhiriev/zero-vault/internal/crypto"
	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/store"
	"github.com/MKhiriev/zero-vault/models"
)

// Services aggregates every business-logic service of the application.
type Services struct {
	AuthService
	TwoFactorService
	SessionService
	VaultService
}

// NewServices wires the services to their repositories. The SRP handshake
// and pending-login stores are in-memory and owned by the services; their
// TTLs come from the application config.
func NewServices(storages *store.Storages, cfg config.StructuredConfig, log *logger.Logger) *Services {
	handshakes := store.NewMemoryPendingStore[*crypto.SRPServer](cfg.App.HandshakeTTL)
	pendingLogins := store.NewMemoryPendingStore[models.PendingLogin](cfg.App.PendingLoginTTL)

	return &Services{
		AuthService:      NewAuthService(storages.AccountRepository, handshakes, log),
		TwoFactorService: NewTwoFactorService(storages.AccountRepository, pendingLogins, cfg.App.TOTPIssuer, log),
		SessionService:   NewSessionService(storages.SessionRepository, cfg.App.SessionDuration, log),
		VaultService:     NewVaultService(storages.VaultRepository, storages.RecordRepository, log),
	}
}
