package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/srp-challenge", h.srpChallenge)
		r.Post("/auth/login", h.login)
		r.Post("/auth/verify-2fa", h.verifyTwoFactor)
	})

	// routes behind a bearer session
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Put("/auth/password", h.changePassword)
		r.Delete("/auth/logout", h.logout)
		r.Post("/auth/2fa/setup", h.setupTwoFactor)
		r.Post("/auth/2fa/enable", h.enableTwoFactor)
		r.Post("/auth/2fa/disable", h.disableTwoFactor)

		r.Post("/vaults", h.createVault)
		r.Get("/vaults", h.listVaults)
		r.Delete("/vaults/{vaultID}", h.deleteVault)

		r.Get("/vaults/{vaultID}/passwords", h.listRecords)
		r.Post("/vaults/{vaultID}/passwords", h.addRecord)
		r.Get("/vaults/{vaultID}/passwords/{passwordID}", h.getRecord)
		r.Put("/vaults/{vaultID}/passwords/{passwordID}", h.updateRecord)
		r.Delete("/vaults/{vaultID}/passwords/{passwordID}", h.deleteRecord)

		r.Post("/vaults/{vaultID}/update-master-password", h.rotateMasterPassword)
	})

	return router
}
