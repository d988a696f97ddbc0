// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/service"
)

// sweeperWorker periodically evicts expired state: session rows in the
// database, pending SRP handshakes, and pending 2FA logins. The TTL stores
// also drop expired entries lazily on access; the sweep keeps abandoned
// entries from piling up in between.
type sweeperWorker struct {
	services *service.Services
	interval time.Duration
	logger   *logger.Logger
}

func newSweeperWorker(services *service.Services, interval time.Duration, logger *logger.Logger) *sweeperWorker {
	return &sweeperWorker{
		services: services,
		interval: interval,
		logger:   logger,
	}
}

func (w *sweeperWorker) Run() {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for range ticker.C {
			w.sweep()
		}
	}()
}

func (w *sweeperWorker) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	sessions, err := w.services.SessionService.SweepExpired(ctx)
	if err != nil {
		w.logger.Error().Err(err).Str("func", "*sweeperWorker.sweep").Msg("session sweep failed")
	}

	handshakes := w.services.AuthService.SweepHandshakes()
	pendingLogins := w.services.TwoFactorService.SweepPending()

	if sessions > 0 || handshakes > 0 || pendingLogins > 0 {
		w.logger.Debug().
			Str("func", "*sweeperWorker.sweep").
			Int64("sessions", sessions).
			Int("handshakes", handshakes).
			Int("pending_logins", pendingLogins).
			Msg("expired state swept")
	}
}
