// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the merged [StructuredConfig] satisfies all
// application invariants before defaults are applied and the config is used
// at startup. Zero values are allowed here; they are filled in later by
// applyDefaults.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	switch cfg.Storage.DB.Driver {
	case "", "pgx", "sqlite3":
	default:
		return ErrInvalidStorageConfigs
	}

	if cfg.App.SessionDuration < 0 || cfg.App.PendingLoginTTL < 0 || cfg.App.HandshakeTTL < 0 {
		return ErrInvalidAppConfigs
	}

	if cfg.Server.RequestTimeout < 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Workers.SweepInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
