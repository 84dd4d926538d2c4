package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/aussiebroadwan/tillauth/pkg/cryptox"
	"github.com/aussiebroadwan/tillauth/pkg/jwtx"
)

// InitAuthKeys creates the KeyManager for the configured storage mode.
//
// Storage modes:
//   - "ephemeral": keys are generated on startup and held in memory. Every
//     session ends when the service restarts.
//   - "persistent": keys are sealed with the master key and stored in the
//     database, so sessions survive restarts and every replica verifies the
//     same tokens.
func InitAuthKeys(ctx context.Context, cfg Config, db store.Store, logger *slog.Logger) (*jwtx.KeyManager, error) {
	if cfg.MasterKeyPath != "" {
		cryptox.SetMasterKeyPath(cfg.MasterKeyPath)
		logger.Info("master key path configured", "path", cfg.MasterKeyPath)
	}

	switch cfg.KeyStorageMode {
	case "persistent":
		keyManager, err := jwtx.NewPersistentKeyManager(ctx, jwtx.PersistentKeyManagerOptions{
			Store:       store.NewKeyStoreAdapter(db),
			Algorithm:   cfg.Algorithm,
			Issuer:      cfg.Issuer,
			NumKeys:     cfg.NumKeys,
			Lifetime:    cfg.KeyLifetime,
			GracePeriod: cfg.KeyGracePeriod,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize persistent key manager: %w", err)
		}

		logger.Info("persistent signing keys loaded",
			"algorithm", keyManager.Algorithm(),
			"num_keys", keyManager.NumSigners(),
			"lifetime", cfg.KeyLifetime,
			"grace_period", cfg.KeyGracePeriod,
		)
		return keyManager, nil

	case "ephemeral", "":
		keyManager, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
			Algorithm: cfg.Algorithm,
			Issuer:    cfg.Issuer,
			NumKeys:   cfg.NumKeys,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ephemeral key manager: %w", err)
		}

		logger.Info("generated ephemeral signing keys",
			"algorithm", keyManager.Algorithm(),
			"num_keys", keyManager.NumSigners(),
		)
		logger.Warn("sessions issued before this start are no longer valid")
		return keyManager, nil

	default:
		return nil, fmt.Errorf("unknown AUTH_KEY_STORAGE_MODE %q", cfg.KeyStorageMode)
	}
}
