package cloudsync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/keithsimkin/moneymanager-sub001/internal/finance"
	"github.com/keithsimkin/moneymanager-sub001/internal/localstore"
	"github.com/keithsimkin/moneymanager-sub001/internal/logger"
)

// ConfigKey is where the sync config is persisted.
const ConfigKey = "cashflow_sync_config"

// DefaultConfig is what Get returns when nothing usable is stored.
func DefaultConfig() finance.SyncConfig {
	return finance.SyncConfig{Enabled: false, LastSyncAt: nil}
}

// ConfigStore reads and writes the persisted sync config.
type ConfigStore struct {
	store localstore.Store
}

// NewConfigStore returns a ConfigStore backed by store.
func NewConfigStore(store localstore.Store) *ConfigStore {
	return &ConfigStore{store: store}
}

// Get returns the stored config. A missing key, a read failure or corrupt
// JSON all yield DefaultConfig.
func (s *ConfigStore) Get(ctx context.Context) finance.SyncConfig {
	raw, err := s.store.Get(ctx, ConfigKey)
	if err != nil {
		return DefaultConfig()
	}
	var cfg finance.SyncConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		log := logger.WithComponent(logger.FromContext(ctx), logger.ComponentSync)
		log.Warn().
			Err(err).Msg("Stored sync config is unreadable, using defaults")
		return DefaultConfig()
	}
	return cfg
}

// Save persists cfg.
func (s *ConfigStore) Save(ctx context.Context, cfg finance.SyncConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding sync config: %w", err)
	}
	if err := s.store.Set(ctx, ConfigKey, string(raw)); err != nil {
		return fmt.Errorf("saving sync config: %w", err)
	}
	return nil
}
