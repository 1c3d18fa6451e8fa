package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/keithsimkin/moneymanager-sub001/internal/config"
	"github.com/keithsimkin/moneymanager-sub001/internal/localstore"
)

// openLocalStore opens the configured local store and reports the kind it
// actually opened. An unreachable Redis falls back to an in-memory store;
// nothing written then survives a restart.
func openLocalStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (localstore.Store, localstore.Kind, error) {
	opts := cfg.LocalStoreOptions()
	store, err := localstore.Open(ctx, opts)
	if err == nil {
		log.Info().Str("kind", string(opts.Kind)).Msg("Local store ready")
		return store, opts.Kind, nil
	}
	if opts.Kind != localstore.KindRedis {
		return nil, "", fmt.Errorf("failed to open %s local store: %w", opts.Kind, err)
	}

	log.Warn().Err(err).Str("redis_url", opts.RedisURL).Msg("Failed to initialize Redis")
	log.Warn().Msg("Continuing with in-memory local store...")
	return localstore.NewMemory(), localstore.KindMemory, nil
}
