package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/keithsimkin/moneymanager-sub001/internal/auth"
	"github.com/keithsimkin/moneymanager-sub001/internal/cloudsync"
	"github.com/keithsimkin/moneymanager-sub001/internal/config"
	"github.com/keithsimkin/moneymanager-sub001/internal/events"
	"github.com/keithsimkin/moneymanager-sub001/internal/ledger"
	"github.com/keithsimkin/moneymanager-sub001/internal/localstore"
	"github.com/keithsimkin/moneymanager-sub001/internal/remote"
)

// app holds everything the handlers and commands share.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	local     localstore.Store
	localKind localstore.Kind // what openLocalStore opened, after any fallback
	ledger    *ledger.Ledger
	sessions  *auth.SessionStore
	auth      *auth.Client // nil when cloud sync is not configured
	remoteDB  *sql.DB
	publisher events.Publisher
	sync      *cloudsync.Service

	now func() time.Time
}

// newApp opens the local store and, when configured, the hosted database,
// the auth client and the event publisher.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, dbRetries int) (*app, error) {
	local, localKind, err := openLocalStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		log:       log,
		local:     local,
		localKind: localKind,
		ledger:    ledger.New(local),
		sessions:  auth.NewSessionStore(local),
		publisher: events.Nop{},
		now:       time.Now,
	}

	// Left as nil interfaces unless configured; a typed nil would look set.
	var (
		authn cloudsync.Authenticator
		store cloudsync.RemoteStore
	)
	if cfg.CloudSyncConfigured() {
		db, err := openRemoteDB(ctx, cfg.Remote.DatabaseURL, dbRetries)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.remoteDB = db
		a.auth = auth.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey,
			auth.WithSessionStore(a.sessions),
			auth.WithStaticToken(cfg.Supabase.AccessToken),
		)
		authn, store = a.auth, remote.NewStore(db)
		log.Info().Str("supabase_url", cfg.Supabase.URL).Msg("Cloud sync enabled")
	} else {
		log.Info().Msg("Cloud sync is not configured")
	}

	if cfg.AMQP.URL != "" {
		pub, err := events.NewAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to AMQP, continuing without sync events")
		} else {
			a.publisher = pub
		}
	}

	a.sync = cloudsync.NewService(authn, store, cloudsync.NewConfigStore(local),
		cloudsync.WithPublisher(a.publisher),
	)
	return a, nil
}

// Close releases every connection newApp opened.
func (a *app) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn().Err(err).Msg("Closing event publisher failed")
		}
	}
	if a.remoteDB != nil {
		if err := a.remoteDB.Close(); err != nil {
			a.log.Warn().Err(err).Msg("Closing database failed")
		}
	}
	if err := a.local.Close(); err != nil {
		a.log.Warn().Err(err).Msg("Closing local store failed")
	}
}
