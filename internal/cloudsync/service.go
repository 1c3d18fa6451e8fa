// Package cloudsync uploads and downloads the dashboard snapshot to the
// hosted per-user table. Every operation reports its outcome in a result
// value instead of returning an error.
package cloudsync

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/keithsimkin/moneymanager-sub001/internal/auth"
	"github.com/keithsimkin/moneymanager-sub001/internal/casing"
	"github.com/keithsimkin/moneymanager-sub001/internal/events"
	"github.com/keithsimkin/moneymanager-sub001/internal/finance"
	"github.com/keithsimkin/moneymanager-sub001/internal/logger"
	"github.com/keithsimkin/moneymanager-sub001/internal/remote"
)

// Messages surfaced to callers.
const (
	MsgNotConfigured    = "Cloud sync is not configured"
	MsgNotAuthenticated = "Not authenticated. Please sign in first."
	MsgNoSession        = "Not authenticated"
	MsgNoCloudData      = "No cloud data found. Upload your data first."
)

// Authenticator resolves the signed-in user for a request.
type Authenticator interface {
	CurrentUser(ctx context.Context) (*auth.User, error)
}

// RemoteStore is the hosted one-row-per-user table.
type RemoteStore interface {
	Upsert(ctx context.Context, row remote.Row) error
	Fetch(ctx context.Context, userID string) (*remote.Row, error)
}

// Result is the outcome of an upload.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DownloadResult is the outcome of a download. Data is set on success.
type DownloadResult struct {
	Success bool              `json:"success"`
	Data    *finance.SyncData `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// ConnectionStatus reports whether sync can run for the current session.
type ConnectionStatus struct {
	Connected bool   `json:"connected"`
	UserID    string `json:"userId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Service coordinates auth, the remote table and the local sync config.
// Concurrent uploads are not serialized; the remote upsert keeps the last.
type Service struct {
	auth      Authenticator
	remote    RemoteStore
	configs   *ConfigStore
	publisher events.Publisher
	schema    *casing.Schema
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sends a SnapshotSynced event after each successful upload.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds a Service. a and r may be nil when cloud sync is not
// configured; every operation then reports MsgNotConfigured.
func NewService(a Authenticator, r RemoteStore, configs *ConfigStore, opts ...Option) *Service {
	s := &Service{
		auth:      a,
		remote:    r,
		configs:   configs,
		publisher: events.Nop{},
		schema:    casing.NewSchema(finance.SyncData{}),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether both auth and the remote store are available.
func (s *Service) Configured() bool {
	return s.auth != nil && s.remote != nil
}

// Config returns the persisted sync config.
func (s *Service) Config(ctx context.Context) finance.SyncConfig {
	return s.configs.Get(ctx)
}

// SaveConfig persists cfg.
func (s *Service) SaveConfig(ctx context.Context, cfg finance.SyncConfig) error {
	return s.configs.Save(ctx, cfg)
}

func (s *Service) log(ctx context.Context) zerolog.Logger {
	return logger.WithComponent(logger.FromContext(ctx), logger.ComponentSync)
}

// CheckConnection reports the signed-in user, or why there is none.
func (s *Service) CheckConnection(ctx context.Context) ConnectionStatus {
	if !s.Configured() {
		return ConnectionStatus{Error: MsgNotConfigured}
	}
	user, err := s.auth.CurrentUser(ctx)
	switch {
	case errors.Is(err, auth.ErrNotSignedIn), err == nil && user == nil:
		return ConnectionStatus{Error: MsgNoSession}
	case err != nil:
		log := s.log(ctx)
		log.Warn().Err(err).Msg("Connection check failed")
		return ConnectionStatus{Error: err.Error()}
	}
	return ConnectionStatus{Connected: true, UserID: user.ID}
}

// Upload stamps data with the current time and overwrites the user's row.
// On success the local config's LastSyncAt is advanced.
func (s *Service) Upload(ctx context.Context, data finance.SyncData) Result {
	log := s.log(ctx)
	if !s.Configured() {
		return Result{Error: MsgNotConfigured}
	}

	user, err := s.auth.CurrentUser(ctx)
	if err != nil || user == nil {
		log.Info().AnErr("auth_error", err).Msg("Upload refused without a session")
		return Result{Error: MsgNotAuthenticated}
	}

	now := s.now().UTC()
	data.SyncedAt = &now
	data.Normalize()

	payload, err := s.schema.MarshalSnake(data)
	if err != nil {
		log.Error().Err(err).Msg("Encoding snapshot failed")
		return Result{Error: err.Error()}
	}

	err = s.remote.Upsert(ctx, remote.Row{UserID: user.ID, Data: payload, UpdatedAt: now})
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Upload failed")
		return Result{Error: err.Error()}
	}

	cfg := s.configs.Get(ctx)
	cfg.LastSyncAt = &now
	if err := s.configs.Save(ctx, cfg); err != nil {
		// The cloud copy is written; only the local timestamp is stale.
		log.Warn().Err(err).Msg("Recording last sync time failed")
	}

	if err := s.publisher.PublishSnapshotSynced(ctx, events.NewSnapshotSynced(user.ID, now, data)); err != nil {
		log.Warn().Err(err).Msg("Publishing sync event failed")
	}

	log.Info().
		Str("user_id", user.ID).
		Int("transactions", len(data.Transactions)).
		Int("bytes", len(payload)).
		Msg("Snapshot uploaded")
	return Result{Success: true}
}

// Download fetches the user's row and decodes it into a snapshot.
func (s *Service) Download(ctx context.Context) DownloadResult {
	log := s.log(ctx)
	if !s.Configured() {
		return DownloadResult{Error: MsgNotConfigured}
	}

	user, err := s.auth.CurrentUser(ctx)
	if err != nil || user == nil {
		log.Info().AnErr("auth_error", err).Msg("Download refused without a session")
		return DownloadResult{Error: MsgNotAuthenticated}
	}

	row, err := s.remote.Fetch(ctx, user.ID)
	if errors.Is(err, remote.ErrNotFound) {
		return DownloadResult{Error: MsgNoCloudData}
	}
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Download failed")
		return DownloadResult{Error: err.Error()}
	}

	var data finance.SyncData
	if err := s.schema.UnmarshalSnake(row.Data, &data); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Cloud snapshot is unreadable")
		return DownloadResult{Error: err.Error()}
	}
	data.Normalize()

	log.Info().
		Str("user_id", user.ID).
		Int("transactions", len(data.Transactions)).
		Msg("Snapshot downloaded")
	return DownloadResult{Success: true, Data: &data}
}
