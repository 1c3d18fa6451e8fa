package remote

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/keithsimkin/moneymanager-sub001/internal/logger"
)

const (
	defaultMaxRetries = 60
	defaultRetryDelay = 2 * time.Second
)

// NormalizeURL rewrites postgresql:// to postgres:// and adds
// sslmode=disable when no sslmode is present.
func NormalizeURL(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "postgresql:") {
		databaseURL = "postgres" + databaseURL[len("postgresql"):]
	}
	if databaseURL != "" && !strings.Contains(databaseURL, "sslmode=") {
		separator := "?"
		if strings.Contains(databaseURL, "?") {
			separator = "&"
		}
		databaseURL = databaseURL + separator + "sslmode=disable"
	}
	return databaseURL
}

// Open connects to the hosted database, waiting for it to become ready.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	return OpenWithRetry(ctx, databaseURL, defaultMaxRetries, defaultRetryDelay)
}

// OpenWithRetry is Open with an explicit retry budget.
func OpenWithRetry(ctx context.Context, databaseURL string, maxRetries int, retryDelay time.Duration) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}
	config, err := pgx.ParseConfig(NormalizeURL(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	log := logger.WithComponent(logger.FromContext(ctx), logger.ComponentRemote)

	if maxRetries < 1 {
		maxRetries = 1
	}
	for i := 0; i < maxRetries; i++ {
		db := stdlib.OpenDB(*config)
		err := db.PingContext(ctx)
		if err == nil {
			log.Info().Str("host", config.Host).Msg("Database connection established")
			return db, nil
		}
		db.Close()

		if i == maxRetries-1 {
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
		}
		// Log the actual error on the first few attempts and every 10th after
		event := log.Warn().Dur("retry_in", retryDelay).Int("attempt", i+1).Int("max_attempts", maxRetries)
		if i%10 == 0 || i < 5 {
			event = event.Err(err)
		}
		event.Msg("Database not ready, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("failed to connect to database")
}
