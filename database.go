package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/keithsimkin/moneymanager-sub001/internal/remote"
)

const (
	// serve waits for the database the way a container start does.
	serveDBRetries = 60
	// one-shot commands fail fast.
	cliDBRetries = 3

	dbRetryDelay = 2 * time.Second
)

// openRemoteDB connects to the hosted database holding user_finance_data.
func openRemoteDB(ctx context.Context, databaseURL string, retries int) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	db, err := remote.OpenWithRetry(ctx, databaseURL, retries, dbRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}
