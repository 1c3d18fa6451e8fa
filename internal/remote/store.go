// Package remote is the hosted per-user snapshot table: one row per user,
// overwritten on every upload.
package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Fetch when the user has never uploaded.
var ErrNotFound = errors.New("no row for user")

// Row is one user_finance_data record. Data holds the snake_case snapshot.
type Row struct {
	UserID    string
	Data      json.RawMessage
	UpdatedAt time.Time
}

// Store reads and writes user_finance_data.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Upsert writes row, replacing any existing row for the same user.
func (s *Store) Upsert(ctx context.Context, row Row) error {
	const query = `
		INSERT INTO user_finance_data (user_id, data, updated_at)
		VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, row.UserID, string(row.Data), row.UpdatedAt); err != nil {
		return fmt.Errorf("upsert user_finance_data: %w", err)
	}
	return nil
}

// Fetch returns the row for userID or ErrNotFound.
func (s *Store) Fetch(ctx context.Context, userID string) (*Row, error) {
	const query = `
		SELECT user_id, data, updated_at
		FROM user_finance_data
		WHERE user_id = $1
	`
	var (
		row  Row
		data []byte
	)
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&row.UserID, &data, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user_finance_data: %w", err)
	}
	row.Data = json.RawMessage(data)
	return &row, nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
