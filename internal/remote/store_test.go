package remote

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgresql://u:p@db:5432/finance", "postgres://u:p@db:5432/finance?sslmode=disable"},
		{"postgres://db/finance?connect_timeout=5", "postgres://db/finance?connect_timeout=5&sslmode=disable"},
		{"postgres://db/finance?sslmode=require", "postgres://db/finance?sslmode=require"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeURL(tt.in), tt.in)
	}
}

func TestOpenRequiresURL(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}

func TestOpenGivesUp(t *testing.T) {
	// Nothing listens on port 1.
	_, err := OpenWithRetry(context.Background(), "postgres://u:p@127.0.0.1:1/finance", 2, 10*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

// openTestDB connects to TEST_DATABASE_URL or skips.
func openTestDB(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping Postgres integration test")
	}
	migrateDB, err := OpenWithRetry(context.Background(), url, 3, time.Second)
	require.NoError(t, err)
	_, err = Migrate(migrateDB)
	require.NoError(t, err)
	migrateDB.Close()

	db, err := OpenWithRetry(context.Background(), url, 3, time.Second)
	require.NoError(t, err)
	s := NewStore(db)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreIntegration(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	userID := uuid.NewString()

	_, err := s.Fetch(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	first := Row{UserID: userID, Data: json.RawMessage(`{"accounts":[]}`), UpdatedAt: time.Now().UTC().Truncate(time.Millisecond)}
	require.NoError(t, s.Upsert(ctx, first))

	second := Row{UserID: userID, Data: json.RawMessage(`{"accounts":[{"id":"a1"}]}`), UpdatedAt: first.UpdatedAt.Add(time.Minute)}
	require.NoError(t, s.Upsert(ctx, second))

	got, err := s.Fetch(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.JSONEq(t, string(second.Data), string(got.Data), "last write wins")
	assert.True(t, second.UpdatedAt.Equal(got.UpdatedAt))

	again, err := OpenWithRetry(ctx, os.Getenv("TEST_DATABASE_URL"), 1, time.Second)
	require.NoError(t, err)
	defer again.Close()
	applied, err := Migrate(again)
	require.NoError(t, err)
	assert.False(t, applied)
}
