package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keithsimkin/moneymanager-sub001/internal/localstore"
)

var envKeys = []string{
	"PORT", "LOG_LEVEL", "LOCAL_STORE", "REDIS_URL", "SQLITE_PATH", "DATABASE_URL",
	"SUPABASE_URL", "SUPABASE_ANON_KEY", "CASHFLOW_ACCESS_TOKEN",
	"AMQP_URL", "AMQP_EXCHANGE", "AMQP_QUEUE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.LocalStore.Kind)
	assert.Equal(t, "./data/cashflow.db", cfg.LocalStore.SQLitePath)
	assert.Equal(t, "cashflow", cfg.AMQP.Exchange)
	assert.False(t, cfg.CloudSyncConfigured())
	require.NoError(t, cfg.Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cashflow.yaml")
	content := `
port: "9090"
local_store:
  kind: sqlite
  sqlite_path: /tmp/x.db
remote:
  database_url: postgres://u:p@db:5432/finance
supabase:
  url: https://abc.supabase.co
  anon_key: anon
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("PORT", "7070")
	t.Setenv("LOCAL_STORE", "redis")
	t.Setenv("REDIS_URL", "localhost:6379")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port, "env wins over file")
	assert.Equal(t, "redis", cfg.LocalStore.Kind)
	assert.Equal(t, "/tmp/x.db", cfg.LocalStore.SQLitePath)
	assert.Equal(t, "postgres://u:p@db:5432/finance", cfg.Remote.DatabaseURL)
	assert.True(t, cfg.CloudSyncConfigured())

	opts := cfg.LocalStoreOptions()
	assert.Equal(t, localstore.KindRedis, opts.Kind)
	assert.Equal(t, "localhost:6379", opts.RedisURL)
	require.NoError(t, cfg.Validate())
}

func TestLoadMalformed(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cashflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unterminated"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.Supabase.URL = "https://abc.supabase.co"
	cfg.Supabase.AnonKey = "anon"

	path := filepath.Join(t.TempDir(), "cashflow.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Port = "http" }, "invalid port 'http'"},
		{"port range", func(c *Config) { c.Port = "70000" }, "must be between 1 and 65535"},
		{"bad store", func(c *Config) { c.LocalStore.Kind = "etcd" }, "invalid local store 'etcd'"},
		{"sqlite path", func(c *Config) { c.LocalStore.Kind = "sqlite"; c.LocalStore.SQLitePath = "" }, "SQLite path cannot be empty"},
		{"supabase url", func(c *Config) { c.Supabase.URL = "abc"; c.Supabase.AnonKey = "k" }, "invalid Supabase URL"},
		{"anon key", func(c *Config) { c.Supabase.URL = "https://abc.supabase.co" }, "SUPABASE_ANON_KEY is required"},
		{"amqp scheme", func(c *Config) { c.AMQP.URL = "http://rabbit" }, "invalid AMQP URL scheme 'http'"},
		{"amqp queue", func(c *Config) { c.AMQP.URL = "amqp://rabbit"; c.AMQP.Queue = "" }, "AMQP queue name cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Port = "0"
	cfg.LocalStore.Kind = "etcd"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port 0")
	assert.Contains(t, err.Error(), "invalid local store")
}
