package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keithsimkin/moneymanager-sub001/internal/finance"
	"github.com/keithsimkin/moneymanager-sub001/internal/ledger"
	"github.com/keithsimkin/moneymanager-sub001/internal/localstore"
)

var configEnv = []string{
	"PORT", "LOG_LEVEL", "LOCAL_STORE", "REDIS_URL", "SQLITE_PATH", "DATABASE_URL",
	"SUPABASE_URL", "SUPABASE_ANON_KEY", "CASHFLOW_ACCESS_TOKEN", "AMQP_URL", "AMQP_EXCHANGE", "AMQP_QUEUE",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "cashflow.db"))
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDemoSnapshot(t *testing.T) {
	data := demoSnapshot(testNow)

	require.Len(t, data.Transactions, len(demoTransactions))
	seen := map[string]bool{}
	for _, tx := range data.Transactions {
		require.NoError(t, tx.Validate())
		assert.False(t, seen[tx.ID], "duplicate id %s", tx.ID)
		seen[tx.ID] = true
	}
	assert.Equal(t, "2024-03-19", data.Transactions[len(data.Transactions)-1].Date)
	assert.Len(t, data.Budgets, 3)
	for _, b := range data.Budgets {
		assert.Equal(t, "2024-03-01", b.StartDate)
	}
	assert.Len(t, data.RecurringPatterns, 2)
}

func TestSeedDemoDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(localstore.NewMemory())

	seeded, err := seedDemoData(ctx, l, testNow)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = seedDemoData(ctx, l, testNow)
	require.NoError(t, err)
	assert.False(t, seeded)

	data, err := l.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, data.Transactions, len(demoTransactions))
}

func TestSeedDemoSkipsExistingData(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(localstore.NewMemory())
	require.NoError(t, l.Replace(ctx, finance.SyncData{Transactions: []finance.Transaction{{ID: "mine"}}}))

	seeded, err := seedDemoData(ctx, l, testNow)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestConfigInitAndShow(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "cashflow.yaml")

	out, err := runCLI(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = runCLI(t, "--config", path, "config", "init")
	assert.ErrorContains(t, err, "already exists")

	t.Setenv("SUPABASE_ANON_KEY", "super-secret")
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	out, err = runCLI(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "port: \"8080\"")
	assert.Contains(t, out, "https://project.supabase.co")
	assert.NotContains(t, out, "super-secret")
}

func TestSyncCommandsWithoutCloud(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := runCLI(t, "--config", path, "sync", "upload")
	assert.EqualError(t, err, "Cloud sync is not configured")

	_, err = runCLI(t, "--config", path, "login", "--email", "ana@example.com", "--password", "pw")
	assert.EqualError(t, err, "Cloud sync is not configured")

	_, err = runCLI(t, "--config", path, "login")
	assert.ErrorContains(t, err, "--email")
}

func TestSyncTogglePersistsWithDefaults(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := runCLI(t, "--config", path, "sync", "enable")
	require.NoError(t, err)

	out, err := runCLI(t, "--config", path, "sync", "status")
	assert.EqualError(t, err, "Cloud sync is not configured")
	assert.Contains(t, out, "Enabled:   true")
	assert.Contains(t, out, "Last sync: never")

	_, err = runCLI(t, "--config", path, "sync", "disable")
	require.NoError(t, err)
	out, _ = runCLI(t, "--config", path, "sync", "status")
	assert.Contains(t, out, "Enabled:   false")
}

func TestSeedDemoPersistsWithDefaults(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := runCLI(t, "--config", path, "seed-demo")
	require.NoError(t, err)

	store, err := localstore.NewSQLite(os.Getenv("SQLITE_PATH"))
	require.NoError(t, err)
	defer store.Close()
	data, err := ledger.New(store).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, data.Transactions, len(demoTransactions))
}
