// Package localstore persists small string values under fixed keys: the
// sync config, the signed-in session and the dashboard snapshot.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("key not found")

// Store is a string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Kind selects a Store implementation.
type Kind string

const (
	KindMemory Kind = "memory"
	KindRedis  Kind = "redis"
	KindSQLite Kind = "sqlite"
)

// IsValid reports whether k names a supported store.
func (k Kind) IsValid() bool {
	switch k {
	case KindMemory, KindRedis, KindSQLite:
		return true
	}
	return false
}

// Config holds what Open needs for each kind.
type Config struct {
	Kind       Kind
	RedisURL   string
	SQLitePath string
}

// Open creates the configured store and checks that it is reachable.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Kind {
	case KindMemory, "":
		return NewMemory(), nil
	case KindRedis:
		return NewRedis(ctx, cfg.RedisURL)
	case KindSQLite:
		return NewSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported local store %q", cfg.Kind)
	}
}

// Memory is an in-process Store. Data is lost on restart.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
