package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/keithsimkin/moneymanager-sub001/internal/localstore"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "cashflow.yaml"

// Config represents the cashflow.yaml configuration. Every field can be
// overridden by its environment variable.
type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	LocalStore LocalStoreConfig `yaml:"local_store"`
	Remote     RemoteConfig     `yaml:"remote"`
	Supabase   SupabaseConfig   `yaml:"supabase"`
	AMQP       AMQPConfig       `yaml:"amqp"`
}

// LocalStoreConfig selects where sync config, session and snapshot live.
type LocalStoreConfig struct {
	Kind       string `yaml:"kind"` // memory, redis or sqlite
	RedisURL   string `yaml:"redis_url,omitempty"`
	SQLitePath string `yaml:"sqlite_path,omitempty"`
}

// RemoteConfig points at the hosted Postgres database.
type RemoteConfig struct {
	DatabaseURL string `yaml:"database_url,omitempty"`
}

// SupabaseConfig holds the auth endpoint and keys.
type SupabaseConfig struct {
	URL         string `yaml:"url,omitempty"`
	AnonKey     string `yaml:"anon_key,omitempty"`
	AccessToken string `yaml:"access_token,omitempty"`
}

// AMQPConfig enables sync event publishing when URL is set.
type AMQPConfig struct {
	URL      string `yaml:"url,omitempty"`
	Exchange string `yaml:"exchange"`
	Queue    string `yaml:"queue"`
}

// Default returns a Config that runs fully locally.
func Default() *Config {
	return &Config{
		Port:     "8080",
		LogLevel: "info",
		LocalStore: LocalStoreConfig{
			Kind:       string(localstore.KindSQLite),
			RedisURL:   "redis:6379",
			SQLitePath: "./data/cashflow.db",
		},
		AMQP: AMQPConfig{
			Exchange: "cashflow",
			Queue:    "snapshot_synced",
		},
	}
}

// Load reads path if it exists, then applies environment overrides.
// A missing file is not an error; an unreadable or malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// env only
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.LocalStore.Kind = getEnv("LOCAL_STORE", c.LocalStore.Kind)
	c.LocalStore.RedisURL = getEnv("REDIS_URL", c.LocalStore.RedisURL)
	c.LocalStore.SQLitePath = getEnv("SQLITE_PATH", c.LocalStore.SQLitePath)

	c.Remote.DatabaseURL = getEnv("DATABASE_URL", c.Remote.DatabaseURL)

	c.Supabase.URL = getEnv("SUPABASE_URL", c.Supabase.URL)
	c.Supabase.AnonKey = getEnv("SUPABASE_ANON_KEY", c.Supabase.AnonKey)
	c.Supabase.AccessToken = getEnv("CASHFLOW_ACCESS_TOKEN", c.Supabase.AccessToken)

	c.AMQP.URL = getEnv("AMQP_URL", c.AMQP.URL)
	c.AMQP.Exchange = getEnv("AMQP_EXCHANGE", c.AMQP.Exchange)
	c.AMQP.Queue = getEnv("AMQP_QUEUE", c.AMQP.Queue)
}

// LocalStoreOptions converts to the localstore package config.
func (c *Config) LocalStoreOptions() localstore.Config {
	return localstore.Config{
		Kind:       localstore.Kind(c.LocalStore.Kind),
		RedisURL:   c.LocalStore.RedisURL,
		SQLitePath: c.LocalStore.SQLitePath,
	}
}

// CloudSyncConfigured reports whether both halves of cloud sync are set.
func (c *Config) CloudSyncConfigured() bool {
	return c.Remote.DatabaseURL != "" && c.Supabase.URL != "" && c.Supabase.AnonKey != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	kind := localstore.Kind(c.LocalStore.Kind)
	if !kind.IsValid() {
		errs = append(errs, fmt.Sprintf("invalid local store '%s': must be one of memory, redis, sqlite", c.LocalStore.Kind))
	}
	if kind == localstore.KindSQLite && c.LocalStore.SQLitePath == "" {
		errs = append(errs, "SQLite path cannot be empty when using sqlite local store")
	}
	if kind == localstore.KindRedis && c.LocalStore.RedisURL == "" {
		errs = append(errs, "Redis URL cannot be empty when using redis local store")
	}

	if c.Supabase.URL != "" {
		if u, err := url.Parse(c.Supabase.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("invalid Supabase URL '%s': must be an http(s) URL", c.Supabase.URL))
		}
		if c.Supabase.AnonKey == "" {
			errs = append(errs, "SUPABASE_ANON_KEY is required when SUPABASE_URL is set")
		}
	}

	if c.AMQP.URL != "" {
		if u, err := url.Parse(c.AMQP.URL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQP.URL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQP.Exchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQP.Queue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
