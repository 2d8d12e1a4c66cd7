// Package config holds the blogly runtime configuration.
package config

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
)

var AppVersion = "-unset-" // set at build time

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config is the root of the JSON configuration file.
type Config struct {
	Web      WebConfig      `json:"web"`
	Database DatabaseConfig `json:"database"`
}

// WebConfig holds HTTP server settings.
type WebConfig struct {
	ListenAddr      string   `json:"listen_addr"`
	SSL             bool     `json:"ssl"`
	CertFile        string   `json:"cert_file,omitempty"`
	KeyFile         string   `json:"key_file,omitempty"`
	ShutdownTimeout Duration `json:"shutdown_timeout"`
	RecentPosts     int      `json:"recent_posts"` // posts shown on the home page
}

// DatabaseConfig holds connection pool and migration settings.
type DatabaseConfig struct {
	Driver          string   `json:"driver"`
	DSN             string   `json:"dsn"`
	Echo            bool     `json:"echo"` // log every SQL statement
	MaxOpenConns    int      `json:"max_open_conns"`
	MaxIdleConns    int      `json:"max_idle_conns"`
	ConnMaxLifetime Duration `json:"conn_max_lifetime"`
	Migrate         bool     `json:"migrate"` // apply embedded migrations on start
}

// Duration reads "10s" style strings from JSON.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "duration must be a string")
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "parse duration %q", s)
	}
	d.Duration = v
	return nil
}

// NewDefaultConfig returns a configuration that serves a local SQLite file.
func NewDefaultConfig() *Config {
	return &Config{
		Web: WebConfig{
			ListenAddr:      ":5000",
			ShutdownTimeout: Duration{10 * time.Second},
			RecentPosts:     5,
		},
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			DSN:             "blogly.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: Duration{30 * time.Minute},
			Migrate:         true,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Keys missing from the file keep their default value.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	log.Printf("[Config] loaded %s", path)
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return errors.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database dsn is required")
	}
	if c.Web.ListenAddr == "" {
		return errors.New("web listen address is required")
	}
	if c.Web.RecentPosts <= 0 {
		return errors.Errorf("recent_posts must be positive, got %d", c.Web.RecentPosts)
	}
	if c.Web.SSL && (c.Web.CertFile == "" || c.Web.KeyFile == "") {
		return errors.New("ssl requires cert_file and key_file")
	}
	return nil
}
