package config

import (
	"time"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/catalog"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string        `mapstructure:"log_format" yaml:"log_format"`
	Storage           StorageConfig `mapstructure:"storage" yaml:"storage"`
	Display           DisplayConfig `mapstructure:"display" yaml:"display"`
	CORSOrigins       []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
	// SubmitRateLimit caps uploads and submissions per client IP per minute.
	SubmitRateLimit int `mapstructure:"submit_rate_limit" yaml:"submit_rate_limit"`
	// WSRateLimit caps inbound frames per connection per minute.
	WSRateLimit int             `mapstructure:"ws_rate_limit" yaml:"ws_rate_limit"`
	Events      []catalog.Event `mapstructure:"events" yaml:"events"`
}

// StorageConfig selects the slot store backend.
type StorageConfig struct {
	Driver     string `mapstructure:"driver" yaml:"driver"`
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	RedisAddr  string `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisDB    int    `mapstructure:"redis_db" yaml:"redis_db"`
	// QuotaBytes caps the total slot size. Zero means unlimited.
	QuotaBytes int64 `mapstructure:"quota_bytes" yaml:"quota_bytes"`
}

// DisplayConfig is the initial state of the display.
type DisplayConfig struct {
	DefaultRoom      string        `mapstructure:"default_room" yaml:"default_room"`
	RotationInterval time.Duration `mapstructure:"rotation_interval" yaml:"rotation_interval"`
	Timezone         string        `mapstructure:"timezone" yaml:"timezone"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
		Storage: StorageConfig{
			Driver:     DriverSQLite,
			SQLitePath: "msjs.db",
			RedisAddr:  "localhost:6379",
			QuotaBytes: 5 << 20,
		},
		Display: DisplayConfig{
			DefaultRoom:      "boda",
			RotationInterval: 10 * time.Second,
		},
		CORSOrigins:     []string{"*"},
		SubmitRateLimit: 30,
		WSRateLimit:     120,
		Events:          catalog.Defaults(),
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.Storage.Driver != "" {
		c.Storage.Driver = other.Storage.Driver
	}
	if other.Storage.SQLitePath != "" {
		c.Storage.SQLitePath = other.Storage.SQLitePath
	}
	if other.Storage.RedisAddr != "" {
		c.Storage.RedisAddr = other.Storage.RedisAddr
	}
	if other.Storage.QuotaBytes != 0 {
		c.Storage.QuotaBytes = other.Storage.QuotaBytes
	}
	if other.Display.DefaultRoom != "" {
		c.Display.DefaultRoom = other.Display.DefaultRoom
	}
	if other.Display.RotationInterval != 0 {
		c.Display.RotationInterval = other.Display.RotationInterval
	}
	if other.Display.Timezone != "" {
		c.Display.Timezone = other.Display.Timezone
	}
	if other.SubmitRateLimit != 0 {
		c.SubmitRateLimit = other.SubmitRateLimit
	}
	if other.WSRateLimit != 0 {
		c.WSRateLimit = other.WSRateLimit
	}
	if len(other.CORSOrigins) > 0 {
		c.CORSOrigins = other.CORSOrigins
	}
	if len(other.Events) > 0 {
		c.Events = other.Events
	}
}

// Location resolves the display timezone. An empty name is time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Display.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Display.Timezone)
}
