// Package config loads invoice generator settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/dig"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/kvstore"
)

// AppDirName is the directory used under the XDG config and data homes.
const AppDirName = "orca-invoice"

// Config is the full application configuration.
type Config struct {
	Store   StoreConfig   `koanf:"store"`
	Invoice InvoiceConfig `koanf:"invoice"`
	Server  ServerConfig  `koanf:"server"`
	CORS    CORSConfig    `koanf:"cors"`
	Log     LogConfig     `koanf:"log"`
}

// StoreConfig selects where profiles and settings are persisted.
type StoreConfig struct {
	Backend       string `koanf:"backend"        env:"INVOICE_STORE_BACKEND"`
	Path          string `koanf:"path"           env:"INVOICE_STORE_PATH"`
	RedisAddr     string `koanf:"redis_addr"     env:"INVOICE_REDIS_ADDR"`
	RedisPassword string `koanf:"redis_password" env:"INVOICE_REDIS_PASSWORD"`
	RedisDB       int    `koanf:"redis_db"       env:"INVOICE_REDIS_DB"`
	RedisKey      string `koanf:"redis_key"      env:"INVOICE_REDIS_KEY"`
}

// InvoiceConfig holds invoice defaults.
type InvoiceConfig struct {
	BusinessName  string `koanf:"business_name"  env:"INVOICE_BUSINESS_NAME"`
	DefaultFormat string `koanf:"default_format" env:"INVOICE_DEFAULT_FORMAT"`
}

// ServerConfig contains HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	Addr         string `koanf:"addr"          env:"INVOICE_HTTP_ADDR"`
	ReadTimeout  int    `koanf:"read_timeout"  env:"INVOICE_HTTP_READ_TIMEOUT"`
	WriteTimeout int    `koanf:"write_timeout" env:"INVOICE_HTTP_WRITE_TIMEOUT"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	MaxAge         int      `koanf:"max_age"         env:"CORS_MAX_AGE"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `koanf:"level" env:"INVOICE_LOG_LEVEL"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend:  kvstore.BackendFile,
			RedisKey: kvstore.DefaultRedisKey,
		},
		Invoice: InvoiceConfig{DefaultFormat: "xls"},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			MaxAge:         86400,
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/orca-invoice/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppDirName, "config.yaml")
}

// DefaultDataDir returns $XDG_DATA_HOME/orca-invoice.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppDirName)
}

// Load builds the configuration in three layers: defaults, the YAML file at
// path, then environment variables (after reading ./.env when present). A
// missing file is not an error. An empty path selects DefaultConfigPath.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath(cfg.Store.Backend)
	}
	return &cfg, nil
}

// loadFile parses a YAML file into target, silently skipping missing files.
func loadFile(path string, target any) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return err
	}
	return k.Unmarshal("", target)
}

// DefaultStorePath returns the store location used when none is configured.
func DefaultStorePath(backend string) string {
	if backend == kvstore.BackendSQLite {
		return filepath.Join(DefaultDataDir(), "invoice.db")
	}
	return filepath.Join(DefaultDataDir(), "settings.json")
}

// StoreOptions converts the store section for kvstore.Open.
func (c StoreConfig) StoreOptions() kvstore.Options {
	return kvstore.Options{
		Backend:       c.Backend,
		Path:          c.Path,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		RedisKey:      c.RedisKey,
	}
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*StoreConfig
	*InvoiceConfig
	*ServerConfig
	*CORSConfig
	*LogConfig
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Store,
		&cfg.Invoice,
		&cfg.Server,
		&cfg.CORS,
		&cfg.Log,
	}
}
