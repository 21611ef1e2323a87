// Package config loads server settings from the environment, an optional
// .env file and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mcoot/xctimer/internal/api"
	"github.com/mcoot/xctimer/internal/factory"
	"github.com/mcoot/xctimer/internal/persist"
	redisstorage "github.com/mcoot/xctimer/internal/storage/redis"
)

// EnvPrefix is prepended to every environment variable, e.g. XCTIMER_PORT
const EnvPrefix = "XCTIMER"

// Config holds the server settings
type Config struct {
	Addr            string        `mapstructure:"addr"`
	Port            int           `mapstructure:"port"`
	StorageType     string        `mapstructure:"storage_type"`
	RedisURL        string        `mapstructure:"redis_url"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	StorageKey      string        `mapstructure:"storage_key"`
	LogLevel        string        `mapstructure:"log_level"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Options selects the files Load reads in addition to the environment
type Options struct {
	// ConfigFile is a YAML file; empty skips it
	ConfigFile string
	// EnvFile is a dotenv file; a missing file is ignored
	EnvFile string
}

// Load reads the configuration. Environment variables take precedence over
// the config file, and variables already set take precedence over the env file.
func Load(opts Options) (Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", opts.ConfigFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.CORSOrigins = splitOrigins(cfg.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	server := api.DefaultServerConfig()

	v.SetDefault("addr", server.Host)
	v.SetDefault("port", server.Port)
	v.SetDefault("storage_type", factory.StorageTypeMemory)
	v.SetDefault("redis_url", "")
	v.SetDefault("sqlite_path", "")
	v.SetDefault("storage_key", persist.DefaultKey)
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("shutdown_timeout", server.ShutdownTimeout)
}

// splitOrigins accepts both a YAML list and a comma separated env value
func splitOrigins(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, origin := range strings.Split(item, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}

// Validate checks that the selected storage backend has what it needs
func (c Config) Validate() error {
	switch c.StorageType {
	case factory.StorageTypeMemory:
	case factory.StorageTypeRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%s_REDIS_URL required when storage type is redis", EnvPrefix)
		}
	case factory.StorageTypeSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%s_SQLITE_PATH required when storage type is sqlite", EnvPrefix)
		}
	default:
		return fmt.Errorf("invalid storage type %q", c.StorageType)
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Factory converts the settings into a factory configuration
func (c Config) Factory(logger *slog.Logger) factory.Config {
	cfg := factory.Config{
		Logger:      logger,
		StorageType: c.StorageType,
		SQLitePath:  c.SQLitePath,
		StorageKey:  c.StorageKey,
	}
	if c.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

// Server converts the settings into an HTTP server configuration
func (c Config) Server() api.ServerConfig {
	server := api.DefaultServerConfig()
	server.Host = c.Addr
	server.Port = c.Port
	server.ShutdownTimeout = c.ShutdownTimeout
	return server
}
