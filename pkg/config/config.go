// Package config loads mindgrid configuration from a TOML file with
// environment variable overrides. A .env file in the working directory is
// honored so local development doesn't need exported variables.
//
// Precedence, lowest to highest: built-in defaults, TOML file, environment.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/mindgrid/pkg/cache"
	"github.com/matzehuels/mindgrid/pkg/errors"
)

// Cache backend names accepted in configuration.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full application configuration.
type Config struct {
	Upstream UpstreamConfig `toml:"upstream"`
	Server   ServerConfig   `toml:"server"`
	Cache    CacheConfig    `toml:"cache"`
}

// UpstreamConfig configures the AI generation service client.
type UpstreamConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

// ServerConfig configures the API server.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"` // file, redis, or none
	Dir           string `toml:"dir"`     // file backend; empty uses ~/.cache/mindgrid
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Upstream: UpstreamConfig{
			BaseURL: "https://ai.mindgrid.dev",
			Model:   "gpt-4.1",
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		Cache: CacheConfig{
			Backend: BackendFile,
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path (when
// path is empty, ~/.config/mindgrid/config.toml is tried; a missing file is
// not an error), then environment overrides. A .env file is loaded first if
// present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		if base, err := os.UserConfigDir(); err == nil {
			path = filepath.Join(base, "mindgrid", "config.toml")
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Environment variable names recognized by applyEnv.
const (
	envUpstreamURL   = "MINDGRID_UPSTREAM_URL"
	envAPIKey        = "MINDGRID_API_KEY"
	envModel         = "MINDGRID_MODEL"
	envListenAddr    = "MINDGRID_LISTEN_ADDR"
	envCacheBackend  = "MINDGRID_CACHE_BACKEND"
	envCacheDir      = "MINDGRID_CACHE_DIR"
	envRedisAddr     = "MINDGRID_REDIS_ADDR"
	envRedisPassword = "MINDGRID_REDIS_PASSWORD"
	envRedisDB       = "MINDGRID_REDIS_DB"
)

func applyEnv(cfg *Config) {
	setString(&cfg.Upstream.BaseURL, envUpstreamURL)
	setString(&cfg.Upstream.APIKey, envAPIKey)
	setString(&cfg.Upstream.Model, envModel)
	setString(&cfg.Server.ListenAddr, envListenAddr)
	setString(&cfg.Cache.Backend, envCacheBackend)
	setString(&cfg.Cache.Dir, envCacheDir)
	setString(&cfg.Cache.RedisAddr, envRedisAddr)
	setString(&cfg.Cache.RedisPassword, envRedisPassword)
	if v := os.Getenv(envRedisDB); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.RedisDB = db
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// NewCache constructs the configured cache backend.
func (c CacheConfig) NewCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		return cache.NewRedisCache(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
	case BackendFile, "":
		dir := c.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = filepath.Join(home, ".cache", "mindgrid")
		}
		return cache.NewFileCache(dir)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"invalid cache backend %q (must be one of: file, redis, none)", c.Backend)
	}
}
