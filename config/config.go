package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the configuration.
const (
	DefaultHTTPPort        = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRateCapacity    = 5
	DefaultRateRefill      = time.Minute
	DefaultCacheTTL        = 10 * time.Minute
	DefaultSQLitePath      = "capstack.db"
)

// Backend names accepted by cache.backend and storage.backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Cache     CacheConfig     `yaml:"cache"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	HTTPPort        int           `yaml:"http_port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RateLimitConfig grants each client Capacity calculation requests per Refill.
type RateLimitConfig struct {
	Capacity int           `yaml:"capacity"`
	Refill   time.Duration `yaml:"refill"`
}

type CacheConfig struct {
	// Backend is one of: memory | redis.
	Backend   string `yaml:"backend"`
	RedisAddr string `yaml:"redis_addr"`

	// PasswordEnv names the environment variable holding the redis password.
	PasswordEnv string `yaml:"password_env"`

	// TTL applies to cached entries of either backend; zero keeps them until evicted.
	TTL time.Duration `yaml:"ttl"`
}

// Password returns the redis password resolved from the environment.
func (c CacheConfig) Password() string {
	if c.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(c.PasswordEnv)
}

type StorageConfig struct {
	// Backend is one of: memory | sqlite.
	Backend    string `yaml:"backend"`
	SQLitePath string `yaml:"sqlite_path"`
}

type LogConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`
	// Format is one of: json | text.
	Format string `yaml:"format"`
}

// SlogLevel converts Level to a slog.Level. validate guarantees it parses.
func (l LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Load reads and parses the config file at path. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config pre-populated with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        DefaultHTTPPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		RateLimit: RateLimitConfig{
			Capacity: DefaultRateCapacity,
			Refill:   DefaultRateRefill,
		},
		Cache: CacheConfig{
			Backend: BackendMemory,
			TTL:     DefaultCacheTTL,
		},
		Storage: StorageConfig{
			Backend:    BackendMemory,
			SQLitePath: DefaultSQLitePath,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	for name, d := range map[string]time.Duration{
		"server.read_timeout":     cfg.Server.ReadTimeout,
		"server.write_timeout":    cfg.Server.WriteTimeout,
		"server.idle_timeout":     cfg.Server.IdleTimeout,
		"server.shutdown_timeout": cfg.Server.ShutdownTimeout,
		"cache.ttl":               cfg.Cache.TTL,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}

	if cfg.RateLimit.Capacity < 1 {
		return fmt.Errorf("rate_limit.capacity must be at least 1")
	}
	if cfg.RateLimit.Refill <= 0 {
		return fmt.Errorf("rate_limit.refill must be positive")
	}

	switch cfg.Cache.Backend {
	case BackendMemory:
	case BackendRedis:
		if cfg.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required when cache.backend is redis")
		}
	default:
		return fmt.Errorf("cache.backend %q unknown: want memory|redis", cfg.Cache.Backend)
	}

	switch cfg.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if cfg.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required when storage.backend is sqlite")
		}
	default:
		return fmt.Errorf("storage.backend %q unknown: want memory|sqlite", cfg.Storage.Backend)
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return fmt.Errorf("log.level %q unknown: want debug|info|warn|error", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q unknown: want json|text", cfg.Log.Format)
	}
	return nil
}
