// Package config loads service configuration from an optional YAML file and
// the environment.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Config holds the full service configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Google  GoogleConfig  `mapstructure:"google"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// GoogleConfig holds Google Maps Platform settings.
type GoogleConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	PhotoMaxWidth   int           `mapstructure:"photo_max_width"`
	UpstreamTimeout time.Duration `mapstructure:"upstream_timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps"`
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	Backend    string        `mapstructure:"backend"` // "memory" or "redis"
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
	Prefix     string        `mapstructure:"prefix"`
	// CleanupInterval is how often the memory backend sweeps expired entries.
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RedisConfig is shared by the redis cache and shown-set backends.
type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

// SessionConfig bounds the shown-restaurant tracker.
type SessionConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Env   string `mapstructure:"env"`
}

// Load reads config.yaml from the working directory (or path, when set) and
// overlays GRUBGUIDE_* environment variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GRUBGUIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Legacy variable names still set by existing deployments.
	_ = v.BindEnv("google.api_key", "GRUBGUIDE_GOOGLE_API_KEY", "GOOGLE_API_KEY")
	_ = v.BindEnv("server.port", "GRUBGUIDE_SERVER_PORT", "PORT")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.request_timeout", 45*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("google.api_key", "")
	v.SetDefault("google.base_url", "https://maps.googleapis.com/maps/api")
	v.SetDefault("google.photo_max_width", 400)
	v.SetDefault("google.upstream_timeout", 10*time.Second)
	v.SetDefault("google.max_retries", 2)
	v.SetDefault("google.rate_limit_rps", 10.0)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.max_entries", 100)
	v.SetDefault("cache.prefix", "grubguide")
	v.SetDefault("cache.cleanup_interval", time.Minute)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.max_entries", 1000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.env", "production")
}

// Validate rejects settings the service cannot start with. A missing Google
// API key is allowed: the endpoints report it per request.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return eris.Errorf("config: unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return eris.New("config: cache.ttl must be positive")
	}
	if c.Cache.MaxEntries <= 0 {
		return eris.New("config: cache.max_entries must be positive")
	}
	if c.Session.MaxEntries <= 0 {
		return eris.New("config: session.max_entries must be positive")
	}
	if c.Server.Port == "" {
		return eris.New("config: server.port is required")
	}
	return nil
}
