// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort          = 8989
	defaultServerHost          = "0.0.0.0"
	defaultReadTimeout         = 30 * time.Second
	defaultWriteTimeout        = 30 * time.Second
	defaultServerStyle         = "body { font-family: sans-serif; } td, th { padding: 0.2em 0.8em; text-align: left; }"
	defaultRateLimitRPS        = 5.0
	defaultRateLimitBurst      = 10
	defaultKodiURL             = "http://127.0.0.1:8080/jsonrpc"
	defaultKodiTimeout         = 5 * time.Second
	defaultNowPlayingThreshold = 5 * time.Second
	defaultNowPlayingTimeout   = 5 * time.Second
	defaultLibraryFuzzyMatch   = false
	defaultLibraryCutoff       = 0.6
	defaultLibraryMaxResults   = 3
	defaultHistoryEnabled      = true
	defaultHistoryInterval     = 30 * time.Second
	defaultDatabasePath        = "./data/kodiserv.db"
	defaultLogLevel            = "info"
	defaultLogPretty           = false
	envPrefix                  = "KODISERV"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Kodi       KodiConfig
	NowPlaying NowPlayingConfig
	Library    LibraryConfig
	History    HistoryConfig
	Database   DatabaseConfig
	Logging    LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Key is the shared secret callers send in the Auth-Key header
	Key       string
	Style     string
	RateLimit RateLimitConfig
}

// RateLimitConfig bounds how often playback commands may be issued
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// KodiConfig holds connection settings for the Kodi JSON-RPC endpoint
type KodiConfig struct {
	URL      string
	Username string
	Password string
	Timeout  time.Duration
}

// NowPlayingConfig controls the now-playing resolver cache
type NowPlayingConfig struct {
	Threshold time.Duration
	Timeout   time.Duration
}

// LibraryConfig controls title matching against the movie library
type LibraryConfig struct {
	FuzzyMatch bool
	Cutoff     float64
	MaxResults int
}

// HistoryConfig controls the background now-playing recorder
type HistoryConfig struct {
	Enabled  bool
	Interval time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/kodiserv")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	// AutomaticEnv only resolves keys viper already knows about, and server.key has no default
	if err := v.BindEnv("server.key"); err != nil {
		return nil, fmt.Errorf("error binding server key: %w", err)
	}
	if err := v.BindEnv("kodi.username"); err != nil {
		return nil, fmt.Errorf("error binding kodi username: %w", err)
	}
	if err := v.BindEnv("kodi.password"); err != nil {
		return nil, fmt.Errorf("error binding kodi password: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)
	v.SetDefault("server.style", defaultServerStyle)
	v.SetDefault("server.ratelimit.rps", defaultRateLimitRPS)
	v.SetDefault("server.ratelimit.burst", defaultRateLimitBurst)

	// Kodi defaults
	v.SetDefault("kodi.url", defaultKodiURL)
	v.SetDefault("kodi.timeout", defaultKodiTimeout)

	// Now playing defaults
	v.SetDefault("nowplaying.threshold", defaultNowPlayingThreshold)
	v.SetDefault("nowplaying.timeout", defaultNowPlayingTimeout)

	// Library defaults
	v.SetDefault("library.fuzzymatch", defaultLibraryFuzzyMatch)
	v.SetDefault("library.cutoff", defaultLibraryCutoff)
	v.SetDefault("library.maxresults", defaultLibraryMaxResults)

	// History defaults
	v.SetDefault("history.enabled", defaultHistoryEnabled)
	v.SetDefault("history.interval", defaultHistoryInterval)

	// Database defaults
	v.SetDefault("database.path", defaultDatabasePath)

	// Logging defaults
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}
	if c.Server.Key == "" {
		return errors.New("server key is required (set KODISERV_SERVER_KEY)")
	}
	if c.Server.RateLimit.RPS <= 0 {
		return fmt.Errorf("invalid rate limit: %v (must be > 0)", c.Server.RateLimit.RPS)
	}
	if c.Server.RateLimit.Burst < 1 {
		return fmt.Errorf("invalid rate limit burst: %d (must be >= 1)", c.Server.RateLimit.Burst)
	}

	u, err := url.Parse(c.Kodi.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid kodi url: %q", c.Kodi.URL)
	}
	if c.Kodi.Timeout <= 0 {
		return fmt.Errorf("invalid kodi timeout: %v (must be > 0)", c.Kodi.Timeout)
	}

	// A zero threshold disables caching, which is allowed
	if c.NowPlaying.Threshold < 0 {
		return fmt.Errorf("invalid now playing threshold: %v (must be >= 0)", c.NowPlaying.Threshold)
	}
	if c.NowPlaying.Timeout <= 0 {
		return fmt.Errorf("invalid now playing timeout: %v (must be > 0)", c.NowPlaying.Timeout)
	}

	if c.Library.Cutoff < 0 || c.Library.Cutoff > 1 {
		return fmt.Errorf("invalid library cutoff: %v (must be between 0 and 1)", c.Library.Cutoff)
	}
	if c.Library.MaxResults < 1 {
		return fmt.Errorf("invalid library max results: %d (must be >= 1)", c.Library.MaxResults)
	}

	if c.History.Enabled && c.History.Interval < time.Second {
		return fmt.Errorf("invalid history interval: %v (must be >= 1s)", c.History.Interval)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
