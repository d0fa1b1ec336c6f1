package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	t.Setenv("KODISERV_SERVER_KEY", "abc123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Test server defaults
	if cfg.Server.Port != defaultServerPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, defaultServerPort)
	}
	if cfg.Server.Host != defaultServerHost {
		t.Errorf("Server.Host = %s, want %s", cfg.Server.Host, defaultServerHost)
	}
	if cfg.Server.Key != "abc123" {
		t.Errorf("Server.Key = %s, want abc123", cfg.Server.Key)
	}
	if cfg.Server.Style != defaultServerStyle {
		t.Errorf("Server.Style = %s, want %s", cfg.Server.Style, defaultServerStyle)
	}
	if cfg.Server.RateLimit.RPS != defaultRateLimitRPS {
		t.Errorf("Server.RateLimit.RPS = %v, want %v", cfg.Server.RateLimit.RPS, defaultRateLimitRPS)
	}
	if cfg.Server.RateLimit.Burst != defaultRateLimitBurst {
		t.Errorf("Server.RateLimit.Burst = %d, want %d", cfg.Server.RateLimit.Burst, defaultRateLimitBurst)
	}

	// Test kodi defaults
	if cfg.Kodi.URL != defaultKodiURL {
		t.Errorf("Kodi.URL = %s, want %s", cfg.Kodi.URL, defaultKodiURL)
	}
	if cfg.Kodi.Timeout != defaultKodiTimeout {
		t.Errorf("Kodi.Timeout = %v, want %v", cfg.Kodi.Timeout, defaultKodiTimeout)
	}

	// Test now playing defaults
	if cfg.NowPlaying.Threshold != defaultNowPlayingThreshold {
		t.Errorf("NowPlaying.Threshold = %v, want %v", cfg.NowPlaying.Threshold, defaultNowPlayingThreshold)
	}

	// Test library defaults
	if cfg.Library.FuzzyMatch != defaultLibraryFuzzyMatch {
		t.Errorf("Library.FuzzyMatch = %v, want %v", cfg.Library.FuzzyMatch, defaultLibraryFuzzyMatch)
	}
	if cfg.Library.Cutoff != defaultLibraryCutoff {
		t.Errorf("Library.Cutoff = %v, want %v", cfg.Library.Cutoff, defaultLibraryCutoff)
	}
	if cfg.Library.MaxResults != defaultLibraryMaxResults {
		t.Errorf("Library.MaxResults = %d, want %d", cfg.Library.MaxResults, defaultLibraryMaxResults)
	}

	// Test history defaults
	if cfg.History.Enabled != defaultHistoryEnabled {
		t.Errorf("History.Enabled = %v, want %v", cfg.History.Enabled, defaultHistoryEnabled)
	}
	if cfg.History.Interval != defaultHistoryInterval {
		t.Errorf("History.Interval = %v, want %v", cfg.History.Interval, defaultHistoryInterval)
	}

	// Test database and logging defaults
	if cfg.Database.Path != defaultDatabasePath {
		t.Errorf("Database.Path = %s, want %s", cfg.Database.Path, defaultDatabasePath)
	}
	if cfg.Logging.Level != defaultLogLevel {
		t.Errorf("Logging.Level = %s, want %s", cfg.Logging.Level, defaultLogLevel)
	}
	if cfg.Logging.Pretty != defaultLogPretty {
		t.Errorf("Logging.Pretty = %v, want %v", cfg.Logging.Pretty, defaultLogPretty)
	}
}

func TestLoadRequiresServerKey(t *testing.T) {
	t.Setenv("KODISERV_SERVER_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() error = nil, want missing key error")
	}
	if !strings.Contains(err.Error(), "server key is required") {
		t.Errorf("Load() error = %v, want missing key error", err)
	}
}

func TestConfigEnvVars(t *testing.T) {
	t.Setenv("KODISERV_SERVER_KEY", "secret")
	t.Setenv("KODISERV_SERVER_PORT", "9090")
	t.Setenv("KODISERV_SERVER_RATELIMIT_BURST", "3")
	t.Setenv("KODISERV_KODI_URL", "http://kodi.local:8080/jsonrpc")
	t.Setenv("KODISERV_KODI_USERNAME", "kodi")
	t.Setenv("KODISERV_KODI_PASSWORD", "hunter2")
	t.Setenv("KODISERV_NOWPLAYING_THRESHOLD", "10s")
	t.Setenv("KODISERV_LIBRARY_FUZZYMATCH", "true")
	t.Setenv("KODISERV_LIBRARY_CUTOFF", "0.8")
	t.Setenv("KODISERV_HISTORY_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.RateLimit.Burst != 3 {
		t.Errorf("Server.RateLimit.Burst = %d, want 3", cfg.Server.RateLimit.Burst)
	}
	if cfg.Kodi.URL != "http://kodi.local:8080/jsonrpc" {
		t.Errorf("Kodi.URL = %s, want http://kodi.local:8080/jsonrpc", cfg.Kodi.URL)
	}
	if cfg.Kodi.Username != "kodi" || cfg.Kodi.Password != "hunter2" {
		t.Errorf("Kodi credentials = %s/%s, want kodi/hunter2", cfg.Kodi.Username, cfg.Kodi.Password)
	}
	if cfg.NowPlaying.Threshold != 10*time.Second {
		t.Errorf("NowPlaying.Threshold = %v, want 10s", cfg.NowPlaying.Threshold)
	}
	if !cfg.Library.FuzzyMatch {
		t.Error("Library.FuzzyMatch = false, want true")
	}
	if cfg.Library.Cutoff != 0.8 {
		t.Errorf("Library.Cutoff = %v, want 0.8", cfg.Library.Cutoff)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
}

func validConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:         8989,
			Host:         "0.0.0.0",
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
			Key:          "abc123",
			RateLimit:    RateLimitConfig{RPS: 5, Burst: 10},
		},
		Kodi: KodiConfig{
			URL:     defaultKodiURL,
			Timeout: defaultKodiTimeout,
		},
		NowPlaying: NowPlayingConfig{
			Threshold: defaultNowPlayingThreshold,
			Timeout:   defaultNowPlayingTimeout,
		},
		Library: LibraryConfig{
			Cutoff:     0.6,
			MaxResults: 3,
		},
		History: HistoryConfig{
			Enabled:  true,
			Interval: 30 * time.Second,
		},
		Database: DatabaseConfig{Path: defaultDatabasePath},
		Logging:  LoggingConfig{Level: "info"},
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}, wantErr: false},
		{name: "invalid server port (too low)", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "invalid server port (too high)", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "missing server key", mutate: func(c *Config) { c.Server.Key = "" }, wantErr: true},
		{name: "zero rate limit", mutate: func(c *Config) { c.Server.RateLimit.RPS = 0 }, wantErr: true},
		{name: "zero burst", mutate: func(c *Config) { c.Server.RateLimit.Burst = 0 }, wantErr: true},
		{name: "kodi url without scheme", mutate: func(c *Config) { c.Kodi.URL = "127.0.0.1:8080" }, wantErr: true},
		{name: "zero kodi timeout", mutate: func(c *Config) { c.Kodi.Timeout = 0 }, wantErr: true},
		{name: "zero threshold disables cache", mutate: func(c *Config) { c.NowPlaying.Threshold = 0 }, wantErr: false},
		{name: "negative threshold", mutate: func(c *Config) { c.NowPlaying.Threshold = -time.Second }, wantErr: true},
		{name: "cutoff above one", mutate: func(c *Config) { c.Library.Cutoff = 1.5 }, wantErr: true},
		{name: "zero max results", mutate: func(c *Config) { c.Library.MaxResults = 0 }, wantErr: true},
		{name: "history interval too short", mutate: func(c *Config) { c.History.Interval = 100 * time.Millisecond }, wantErr: true},
		{name: "disabled history ignores interval", mutate: func(c *Config) {
			c.History.Enabled = false
			c.History.Interval = 0
		}, wantErr: false},
		{name: "invalid log level", mutate: func(c *Config) { c.Logging.Level = "invalid" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name  string
		slice []string
		item  string
		want  bool
	}{
		{
			name:  "item exists",
			slice: []string{"one", "two", "three"},
			item:  "two",
			want:  true,
		},
		{
			name:  "item does not exist",
			slice: []string{"one", "two", "three"},
			item:  "four",
			want:  false,
		},
		{
			name:  "empty slice",
			slice: []string{},
			item:  "one",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := contains(tt.slice, tt.item)
			if got != tt.want {
				t.Errorf("contains() = %v, want %v", got, tt.want)
			}
		})
	}
}
