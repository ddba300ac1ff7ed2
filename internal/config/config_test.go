package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if key, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(key, envPrefix+"_") {
			t.Setenv(key, "")
		}
	}
	t.Chdir(t.TempDir())
}

func TestLoad_UsesDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("unexpected API base URL: %s", cfg.APIBaseURL)
	}
	if cfg.PageSize != 20 || cfg.TruncateLines != 3 || cfg.PrefetchScreens != 2.5 {
		t.Fatalf("unexpected paging defaults: %+v", cfg)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Fatalf("unexpected fetch timeout: %s", cfg.FetchTimeout)
	}
	if cfg.Cache.Backend != "file" || !cfg.Cache.Dedupe || cfg.Cache.MemoryEntries != 256 || cfg.Cache.MaxConcurrent != 6 {
		t.Fatalf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if filepath.Base(cfg.Cache.Dir) != "AvatarCache" {
		t.Fatalf("unexpected cache dir: %s", cfg.Cache.Dir)
	}
	if cfg.Log.Path != "" || cfg.Log.Level != "info" {
		t.Fatalf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("REVIEWS_PAGE_SIZE", "30")
	t.Setenv("REVIEWS_CACHE_BACKEND", "redis")
	t.Setenv("REVIEWS_CACHE_DEDUPE", "false")
	t.Setenv("REVIEWS_CACHE_REDIS_TTL", "1h")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PageSize != 30 {
		t.Fatalf("expected page size from env, got %d", cfg.PageSize)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.Dedupe {
		t.Fatalf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Cache.Redis.TTL != time.Hour {
		t.Fatalf("unexpected redis ttl: %s", cfg.Cache.Redis.TTL)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "reviews.yaml")
	data := `
api_base_url: https://reviews.example.com/api
truncate_lines: 5
cache:
  backend: sqlite
  sqlite_path: /tmp/assets.db
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != "https://reviews.example.com/api" || cfg.TruncateLines != 5 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Cache.Backend != "sqlite" || cfg.Cache.SQLitePath != "/tmp/assets.db" {
		t.Fatalf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Cache.MemoryEntries != 256 {
		t.Fatal("expected defaults for keys missing from the file")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolateEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func validConfig() Config {
	return Config{
		APIBaseURL:      "https://reviews.example.com",
		PageSize:        20,
		TruncateLines:   3,
		PrefetchScreens: 2.5,
		FetchTimeout:    time.Second,
		Cache: CacheConfig{
			Backend:       "file",
			Dir:           "/tmp/cache",
			MemoryEntries: 10,
			MaxConcurrent: 2,
		},
		Log: LogConfig{Level: "info"},
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"trailing slash", func(c *Config) { c.APIBaseURL += "/" }, "api_base_url"},
		{"not a url", func(c *Config) { c.APIBaseURL = "reviews" }, "api_base_url"},
		{"page size", func(c *Config) { c.PageSize = 0 }, "page_size"},
		{"truncate", func(c *Config) { c.TruncateLines = -1 }, "truncate_lines"},
		{"prefetch", func(c *Config) { c.PrefetchScreens = 0 }, "prefetch_screens"},
		{"backend", func(c *Config) { c.Cache.Backend = "s3" }, "cache.backend"},
		{"redis addr", func(c *Config) { c.Cache.Backend = "redis" }, "cache.redis.addr"},
		{"memory", func(c *Config) { c.Cache.MemoryEntries = 0 }, "cache.memory_entries"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error mentioning %q, got %v", tc.name, tc.want, err)
		}
	}
}
