package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix         = "REVIEWS"
	defaultAPIBaseURL = "http://127.0.0.1:8080"
	appDirName        = "reviews-feed"
)

// Config holds runtime settings for the reviews app.
type Config struct {
	APIBaseURL      string        `mapstructure:"api_base_url"`
	PageSize        int           `mapstructure:"page_size"`
	TruncateLines   int           `mapstructure:"truncate_lines"`
	PrefetchScreens float64       `mapstructure:"prefetch_screens"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`

	Cache CacheConfig `mapstructure:"cache"`
	Log   LogConfig   `mapstructure:"log"`
	Serve ServeConfig `mapstructure:"serve"`
}

// CacheConfig selects and tunes the image cache tiers.
type CacheConfig struct {
	Backend       string      `mapstructure:"backend"` // file, sqlite or redis
	Dir           string      `mapstructure:"dir"`
	SQLitePath    string      `mapstructure:"sqlite_path"`
	MemoryEntries int         `mapstructure:"memory_entries"`
	Dedupe        bool        `mapstructure:"dedupe"`
	MaxConcurrent int         `mapstructure:"max_concurrent"`
	Redis         RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"` // 0 keeps entries forever
}

type LogConfig struct {
	Path  string `mapstructure:"path"` // empty discards logs
	Level string `mapstructure:"level"`
}

// ServeConfig configures the development review provider.
type ServeConfig struct {
	Addr    string `mapstructure:"addr"`
	Fixture string `mapstructure:"fixture"` // empty serves the bundled reviews
	Images  string `mapstructure:"images"`  // empty serves generated images
}

func setDefaults(v *viper.Viper) {
	base := defaultBaseDir()
	v.SetDefault("api_base_url", defaultAPIBaseURL)
	v.SetDefault("page_size", 20)
	v.SetDefault("truncate_lines", 3)
	v.SetDefault("prefetch_screens", 2.5)
	v.SetDefault("fetch_timeout", 10*time.Second)

	v.SetDefault("cache.backend", "file")
	v.SetDefault("cache.dir", filepath.Join(base, "AvatarCache"))
	v.SetDefault("cache.sqlite_path", filepath.Join(base, "assets.db"))
	v.SetDefault("cache.memory_entries", 256)
	v.SetDefault("cache.dedupe", true)
	v.SetDefault("cache.max_concurrent", 6)
	v.SetDefault("cache.redis.addr", "127.0.0.1:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.ttl", time.Duration(0))

	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")

	v.SetDefault("serve.addr", "127.0.0.1:8080")
	v.SetDefault("serve.fixture", "")
	v.SetDefault("serve.images", "")
}

func defaultBaseDir() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		return filepath.Join(".cache", appDirName)
	}
	return filepath.Join(dir, appDirName)
}

// Load reads defaults, then the config file, then REVIEWS_* environment
// variables. An empty path searches ./config.yaml and the user config dir.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appDirName))
		}
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api_base_url is required")
	}
	if strings.HasSuffix(c.APIBaseURL, "/") {
		return fmt.Errorf("api_base_url must not end with '/': %s", c.APIBaseURL)
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_base_url must be an http or https URL: %s", c.APIBaseURL)
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("page_size must be between 1 and 100: %d", c.PageSize)
	}
	if c.TruncateLines < 0 {
		return fmt.Errorf("truncate_lines must not be negative: %d", c.TruncateLines)
	}
	if c.PrefetchScreens <= 0 {
		return fmt.Errorf("prefetch_screens must be positive: %v", c.PrefetchScreens)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive: %s", c.FetchTimeout)
	}

	switch c.Cache.Backend {
	case "file":
		if c.Cache.Dir == "" {
			return errors.New("cache.dir is required for the file backend")
		}
	case "sqlite":
		if c.Cache.SQLitePath == "" {
			return errors.New("cache.sqlite_path is required for the sqlite backend")
		}
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return errors.New("cache.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend must be file, sqlite or redis: %s", c.Cache.Backend)
	}
	if c.Cache.MemoryEntries < 1 {
		return fmt.Errorf("cache.memory_entries must be positive: %d", c.Cache.MemoryEntries)
	}
	if c.Cache.MaxConcurrent < 1 {
		return fmt.Errorf("cache.max_concurrent must be positive: %d", c.Cache.MaxConcurrent)
	}
	if c.Cache.Redis.TTL < 0 {
		return fmt.Errorf("cache.redis.ttl must not be negative: %s", c.Cache.Redis.TTL)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error: %s", c.Log.Level)
	}
	return nil
}
