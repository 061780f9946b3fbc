package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Acquire    AcquireConfig    `yaml:"acquire" mapstructure:"acquire"`
	Providers  ProvidersConfig  `yaml:"providers" mapstructure:"providers"`
	RateLimit  RateLimitConfig  `yaml:"ratelimit" mapstructure:"ratelimit"`
	Quality    QualityConfig    `yaml:"quality" mapstructure:"quality"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Revalidate RevalidateConfig `yaml:"revalidate" mapstructure:"revalidate"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string `yaml:"backend" mapstructure:"backend"`
	RedisAddr     string `yaml:"redis_addr" mapstructure:"redis_addr"`
	RedisPassword string `yaml:"redis_password" mapstructure:"redis_password"`
	RedisDB       int    `yaml:"redis_db" mapstructure:"redis_db"`
	SQLitePath    string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	DatabaseURL   string `yaml:"database_url" mapstructure:"database_url"`
}

// AcquireConfig sets the engine's per-request defaults.
type AcquireConfig struct {
	MinResults          int `yaml:"min_results" mapstructure:"min_results"`
	MaxResultsPerLevel  int `yaml:"max_results_per_level" mapstructure:"max_results_per_level"`
	BulkQuota           int `yaml:"bulk_quota" mapstructure:"bulk_quota"`
	ProviderTimeoutSecs int `yaml:"provider_timeout_secs" mapstructure:"provider_timeout_secs"`
}

// ProviderTimeout returns the per-provider call deadline.
func (c AcquireConfig) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutSecs) * time.Second
}

// ProvidersConfig holds provider credentials and enablement. A provider with
// an empty key is simply not registered; keyless providers (Flickr feed,
// Reddit, Pinterest, Overpass) are controlled by their enabled flags.
type ProvidersConfig struct {
	UserAgent        string `yaml:"user_agent" mapstructure:"user_agent"`
	UnsplashKey      string `yaml:"unsplash_key" mapstructure:"unsplash_key"`
	PexelsKey        string `yaml:"pexels_key" mapstructure:"pexels_key"`
	OpenTripMapKey   string `yaml:"opentripmap_key" mapstructure:"opentripmap_key"`
	FlickrEnabled    bool   `yaml:"flickr_enabled" mapstructure:"flickr_enabled"`
	RedditEnabled    bool   `yaml:"reddit_enabled" mapstructure:"reddit_enabled"`
	PinterestEnabled bool   `yaml:"pinterest_enabled" mapstructure:"pinterest_enabled"`
	OverpassURL      string `yaml:"overpass_url" mapstructure:"overpass_url"`
}

// RateLimitConfig holds the per-provider request budgets.
type RateLimitConfig struct {
	DefaultLimit      int                     `yaml:"default_limit" mapstructure:"default_limit"`
	DefaultWindowSecs int                     `yaml:"default_window_secs" mapstructure:"default_window_secs"`
	Providers         map[string]BudgetConfig `yaml:"providers" mapstructure:"providers"`
}

// BudgetConfig is one provider's admission budget.
type BudgetConfig struct {
	Limit      int `yaml:"limit" mapstructure:"limit"`
	WindowSecs int `yaml:"window_secs" mapstructure:"window_secs"`
}

// QualityConfig configures the content rule set.
type QualityConfig struct {
	RulesPath string `yaml:"rules_path" mapstructure:"rules_path"`
}

// ServerConfig configures the HTTP facade.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// RevalidateConfig configures the scheduled refetch sweep.
type RevalidateConfig struct {
	Schedule     string `yaml:"schedule" mapstructure:"schedule"`
	EntitiesPath string `yaml:"entities_path" mapstructure:"entities_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PLACEMEDIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.sqlite_path", "placemedia.db")
	v.SetDefault("acquire.min_results", 3)
	v.SetDefault("acquire.max_results_per_level", 5)
	v.SetDefault("acquire.bulk_quota", 20)
	v.SetDefault("acquire.provider_timeout_secs", 3)
	v.SetDefault("providers.user_agent", "TravelBlogr/1.0 (+https://travelblogr.com)")
	v.SetDefault("providers.flickr_enabled", true)
	v.SetDefault("providers.reddit_enabled", true)
	v.SetDefault("providers.pinterest_enabled", true)
	v.SetDefault("providers.overpass_url", "https://overpass-api.de/api")
	v.SetDefault("ratelimit.default_limit", 30)
	v.SetDefault("ratelimit.default_window_secs", 60)
	v.SetDefault("server.port", 8080)
	v.SetDefault("revalidate.schedule", "0 4 * * *")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
