// Package config loads the application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Sureify SureifyConfig `yaml:"sureify" mapstructure:"sureify"`
	Compare CompareConfig `yaml:"compare" mapstructure:"compare"`
	Engine  EngineConfig  `yaml:"engine" mapstructure:"engine"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SureifyConfig holds the external insurance-data API settings. Auth is
// OAuth2 client-credentials against TokenURL unless a static BearerToken is
// provided.
type SureifyConfig struct {
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	TokenURL     string  `yaml:"token_url" mapstructure:"token_url"`
	ClientID     string  `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string  `yaml:"client_secret" mapstructure:"client_secret"`
	Scope        string  `yaml:"scope" mapstructure:"scope"`
	BearerToken  string  `yaml:"bearer_token" mapstructure:"bearer_token"`
	UserID       string  `yaml:"user_id" mapstructure:"user_id"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec   float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst    int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// CompareConfig holds the optional secondary comparison API settings.
// A failure against this system degrades the run instead of failing it.
type CompareConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	APIKey      string `yaml:"api_key" mapstructure:"api_key"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// EngineConfig holds the decision-engine constants. These are threaded into
// every engine call; nothing in the engines reads process-global state.
type EngineConfig struct {
	// RenewalNotificationDays is the look-ahead window for renewal
	// notifications and the maturing-replacement rule.
	RenewalNotificationDays int `yaml:"renewal_notification_days" mapstructure:"renewal_notification_days"`

	// MaxRecommendations caps the ranked recommendation list.
	MaxRecommendations int `yaml:"max_recommendations" mapstructure:"max_recommendations"`

	// Data-quality severity breakpoints: issue counts at or above which a
	// policy is classified medium/high.
	SeverityMediumCount int `yaml:"severity_medium_count" mapstructure:"severity_medium_count"`
	SeverityHighCount   int `yaml:"severity_high_count" mapstructure:"severity_high_count"`

	// MaxConcurrentPolicies bounds the evaluation fan-out across a batch.
	MaxConcurrentPolicies int `yaml:"max_concurrent_policies" mapstructure:"max_concurrent_policies"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("RENEWAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "renewal-intel.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("engine.renewal_notification_days", 30)
	v.SetDefault("engine.max_recommendations", 10)
	v.SetDefault("engine.severity_medium_count", 1)
	v.SetDefault("engine.severity_high_count", 3)
	v.SetDefault("engine.max_concurrent_policies", 8)
	v.SetDefault("sureify.timeout_secs", 30)
	v.SetDefault("sureify.user_id", "1001")
	v.SetDefault("sureify.rate_per_sec", 5)
	v.SetDefault("sureify.rate_burst", 10)
	v.SetDefault("compare.timeout_secs", 15)

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
