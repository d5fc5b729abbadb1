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
	Dataset DatasetConfig `yaml:"dataset" mapstructure:"dataset"`
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DatasetConfig locates the household table. Format is inferred from the
// path extension when empty; Sheet only applies to xlsx sources, Table and
// DatabaseURL to database sources.
type DatasetConfig struct {
	Path        string `yaml:"path" mapstructure:"path"`
	Format      string `yaml:"format" mapstructure:"format"`
	Sheet       string `yaml:"sheet" mapstructure:"sheet"`
	Table       string `yaml:"table" mapstructure:"table"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// CatalogConfig points at an alternate reform catalog file. Empty means the
// built-in HR1 catalog.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ExportConfig configures batch exports.
type ExportConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
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
	v.SetEnvPrefix("IMPACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.path", "")
	v.SetDefault("dataset.format", "")
	v.SetDefault("dataset.table", "households")
	v.SetDefault("catalog.path", "")
	v.SetDefault("export.concurrency", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("server.allowed_origins", []string{"*"})
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

// Validate checks the settings the given command mode depends on.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "explain", "cases", "validate":
	case "export":
		if c.Export.Concurrency < 1 {
			problems = append(problems, "export.concurrency must be >= 1")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RateLimit <= 0 {
			problems = append(problems, "server.rate_limit must be > 0")
		}
		if c.Server.RateBurst < 1 {
			problems = append(problems, "server.rate_burst must be >= 1")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Dataset.Path == "" && c.Dataset.DatabaseURL == "" {
		problems = append(problems, "dataset.path or dataset.database_url is required")
	}
	if c.Dataset.Format == "postgres" && c.Dataset.DatabaseURL == "" {
		problems = append(problems, "dataset.database_url is required for postgres datasets")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid %s configuration: %s", mode, strings.Join(problems, "; "))
	}
	return nil
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
