package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
)

// Config holds the full application configuration.
type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Format FormatConfig `yaml:"format" mapstructure:"format"`
	Chart  ChartConfig  `yaml:"chart" mapstructure:"chart"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port                  int      `yaml:"port" mapstructure:"port"`
	ReadHeaderTimeoutSecs int      `yaml:"read_header_timeout_secs" mapstructure:"read_header_timeout_secs"`
	RateLimitRPS          float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst        int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	CORSOrigins           []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// FormatConfig controls how numbers are displayed.
type FormatConfig struct {
	Locale         string `yaml:"locale" mapstructure:"locale"`
	CurrencySymbol string `yaml:"currency_symbol" mapstructure:"currency_symbol"`
}

// ChartConfig configures the text bar chart.
type ChartConfig struct {
	Width int `yaml:"width" mapstructure:"width"`
}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	// .env only fills variables that are not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FUNNEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_header_timeout_secs", 10)
	v.SetDefault("server.rate_limit_rps", 20)
	v.SetDefault("server.rate_limit_burst", 40)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("format.locale", "es-AR")
	v.SetDefault("format.currency_symbol", "$")
	v.SetDefault("chart.width", 40)

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

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535 (got %d)", c.Server.Port))
	}
	if c.Server.ReadHeaderTimeoutSecs <= 0 {
		errs = append(errs, "server.read_header_timeout_secs must be > 0")
	}
	if c.Server.RateLimitRPS <= 0 {
		errs = append(errs, "server.rate_limit_rps must be > 0")
	}
	if c.Server.RateLimitBurst <= 0 {
		errs = append(errs, "server.rate_limit_burst must be > 0")
	}
	if _, err := language.Parse(c.Format.Locale); err != nil {
		errs = append(errs, fmt.Sprintf("format.locale %q is not a valid BCP-47 tag", c.Format.Locale))
	}
	if c.Chart.Width < 10 {
		errs = append(errs, fmt.Sprintf("chart.width must be >= 10 (got %d)", c.Chart.Width))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
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
