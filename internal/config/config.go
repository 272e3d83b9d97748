package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Data     DataConfig     `mapstructure:"data"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type DataConfig struct {
	XLSXFile string `mapstructure:"xlsx_file" validate:"required"`
	Sheet    string `mapstructure:"sheet"`
	// CacheDir holds parsed-record caches; empty disables caching.
	CacheDir    string        `mapstructure:"cache_dir"`
	LoadTimeout time.Duration `mapstructure:"load_timeout" validate:"gt=0"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json text"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

type SecurityConfig struct {
	EnableRateLimit bool     `mapstructure:"rate_limit_enabled"`
	RateLimitRPS    int      `mapstructure:"rate_limit_rps" validate:"gt=0"`
	RateLimitBurst  int      `mapstructure:"rate_limit_burst" validate:"gt=0"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	TrustedProxies  []string `mapstructure:"trusted_proxies"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

// env maps every config key to the environment variable that overrides it.
var env = map[string]string{
	"server.host":                 "SERVER_HOST",
	"server.port":                 "SERVER_PORT",
	"server.read_timeout":         "SERVER_READ_TIMEOUT",
	"server.write_timeout":        "SERVER_WRITE_TIMEOUT",
	"server.idle_timeout":         "SERVER_IDLE_TIMEOUT",
	"server.shutdown_timeout":     "SERVER_SHUTDOWN_TIMEOUT",
	"data.xlsx_file":              "XLSX_FILE",
	"data.sheet":                  "XLSX_SHEET",
	"data.cache_dir":              "CACHE_DIR",
	"data.load_timeout":           "DATA_LOAD_TIMEOUT",
	"logger.level":                "LOG_LEVEL",
	"logger.format":               "LOG_FORMAT",
	"logger.file":                 "LOG_FILE",
	"logger.max_size_mb":          "LOG_MAX_SIZE_MB",
	"logger.max_backups":          "LOG_MAX_BACKUPS",
	"logger.max_age_days":         "LOG_MAX_AGE_DAYS",
	"logger.compress":             "LOG_COMPRESS",
	"security.rate_limit_enabled": "SECURITY_RATE_LIMIT_ENABLED",
	"security.rate_limit_rps":     "SECURITY_RATE_LIMIT_RPS",
	"security.rate_limit_burst":   "SECURITY_RATE_LIMIT_BURST",
	"security.allowed_origins":    "SECURITY_ALLOWED_ORIGINS",
	"security.trusted_proxies":    "SECURITY_TRUSTED_PROXIES",
	"metrics.enabled":             "METRICS_ENABLED",
	"metrics.path":                "METRICS_PATH",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8084)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("data.xlsx_file", "sellers.xlsx")
	v.SetDefault("data.sheet", "")
	v.SetDefault("data.cache_dir", ".cache")
	v.SetDefault("data.load_timeout", 30*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size_mb", 100)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age_days", 28)
	v.SetDefault("logger.compress", false)

	v.SetDefault("security.rate_limit_enabled", true)
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 10)
	v.SetDefault("security.allowed_origins", []string{"http://localhost:8084"})
	v.SetDefault("security.trusted_proxies", []string{"127.0.0.1"})

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Load builds the configuration from defaults, an optional dashboard.yaml in
// the working directory, and environment variables, in increasing precedence.
func Load() (*Config, error) {
	return load(viper.New(), ".")
}

func load(v *viper.Viper, configDir string) (*Config, error) {
	setDefaults(v)

	for key, name := range env {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("bind %s: %w", name, err)
		}
	}

	v.SetConfigName("dashboard")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	cfg.Logger.Level = strings.ToLower(cfg.Logger.Level)
	cfg.Logger.Format = strings.ToLower(cfg.Logger.Format)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
