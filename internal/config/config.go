package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MediaBackendDisk  = "disk"
	MediaBackendMinio = "minio"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min"`
	AllowedOrigins              []string `toml:"allowed_origins"`
	// how often expired sessions get removed, e.g. "8h"
	SessionCleanupInterval string `toml:"session_cleanup_interval"`
	// prefs: "redis" or "memory"
	PrefsBackend string `toml:"prefs_backend"`

	// media
	MediaBackend      string `toml:"media_backend"`
	MediaDiskRootPath string `toml:"media_disk_root_path"`
	MediaPublicURL    string `toml:"media_public_url"`
	MinioEndpoint     string `toml:"minio_endpoint"`
	MinioUseSSL       bool   `toml:"minio_use_ssl"`
	MinioBucket       string `toml:"minio_bucket"`
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "error", "fatal")),
		validation.Field(&c.PostgresHost, validation.Required),
		validation.Field(&c.PostgresPort, validation.Required),
		validation.Field(&c.PostgresDBName, validation.Required),
		validation.Field(&c.RedisHost, validation.Required),
		validation.Field(&c.RedisPort, validation.Required),
		validation.Field(&c.PrometheusMetricsPort, validation.Required),
		validation.Field(&c.LoginRateLimitAllowedPerMin, validation.Min(0)),
		validation.Field(&c.SessionCleanupInterval, validation.By(validDuration)),
		validation.Field(&c.PrefsBackend, validation.In("redis", "memory")),
		validation.Field(&c.MediaBackend, validation.Required, validation.In(MediaBackendDisk, MediaBackendMinio)),
		validation.Field(&c.MediaDiskRootPath,
			validation.When(c.MediaBackend == MediaBackendDisk, validation.Required),
		),
		validation.Field(&c.MinioEndpoint,
			validation.When(c.MediaBackend == MediaBackendMinio, validation.Required),
		),
		validation.Field(&c.MinioBucket,
			validation.When(c.MediaBackend == MediaBackendMinio, validation.Required),
		),
	)
}

// SessionCleanupEvery falls back to 8h when not configured.
func (c *Config) SessionCleanupEvery() time.Duration {
	if c.SessionCleanupInterval == "" {
		return 8 * time.Hour
	}
	d, err := time.ParseDuration(c.SessionCleanupInterval)
	if err != nil || d <= 0 {
		return 8 * time.Hour
	}
	return d
}

func validDuration(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	return nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing in %s", env, path)
	}

	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
