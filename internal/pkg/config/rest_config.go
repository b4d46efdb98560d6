package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variables overriding file settings,
// e.g. B2C_DATABASE_DSN overrides database.dsn.
const EnvPrefix = "B2C"

// CORSSettings holds the allowed origins for browser clients.
type CORSSettings struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// RestConfig is the root configuration of the payment REST API and CLI.
type RestConfig struct {
	Port           string                 `mapstructure:"port" validate:"required,numeric"`
	Logger         LoggerSettings         `mapstructure:"logger"`
	Database       DatabaseSettings       `mapstructure:"database"`
	Auth           AuthSettings           `mapstructure:"auth"`
	MNO            MNOSettings            `mapstructure:"mno"`
	Dispatcher     DispatcherSettings     `mapstructure:"dispatcher"`
	Reconciliation ReconciliationSettings `mapstructure:"reconciliation"`
	AMQP           AMQPSettings           `mapstructure:"amqp"`
	Cache          CacheSettings          `mapstructure:"cache"`
	CORS           CORSSettings           `mapstructure:"cors"`
}

// Validate checks the root settings and every nested settings block.
func (c *RestConfig) Validate() error {
	validate := validator.New()

	if err := validate.Var(c.Port, "required,numeric"); err != nil {
		return fmt.Errorf("validation failed for RestConfig: port: %w", err)
	}

	nested := []interface{ Validate() error }{
		&c.Logger,
		&c.Database,
		&c.Auth,
		&c.MNO,
		&c.Dispatcher,
		&c.Reconciliation,
		&c.AMQP,
		&c.Cache,
	}
	for _, s := range nested {
		if err := s.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// InitializeRestConfig loads an optional .env file, then the YAML file at path (if any),
// applies B2C_* environment overrides and validates the result.
func InitializeRestConfig(path string) (*RestConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg RestConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")

	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
	v.SetDefault("logger.log_format", LogFormatText)
	v.SetDefault("logger.file_path", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", true)

	v.SetDefault("database.type", SqliteDbType)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.max_open_conns", 0)
	v.SetDefault("database.max_idle_conns", 0)
	v.SetDefault("database.migrate_on_start", true)

	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("auth.jwks_url", "")
	v.SetDefault("auth.jwks_refresh_interval", 15*time.Minute)
	v.SetDefault("auth.public_key_path", "")
	v.SetDefault("auth.hmac_secret", "")

	v.SetDefault("mno.success_rate", 0.9)
	v.SetDefault("mno.min_delay", 500*time.Millisecond)
	v.SetDefault("mno.max_delay", 3*time.Second)
	v.SetDefault("mno.requests_per_second", 50.0)
	v.SetDefault("mno.burst", 10)

	v.SetDefault("dispatcher.core_workers", 5)
	v.SetDefault("dispatcher.max_workers", 10)
	v.SetDefault("dispatcher.queue_capacity", 25)

	v.SetDefault("reconciliation.enabled", true)
	v.SetDefault("reconciliation.schedule", "@every 1m")
	v.SetDefault("reconciliation.stale_after", 10*time.Minute)
	v.SetDefault("reconciliation.batch_size", 100)

	v.SetDefault("amqp.enabled", false)
	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "payments")
	v.SetDefault("amqp.publish_timeout", 5*time.Second)
	v.SetDefault("amqp.reconnect_interval", 500*time.Millisecond)
	v.SetDefault("amqp.reconnect_max_interval", 30*time.Second)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", 10*time.Minute)

	v.SetDefault("cors.allow_origins", []string{"*"})
}
