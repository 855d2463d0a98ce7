// Package config loads the API configuration from a TOML file with APP_ environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string          `mapstructure:"service_name"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Kafka       KafkaConfig     `mapstructure:"kafka"`
	Logger      LoggerConfig    `mapstructure:"logger"`
	Metrics     MetricsConfig   `mapstructure:"metrics"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	JWT         JWTConfig       `mapstructure:"jwt"`
	Stripe      StripeConfig    `mapstructure:"stripe"`
	Chargily    ChargilyConfig  `mapstructure:"chargily"`
	S3          S3Config        `mapstructure:"s3"`
	Mail        MailConfig      `mapstructure:"mail"`
	CORS        CORSConfig      `mapstructure:"cors"`
}

type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	// mysql or sqlite
	Driver             string `mapstructure:"driver"`
	DSN                string `mapstructure:"dsn"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime    int    `mapstructure:"conn_max_lifetime"`
	LogEnabled         bool   `mapstructure:"log_enabled"`
	SlowQueryThreshold int    `mapstructure:"slow_query_threshold"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
	// seconds
	CacheTTL int `mapstructure:"cache_ttl"`
}

type KafkaConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Brokers    []string `mapstructure:"brokers"`
	Topic      string   `mapstructure:"topic"`
	MaxRetries int      `mapstructure:"max_retries"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	WithCaller bool   `mapstructure:"with_caller"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	QPS     int  `mapstructure:"qps"`
	Burst   int  `mapstructure:"burst"`
}

type JWTConfig struct {
	Secret   string `mapstructure:"secret"`
	TTLHours int    `mapstructure:"ttl_hours"`
}

type StripeConfig struct {
	SecretKey       string `mapstructure:"secret_key"`
	WebhookSecret   string `mapstructure:"webhook_secret"`
	DefaultCurrency string `mapstructure:"default_currency"`
}

type ChargilyConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	SecretKey  string `mapstructure:"secret_key"`
	SuccessURL string `mapstructure:"success_url"`
	FailureURL string `mapstructure:"failure_url"`
	WebhookURL string `mapstructure:"webhook_url"`
	Timeout    int    `mapstructure:"timeout"`
}

type S3Config struct {
	Bucket string `mapstructure:"bucket"`
	Region string `mapstructure:"region"`
}

type MailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	From         string `mapstructure:"from"`
	Password     string `mapstructure:"password"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPAddress  string `mapstructure:"smtp_address"`
	TemplatesDir string `mapstructure:"templates_dir"`
	LogoURL      string `mapstructure:"logo_url"`
	// password reset links are ResetURL + "?token=..."
	ResetURL string `mapstructure:"reset_url"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Load reads configPath (when it exists) on top of the defaults, then applies
// APP_* environment variables, e.g. APP_STRIPE_SECRET_KEY.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case "mysql":
		if c.Database.DSN == "" {
			return fmt.Errorf("database dsn is required for mysql driver")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Environment == "prod" && c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required in prod")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "satshop-api")
	v.SetDefault("environment", "dev")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 300)
	v.SetDefault("database.log_enabled", false)
	v.SetDefault("database.slow_query_threshold", 1000)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.cache_ttl", 300)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "satshop.orders")
	v.SetDefault("kafka.max_retries", 3)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/app.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.qps", 20)
	v.SetDefault("rate_limit.burst", 40)

	// secrets need a registered key so APP_* overrides reach Unmarshal
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl_hours", 24*30)

	v.SetDefault("stripe.secret_key", "")
	v.SetDefault("stripe.webhook_secret", "")
	v.SetDefault("stripe.default_currency", "eur")

	v.SetDefault("chargily.base_url", "https://pay.chargily.net/api/v2")
	v.SetDefault("chargily.secret_key", "")
	v.SetDefault("chargily.success_url", "")
	v.SetDefault("chargily.failure_url", "")
	v.SetDefault("chargily.webhook_url", "")
	v.SetDefault("chargily.timeout", 30)

	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "")

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.smtp_host", "")
	v.SetDefault("mail.smtp_address", "")
	v.SetDefault("mail.templates_dir", "templates")
	v.SetDefault("mail.logo_url", "")
	v.SetDefault("mail.reset_url", "http://localhost:5173/auth/reset-password")

	v.SetDefault("cors.allow_origins", []string{"http://localhost:5173"})
}
