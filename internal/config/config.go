package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
const EnvPrefix = "EMBED"

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация приложения
type Config struct {
	Server    ServerConfig    `toml:"server" envconfig:"SERVER"`
	Database  DatabaseConfig  `toml:"database" envconfig:"DATABASE"`
	Logs      LogsConfig      `toml:"logs" envconfig:"LOGS"`
	Metrics   MetricsConfig   `toml:"metrics" envconfig:"METRICS"`
	Redis     RedisConfig     `toml:"redis" envconfig:"REDIS"`
	RateLimit RateLimitConfig `toml:"ratelimit" envconfig:"RATELIMIT"`
	CORS      CORSConfig      `toml:"cors" envconfig:"CORS"`
	Auth      AuthConfig      `toml:"auth" envconfig:"AUTH"`
	Notifier  NotifierConfig  `toml:"notifier" envconfig:"NOTIFIER"`
	Tracing   TracingConfig   `toml:"tracing" envconfig:"TRACING"`
	Slots     SlotsConfig     `toml:"slots" envconfig:"SLOTS"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" envconfig:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    int `toml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     int `toml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout int `toml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  int `toml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" envconfig:"HOST"`
	Port            int    `toml:"port" envconfig:"PORT"`
	User            string `toml:"user" envconfig:"USER"`
	Password        string `toml:"password" envconfig:"PASSWORD"`
	DBName          string `toml:"dbname" envconfig:"DBNAME"`
	SSLMode         string `toml:"sslmode" envconfig:"SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns" envconfig:"MAX_OPEN_CONNS"`
	MaxIdleConns    int    `toml:"max_idle_conns" envconfig:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file" envconfig:"FILE"`
	Level string `toml:"level" envconfig:"LEVEL"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" envconfig:"ENABLED"`
	ServiceName string `toml:"service_name" envconfig:"SERVICE_NAME"`
	Path        string `toml:"path" envconfig:"PATH"`
}

// RedisConfig пустой Addr отключает кэш слотов и rate limit
type RedisConfig struct {
	Addr     string `toml:"addr" envconfig:"ADDR"`
	Password string `toml:"password" envconfig:"PASSWORD"`
	DB       int    `toml:"db" envconfig:"DB"`
}

// RateLimitConfig ограничение запросов публичного виджета на IP
// TrustedProxies - адреса балансировщиков, которым разрешено передавать X-Forwarded-For.
type RateLimitConfig struct {
	Enabled        bool     `toml:"enabled" envconfig:"ENABLED"`
	Limit          int      `toml:"limit" envconfig:"LIMIT"`
	WindowSeconds  int      `toml:"window_seconds" envconfig:"WINDOW_SECONDS"`
	TrustedProxies []string `toml:"trusted_proxies" envconfig:"TRUSTED_PROXIES"`
}

func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
}

// AuthConfig проверка JWT администраторов (HS256)
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret" envconfig:"JWT_SECRET"`
	Issuer    string `toml:"issuer" envconfig:"ISSUER"`
}

// NotifierConfig Driver: kafka, amqp или log
type NotifierConfig struct {
	Driver         string   `toml:"driver" envconfig:"DRIVER"`
	KafkaBrokers   []string `toml:"kafka_brokers" envconfig:"KAFKA_BROKERS"`
	KafkaTopic     string   `toml:"kafka_topic" envconfig:"KAFKA_TOPIC"`
	AMQPURL        string   `toml:"amqp_url" envconfig:"AMQP_URL"`
	AMQPExchange   string   `toml:"amqp_exchange" envconfig:"AMQP_EXCHANGE"`
	TimeoutSeconds int      `toml:"timeout_seconds" envconfig:"TIMEOUT_SECONDS"`
}

func (c NotifierConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type TracingConfig struct {
	Enabled      bool    `toml:"enabled" envconfig:"ENABLED"`
	OTLPEndpoint string  `toml:"otlp_endpoint" envconfig:"OTLP_ENDPOINT"`
	SampleRatio  float64 `toml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// SlotsConfig CacheTTLSeconds = 0 отключает кэш
type SlotsConfig struct {
	CacheTTLSeconds int `toml:"cache_ttl_seconds" envconfig:"CACHE_TTL_SECONDS"`
}

func (c SlotsConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Load читает config.toml, затем .env (если есть) и переменные окружения EMBED_*.
// Переменные окружения имеют приоритет над файлом.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	// .env опционален
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	}

	switch c.Notifier.Driver {
	case "log":
	case "kafka":
		if len(c.Notifier.KafkaBrokers) == 0 || c.Notifier.KafkaTopic == "" {
			return fmt.Errorf("%w: notifier.kafka_brokers and notifier.kafka_topic are required", ErrInvalidConfig)
		}
	case "amqp":
		if c.Notifier.AMQPURL == "" {
			return fmt.Errorf("%w: notifier.amqp_url is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown notifier.driver %q", ErrInvalidConfig, c.Notifier.Driver)
	}

	if c.RateLimit.Enabled && (c.RateLimit.Limit <= 0 || c.RateLimit.WindowSeconds <= 0) {
		return fmt.Errorf("%w: ratelimit.limit and ratelimit.window_seconds must be positive", ErrInvalidConfig)
	}
	for _, proxy := range c.RateLimit.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("%w: ratelimit.trusted_proxies: invalid address %q", ErrInvalidConfig, proxy)
		}
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("%w: tracing.sample_ratio must be within [0, 1]", ErrInvalidConfig)
	}

	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
			RequestTimeout:  10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			ServiceName: "embed-booking",
			Path:        "/metrics",
		},
		RateLimit: RateLimitConfig{
			Limit:         60,
			WindowSeconds: 60,
		},
		Notifier: NotifierConfig{
			Driver:         "log",
			KafkaTopic:     "booking.notifications",
			AMQPExchange:   "booking.notifications",
			TimeoutSeconds: 5,
		},
		Tracing: TracingConfig{
			OTLPEndpoint: "localhost:4317",
			SampleRatio:  1,
		},
		Slots: SlotsConfig{
			CacheTTLSeconds: 15,
		},
	}
}

func validProxy(s string) bool {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		_, _, err := net.ParseCIDR(s)
		return err == nil
	}
	return net.ParseIP(s) != nil
}
