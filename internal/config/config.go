package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig   // Настройки HTTP сервера
	Database DatabaseConfig // Настройки подключения к БД
	JWT      JWTConfig      // Настройки JWT авторизации
	Uploads  UploadsConfig  // Хранилище загруженных логотипов
	CORS     CORSConfig     // Разрешенные источники для фронтенда
	Log      LogConfig      // Настройки логирования
	Metrics  MetricsConfig  // Prometheus метрики
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port           string        `envconfig:"SERVER_PORT" default:"8080"`
	Host           string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout    time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout   time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout    time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
	RequestTimeout time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"jornada"`
	Password string `envconfig:"DB_PASSWORD" default:"jornada_pass"`
	Name     string `envconfig:"DB_NAME" default:"jornada"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// MigrationsDir включает автоматическое применение миграций при старте
	MigrationsDir string `envconfig:"DB_MIGRATIONS_DIR"`
}

// JWTConfig содержит настройки JWT авторизации
type JWTConfig struct {
	Secret          string `envconfig:"JWT_SECRET" required:"true"`
	ExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`
}

// UploadsConfig описывает локальное хранилище логотипов команд
type UploadsConfig struct {
	Dir           string `envconfig:"UPLOADS_DIR" default:"./uploads"`
	URLPrefix     string `envconfig:"UPLOADS_URL_PREFIX" default:"/uploads"`
	MaxUploadSize int64  `envconfig:"UPLOADS_MAX_SIZE" default:"5242880"`
}

// CORSConfig содержит список источников, которым разрешены запросы
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// LogConfig содержит уровень логирования (debug, info, warn, error)
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// MetricsConfig управляет эндпоинтом /metrics
type MetricsConfig struct {
	Enabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// GetExpiration возвращает срок действия токена как time.Duration
func (j JWTConfig) GetExpiration() time.Duration {
	return time.Duration(j.ExpirationHours) * time.Hour
}

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Load читает конфигурацию из переменных окружения
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
