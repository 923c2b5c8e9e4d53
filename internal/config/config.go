package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Calendar CalendarConfig `toml:"calendar"`
	Booking  BookingConfig  `toml:"booking"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Webhook  WebhookConfig  `toml:"webhook"`
	Redis    RedisConfig    `toml:"redis"`
	Extender ExtenderConfig `toml:"extender"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	QueryTimeout    int    `toml:"query_timeout"`     // секунды, 0 = без таймаута
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// HoursConfig часы работы [start, end) для группы дней
type HoursConfig struct {
	Start int `toml:"start"`
	End   int `toml:"end"`
}

// CalendarConfig недельный календарь рабочих часов
type CalendarConfig struct {
	Timezone string      `toml:"timezone"`
	Weekdays HoursConfig `toml:"weekdays"`
	Saturday HoursConfig `toml:"saturday"`
	Sunday   HoursConfig `toml:"sunday"`
}

// BookingConfig политика дат бронирования
type BookingConfig struct {
	AllowPastDates bool `toml:"allow_past_dates"`
	WindowDays     int  `toml:"window_days"` // 0 = без ограничения
}

// CatalogConfig список объектов (estates) и каталоги тарифов
type CatalogConfig struct {
	Resources        []string `toml:"resources"`
	PremiumResource  string   `toml:"premium_resource"`
	PremiumPackages  []string `toml:"premium_packages"`
	StandardPackages []string `toml:"standard_packages"`
}

// WebhookConfig настройки внешнего вебхука
type WebhookConfig struct {
	URL            string  `toml:"url"`
	APIKey         string  `toml:"api_key"`
	Source         string  `toml:"source"`
	Timeout        int     `toml:"timeout"` // секунды
	Workers        int     `toml:"workers"`
	QueueSize      int     `toml:"queue_size"`
	MaxRetries     int     `toml:"max_retries"`
	RetryBackoffMs int     `toml:"retry_backoff_ms"`
	RateLimit      float64 `toml:"rate_limit"` // запросов в секунду
	RateBurst      int     `toml:"rate_burst"`
}

// Enabled вебхук выключен, если URL не задан
func (w WebhookConfig) Enabled() bool {
	return w.URL != ""
}

// RedisConfig настройки Redis для блокировки реконсиляции
// Пустой Addr - используется локальная блокировка
type RedisConfig struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	LockTTLMs int    `toml:"lock_ttl_ms"`
}

// Enabled Redis используется, если задан адрес
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// ExtenderConfig фоновая генерация слотов наперед
type ExtenderConfig struct {
	Enabled   bool `toml:"enabled"`
	Interval  int  `toml:"interval"` // секунды
	DaysAhead int  `toml:"days_ahead"`
}

// Load загружает конфигурацию из TOML файла, затем секреты из .env и окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	// .env опционален: в проде переменные приходят из окружения
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv переопределяет секреты переменными окружения
func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		c.Webhook.URL = v
	}
	if v := os.Getenv("WEBHOOK_API_KEY"); v != "" {
		c.Webhook.APIKey = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}

	if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
		return fmt.Errorf("%w: calendar.timezone %q: %v", ErrInvalidConfig, c.Calendar.Timezone, err)
	}

	for name, hours := range map[string]HoursConfig{
		"weekdays": c.Calendar.Weekdays,
		"saturday": c.Calendar.Saturday,
		"sunday":   c.Calendar.Sunday,
	} {
		if hours.Start < 0 || hours.End > 24 || hours.Start > hours.End {
			return fmt.Errorf("%w: calendar.%s hours %d-%d", ErrInvalidConfig, name, hours.Start, hours.End)
		}
	}

	if c.Booking.WindowDays < 0 {
		return fmt.Errorf("%w: booking.window_days must not be negative", ErrInvalidConfig)
	}

	if len(c.Catalog.Resources) == 0 {
		return fmt.Errorf("%w: catalog.resources is empty", ErrInvalidConfig)
	}
	for _, r := range c.Catalog.Resources {
		if strings.TrimSpace(r) == "" {
			return fmt.Errorf("%w: catalog.resources contains an empty name", ErrInvalidConfig)
		}
	}
	if len(c.Catalog.StandardPackages) == 0 {
		return fmt.Errorf("%w: catalog.standard_packages is empty", ErrInvalidConfig)
	}

	if c.Webhook.Enabled() {
		if c.Webhook.Workers <= 0 || c.Webhook.QueueSize <= 0 {
			return fmt.Errorf("%w: webhook.workers and webhook.queue_size must be positive", ErrInvalidConfig)
		}
		if c.Webhook.RateLimit <= 0 {
			return fmt.Errorf("%w: webhook.rate_limit must be positive", ErrInvalidConfig)
		}
	}

	if c.Extender.Enabled && (c.Extender.Interval <= 0 || c.Extender.DaysAhead <= 0) {
		return fmt.Errorf("%w: extender.interval and extender.days_ahead must be positive", ErrInvalidConfig)
	}

	return nil
}
