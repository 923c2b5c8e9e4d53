package config

import "github.com/m04kA/ISB-BookingService/internal/domain"

// Default возвращает конфигурацию со значениями по умолчанию
// Значения из файла и окружения накладываются поверх
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "isb_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			QueryTimeout:    5,
			AutoMigrate:     true,
		},
		Logs: LogsConfig{
			Level: "info",
			File:  "logs/booking-service.log",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "isb_booking_service",
		},
		Calendar: CalendarConfig{
			Timezone: domain.DefaultTimezone,
			Weekdays: HoursConfig{Start: domain.DefaultWeekdayHours.StartHour, End: domain.DefaultWeekdayHours.EndHour},
			Saturday: HoursConfig{Start: domain.DefaultSaturdayHours.StartHour, End: domain.DefaultSaturdayHours.EndHour},
			Sunday:   HoursConfig{Start: domain.DefaultSundayHours.StartHour, End: domain.DefaultSundayHours.EndHour},
		},
		Booking: BookingConfig{
			AllowPastDates: false,
			WindowDays:     domain.DefaultBookingWindowDays,
		},
		Catalog: CatalogConfig{
			Resources:        append([]string(nil), domain.DefaultResources...),
			PremiumResource:  domain.DefaultPremiumResource,
			PremiumPackages:  append([]string(nil), domain.DefaultPremiumPackages...),
			StandardPackages: append([]string(nil), domain.DefaultStandardPackages...),
		},
		Webhook: WebhookConfig{
			Source:         "wp-isb-plugin",
			Timeout:        30,
			Workers:        2,
			QueueSize:      256,
			MaxRetries:     3,
			RetryBackoffMs: 500,
			RateLimit:      5,
			RateBurst:      5,
		},
		Redis: RedisConfig{
			LockTTLMs: 60000,
		},
		Extender: ExtenderConfig{
			Enabled:   true,
			Interval:  3600,
			DaysAhead: domain.DefaultBookingWindowDays,
		},
	}
}
