package reschedule_booking

import (
	"context"
	"time"

	"github.com/m04kA/ISB-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateSchedule(ctx context.Context, id int64, key domain.SlotKey) error
}

// SlotService интерфейс сервиса слотов
type SlotService interface {
	EnsureSlots(ctx context.Context, resourceID string, date time.Time) (int, error)
	Claim(ctx context.Context, key domain.SlotKey, bookingID int64) error
	Release(ctx context.Context, key domain.SlotKey, bookingID int64) (int64, error)
}

// Notifier интерфейс уведомления внешней системы о событиях бронирования
type Notifier interface {
	Notify(event string, booking *domain.Booking)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
