package bookings

import (
	"context"
	"time"

	"github.com/m04kA/ISB-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, int, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Delete(ctx context.Context, id int64) error
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
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
