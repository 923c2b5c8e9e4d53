package reconcile_slots

import (
	"context"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	"github.com/m04kA/ISB-BookingService/internal/infra/lock"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ClearUnowned(ctx context.Context) (int64, error)
	ClearStale(ctx context.Context) (int64, error)
	GetByKey(ctx context.Context, key domain.SlotKey) (*domain.Slot, error)
	AssignHolder(ctx context.Context, key domain.SlotKey, bookingID int64) (int64, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListLive(ctx context.Context) ([]*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// Locker блокировка, исключающая параллельные прогоны
type Locker interface {
	TryLock(ctx context.Context, name string) (lock.UnlockFunc, error)
}

// Metrics получатель метрик ремонта
type Metrics interface {
	AddSlotRepairs(kind string, n int64)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
