package slots

import (
	"context"
	"time"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	"github.com/m04kA/ISB-BookingService/pkg/types"
)

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	InsertIfAbsent(ctx context.Context, resourceID string, date time.Time, windows []types.TimeWindow) (int64, error)
	CountByDate(ctx context.Context, resourceID string, date time.Time) (int, error)
	ListFree(ctx context.Context, resourceID string, date time.Time) ([]*domain.Slot, error)
	Claim(ctx context.Context, key domain.SlotKey, bookingID int64) error
	Release(ctx context.Context, key domain.SlotKey, bookingID *int64) (int64, error)
	ForceRelease(ctx context.Context, key domain.SlotKey, bookingID int64) (int64, error)
}

// Metrics получатель доменных метрик слотов
type Metrics interface {
	AddSlotsGenerated(resourceID string, n int)
	IncSlotClaim(outcome string)
	AddSlotRepairs(kind string, n int64)
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
