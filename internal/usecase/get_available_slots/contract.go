package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/ISB-BookingService/internal/domain"
)

// SlotService интерфейс сервиса слотов
type SlotService interface {
	EnsureSlots(ctx context.Context, resourceID string, date time.Time) (int, error)
	ListFree(ctx context.Context, resourceID string, date time.Time) ([]*domain.Slot, error)
}

// Catalog справочник обслуживаемых объектов
type Catalog interface {
	HasResource(resourceID string) bool
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
