package reconcile_slots

import (
	"context"

	reconcileSlots "github.com/m04kA/ISB-BookingService/internal/usecase/reconcile_slots"
)

type ReconcileSlotsUseCase interface {
	Execute(ctx context.Context) (*reconcileSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
