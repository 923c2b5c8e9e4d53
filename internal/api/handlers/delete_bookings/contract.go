package delete_bookings

import (
	"context"

	"github.com/m04kA/ISB-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	Delete(ctx context.Context, req *models.DeleteRequest) (*models.BulkResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
