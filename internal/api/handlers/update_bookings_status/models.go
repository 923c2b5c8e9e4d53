package update_bookings_status

import (
	"github.com/m04kA/ISB-BookingService/internal/service/bookings/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	IDs    []int64 `json:"ids"`
	Status string  `json:"status"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest() *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		IDs:    r.IDs,
		Status: r.Status,
	}
}
