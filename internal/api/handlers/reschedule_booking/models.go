package reschedule_booking

import (
	"github.com/m04kA/ISB-BookingService/internal/domain"
	rescheduleBooking "github.com/m04kA/ISB-BookingService/internal/usecase/reschedule_booking"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Date       string `json:"date"`       // "2025-06-11"
	TimeWindow string `json:"timeWindow"` // "10:00-11:00"
}

// ScheduleResponse HTTP response model
type ScheduleResponse struct {
	ID            int64  `json:"id"`
	ResourceID    string `json:"resourceId"`
	BookingDate   string `json:"bookingDate"`
	TimeWindow    string `json:"timeWindow"`
	FormattedTime string `json:"formattedTime"`
	Status        string `json:"status"`
	Changed       bool   `json:"changed"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(bookingID int64) *rescheduleBooking.Request {
	return &rescheduleBooking.Request{
		BookingID:  bookingID,
		Date:       r.Date,
		TimeWindow: r.TimeWindow,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *ScheduleResponse {
	return &ScheduleResponse{
		ID:            resp.ID,
		ResourceID:    resp.ResourceID,
		BookingDate:   resp.BookingDate.Format(domain.DateFormat),
		TimeWindow:    resp.TimeWindow.String(),
		FormattedTime: resp.TimeWindow.Label(),
		Status:        resp.Status,
		Changed:       resp.Changed,
	}
}
