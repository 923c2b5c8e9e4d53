package reschedule_booking

import (
	"time"

	"github.com/m04kA/ISB-BookingService/pkg/types"
)

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID  int64  `json:"-" validate:"required,gt=0"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeWindow string `json:"timeWindow" validate:"required,time_window"`
}

// Response модель ответа с новым расписанием
type Response struct {
	ID          int64
	ResourceID  string
	BookingDate time.Time
	TimeWindow  types.TimeWindow
	Status      string
	Changed     bool // false, если дата и окно совпали с текущими
}
