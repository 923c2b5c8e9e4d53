package create_booking

import (
	"time"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	createBooking "github.com/m04kA/ISB-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	FullName     string `json:"fullName"`
	PhoneNumber  string `json:"phoneNumber"`
	Email        string `json:"email"`
	KRAPin       string `json:"kraPin"`
	ResourceID   string `json:"resourceId"`
	BlockNumber  string `json:"blockNumber"`
	HouseNumber  string `json:"houseNumber"`
	Package      string `json:"package"`
	WifiUsername string `json:"wifiUsername"`
	WifiPassword string `json:"wifiPassword"`
	Date         string `json:"date"`       // "2025-06-10"
	TimeWindow   string `json:"timeWindow"` // "09:00-10:00"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64  `json:"id"`
	ResourceID    string `json:"resourceId"`
	BookingDate   string `json:"bookingDate"`
	TimeWindow    string `json:"timeWindow"`
	FormattedTime string `json:"formattedTime"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	return &createBooking.Request{
		FullName:     r.FullName,
		PhoneNumber:  r.PhoneNumber,
		Email:        r.Email,
		KRAPin:       r.KRAPin,
		ResourceID:   r.ResourceID,
		BlockNumber:  r.BlockNumber,
		HouseNumber:  r.HouseNumber,
		Package:      r.Package,
		WifiUsername: r.WifiUsername,
		WifiPassword: r.WifiPassword,
		Date:         r.Date,
		TimeWindow:   r.TimeWindow,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		ResourceID:    resp.ResourceID,
		BookingDate:   resp.BookingDate.Format(domain.DateFormat),
		TimeWindow:    resp.TimeWindow.String(),
		FormattedTime: resp.TimeWindow.Label(),
		Status:        resp.Status,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
	}
}
