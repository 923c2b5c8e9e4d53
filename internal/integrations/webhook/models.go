package webhook

import (
	"time"

	"github.com/m04kA/ISB-BookingService/internal/domain"
)

// События, о которых уведомляется получатель
const (
	EventBookingCreated     = "booking.created"
	EventBookingCancelled   = "booking.cancelled"
	EventBookingRescheduled = "booking.rescheduled"
)

// PayloadSource значение поля source в теле вебхука
const PayloadSource = "internet-service-booking-plugin"

// timestampFormat формат временных меток в теле вебхука
const timestampFormat = "2006-01-02 15:04:05"

// Payload тело вебхука
// Пароль Wi-Fi не передается
type Payload struct {
	BookingID        int64  `json:"booking_id"`
	Event            string `json:"event"`
	CustomerName     string `json:"customer_name"`
	PhoneNumber      string `json:"phone_number"`
	Email            string `json:"email"`
	KRAPin           string `json:"kra_pin"`
	Estate           string `json:"estate"`
	BlockNumber      string `json:"block_number"`
	HouseNumber      string `json:"house_number"`
	Package          string `json:"package"`
	WifiUsername     string `json:"wifi_username"`
	InstallationDate string `json:"installation_date"`
	InstallationTime string `json:"installation_time"`
	FormattedTime    string `json:"formatted_time"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
	WebhookTimestamp string `json:"webhook_timestamp"`
	Source           string `json:"source"`
}

// NewPayload собирает тело вебхука из бронирования
func NewPayload(event string, b *domain.Booking, now time.Time) Payload {
	return Payload{
		BookingID:        b.ID,
		Event:            event,
		CustomerName:     b.FullName,
		PhoneNumber:      b.PhoneNumber,
		Email:            b.Email,
		KRAPin:           b.KRAPin,
		Estate:           b.ResourceID,
		BlockNumber:      b.BlockNumber,
		HouseNumber:      b.HouseNumber,
		Package:          b.Package,
		WifiUsername:     b.WifiUsername,
		InstallationDate: b.BookingDate.Format(domain.DateFormat),
		InstallationTime: b.TimeWindow.String(),
		FormattedTime:    b.TimeWindow.Label(),
		Status:           string(b.Status),
		CreatedAt:        b.CreatedAt.Format(timestampFormat),
		WebhookTimestamp: now.Format(timestampFormat),
		Source:           PayloadSource,
	}
}
