package create_booking

import (
	"time"

	"github.com/m04kA/ISB-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	// Ограничения max совпадают с шириной колонок bookings (domain.Max*)
	FullName     string `json:"fullName" validate:"required,max=255"`
	PhoneNumber  string `json:"phoneNumber" validate:"required,max=50"`
	Email        string `json:"email" validate:"required,email,max=255"`
	KRAPin       string `json:"kraPin" validate:"required,max=50"`
	ResourceID   string `json:"resourceId" validate:"required,max=255"`
	BlockNumber  string `json:"blockNumber" validate:"required,max=50"`
	HouseNumber  string `json:"houseNumber" validate:"required,max=50"`
	Package      string `json:"package" validate:"required,max=100"`
	WifiUsername string `json:"wifiUsername" validate:"required,max=100"`
	WifiPassword string `json:"wifiPassword" validate:"required,max=100"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"` // YYYY-MM-DD
	TimeWindow   string `json:"timeWindow" validate:"required,time_window"`   // HH:MM-HH:MM
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64            // ID созданного бронирования
	ResourceID  string           // Объект
	BookingDate time.Time        // Дата установки
	TimeWindow  types.TimeWindow // Окно
	Status      string           // Статус бронирования
	CreatedAt   time.Time        // Время создания
}
