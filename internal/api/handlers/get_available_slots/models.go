package get_available_slots

import (
	getAvailableSlots "github.com/m04kA/ISB-BookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ResourceID string          `json:"resourceId"`
	Date       string          `json:"date"`
	Slots      []AvailableSlot `json:"slots"`
}

// AvailableSlot свободное окно
type AvailableSlot struct {
	TimeWindow string `json:"timeWindow"` // "09:00-10:00"
	Label      string `json:"label"`      // "9:00 AM - 10:00 AM"
}

// ToUseCaseRequest создает запрос use case из URL и query параметров
func ToUseCaseRequest(resourceID, dateStr string) *getAvailableSlots.Request {
	return &getAvailableSlots.Request{
		ResourceID: resourceID,
		Date:       dateStr,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			TimeWindow: slot.Window.String(),
			Label:      slot.Label,
		}
	}

	return &AvailableSlotsResponse{
		ResourceID: resp.ResourceID,
		Date:       resp.Date,
		Slots:      slots,
	}
}
