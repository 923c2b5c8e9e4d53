package get_available_slots

import "github.com/m04kA/ISB-BookingService/pkg/types"

// Request модель запроса свободных слотов
// Поля принимаются как есть, без предварительного парсинга
type Request struct {
	ResourceID string // Объект (жилой комплекс)
	Date       string // Дата в формате YYYY-MM-DD
}

// Response модель ответа со списком свободных слотов
type Response struct {
	ResourceID string
	Date       string
	Slots      []Slot // По возрастанию начала окна
}

// Slot свободное окно
type Slot struct {
	Window types.TimeWindow // "09:00-10:00"
	Label  string           // "9:00 AM - 10:00 AM"
}
