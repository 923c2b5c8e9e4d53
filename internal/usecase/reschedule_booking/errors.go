package reschedule_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInvalidDate возвращается для даты вне разрешенного диапазона
	ErrInvalidDate = errors.New("reschedule_booking: date is not bookable")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrBookingNotLive возвращается для отмененного или неуспешного бронирования
	ErrBookingNotLive = errors.New("reschedule_booking: booking is cancelled or failed")

	// ErrSlotUnavailable возвращается, когда новое окно занято или не существует
	ErrSlotUnavailable = errors.New("reschedule_booking: slot is not available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
