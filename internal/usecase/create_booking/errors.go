package create_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrResourceNotFound возвращается, когда объект не обслуживается
	ErrResourceNotFound = errors.New("create_booking: unknown resource")

	// ErrPackageNotAvailable возвращается, когда пакет не предлагается на объекте
	ErrPackageNotAvailable = errors.New("create_booking: package is not offered at this resource")

	// ErrInvalidDate возвращается для даты вне разрешенного диапазона
	ErrInvalidDate = errors.New("create_booking: date is not bookable")

	// ErrSlotUnavailable возвращается, когда окно занято или не существует
	ErrSlotUnavailable = errors.New("create_booking: slot is not available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// SlotUnavailableError окно не удалось занять; бронирование сохранено со статусом failed
type SlotUnavailableError struct {
	BookingID int64
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("%v: booking id=%d marked as failed", ErrSlotUnavailable, e.BookingID)
}

func (e *SlotUnavailableError) Unwrap() error {
	return ErrSlotUnavailable
}
