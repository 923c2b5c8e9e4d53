package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	"github.com/m04kA/ISB-BookingService/pkg/types"
)

// normalize обрезает пробелы во всех строковых полях запроса
func normalize(req *Request) {
	for _, field := range []*string{
		&req.FullName, &req.PhoneNumber, &req.Email, &req.KRAPin, &req.ResourceID,
		&req.BlockNumber, &req.HouseNumber, &req.Package, &req.WifiUsername,
		&req.Date, &req.TimeWindow,
	} {
		*field = strings.TrimSpace(*field)
	}
}

// validateRequest проверяет поля, объект, пакет и дату
// Возвращает дату и окно в разобранном виде
func (uc *UseCase) validateRequest(req *Request, now time.Time) (time.Time, types.TimeWindow, error) {
	if err := uc.validator.Struct(req); err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if !uc.catalog.HasResource(req.ResourceID) {
		return time.Time{}, "", ErrResourceNotFound
	}

	if !uc.catalog.HasPackage(req.ResourceID, req.Package) {
		return time.Time{}, "", ErrPackageNotAvailable
	}

	date, err := uc.calendar.ParseDate(req.Date)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := uc.policy.Check(date, uc.calendar.Today(now)); err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	window, err := types.ParseTimeWindow(req.TimeWindow)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if uc.calendar.HasStarted(date, window, now) {
		return time.Time{}, "", fmt.Errorf("%w: window %s has already started", ErrInvalidDate, window)
	}

	return date, window, nil
}

// toDomain собирает бронирование из проверенного запроса
func toDomain(req *Request, date time.Time, window types.TimeWindow) *domain.Booking {
	return &domain.Booking{
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		Email:        req.Email,
		KRAPin:       req.KRAPin,
		BlockNumber:  req.BlockNumber,
		HouseNumber:  req.HouseNumber,
		Package:      req.Package,
		WifiUsername: req.WifiUsername,
		WifiPassword: req.WifiPassword,
		ResourceID:   req.ResourceID,
		BookingDate:  date,
		TimeWindow:   window,
		Status:       domain.StatusConfirmed,
	}
}
