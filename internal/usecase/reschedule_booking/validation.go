package reschedule_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/ISB-BookingService/pkg/types"
)

// validateRequest проверяет формат даты и окна и политику дат
func (uc *UseCase) validateRequest(req *Request, now time.Time) (time.Time, types.TimeWindow, error) {
	req.Date = strings.TrimSpace(req.Date)
	req.TimeWindow = strings.TrimSpace(req.TimeWindow)

	if err := uc.validator.Struct(req); err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
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
