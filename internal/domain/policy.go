package domain

import (
	"errors"
	"time"
)

var (
	// ErrDateInPast is returned for a date before today when past dates are not allowed
	ErrDateInPast = errors.New("date is in the past")

	// ErrDateTooFar is returned for a date beyond the booking window
	ErrDateTooFar = errors.New("date is beyond the booking window")
)

// DatePolicy decides which calendar dates accept bookings
type DatePolicy struct {
	AllowPastDates bool
	// WindowDays limits how far ahead a date may be; 0 means unlimited.
	// Today counts as the first day of the window.
	WindowDays int
}

// Check validates date against today; both are calendar days in the same zone
func (p DatePolicy) Check(date, today time.Time) error {
	d := date.Format(DateFormat)

	if !p.AllowPastDates && d < today.Format(DateFormat) {
		return ErrDateInPast
	}

	if p.WindowDays > 0 {
		last := today.AddDate(0, 0, p.WindowDays-1).Format(DateFormat)
		if d > last {
			return ErrDateTooFar
		}
	}

	return nil
}
