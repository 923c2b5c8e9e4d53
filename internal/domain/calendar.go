package domain

import (
	"time"

	"github.com/m04kA/ISB-BookingService/pkg/types"
)

// OperatingHours is a half-open range of hours [StartHour, EndHour)
type OperatingHours struct {
	StartHour int
	EndHour   int
}

// Calendar maps a weekday to its operating hours in a fixed time zone
type Calendar struct {
	hours    map[time.Weekday]OperatingHours
	location *time.Location
}

// NewCalendar builds a calendar; weekdays missing from hours are closed
func NewCalendar(hours map[time.Weekday]OperatingHours, location *time.Location) *Calendar {
	if location == nil {
		location = time.UTC
	}

	copied := make(map[time.Weekday]OperatingHours, len(hours))
	for day, h := range hours {
		copied[day] = h
	}

	return &Calendar{hours: copied, location: location}
}

// NewWeeklyCalendar builds a calendar with one range for Monday-Friday and separate weekend ranges
func NewWeeklyCalendar(weekdays, saturday, sunday OperatingHours, location *time.Location) *Calendar {
	return NewCalendar(map[time.Weekday]OperatingHours{
		time.Monday:    weekdays,
		time.Tuesday:   weekdays,
		time.Wednesday: weekdays,
		time.Thursday:  weekdays,
		time.Friday:    weekdays,
		time.Saturday:  saturday,
		time.Sunday:    sunday,
	}, location)
}

// DefaultCalendar returns the reference calendar in the given zone
func DefaultCalendar(location *time.Location) *Calendar {
	return NewWeeklyCalendar(DefaultWeekdayHours, DefaultSaturdayHours, DefaultSundayHours, location)
}

// Location returns the calendar's time zone
func (c *Calendar) Location() *time.Location {
	return c.location
}

// HoursFor returns the operating hours of a weekday
func (c *Calendar) HoursFor(day time.Weekday) (OperatingHours, bool) {
	h, ok := c.hours[day]
	if !ok || h.EndHour <= h.StartHour {
		return OperatingHours{}, false
	}
	return h, true
}

// Windows returns the hourly windows for the weekday of date, in ascending order
func (c *Calendar) Windows(date time.Time) []types.TimeWindow {
	h, ok := c.HoursFor(date.Weekday())
	if !ok {
		return nil
	}

	windows := make([]types.TimeWindow, 0, h.EndHour-h.StartHour)
	for hour := h.StartHour; hour < h.EndHour; hour++ {
		windows = append(windows, types.NewHourlyWindow(hour))
	}
	return windows
}

// Now converts t into the calendar's zone
func (c *Calendar) Now(t time.Time) time.Time {
	return t.In(c.location)
}

// Today returns midnight of the calendar day containing t
func (c *Calendar) Today(t time.Time) time.Time {
	local := t.In(c.location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.location)
}

// ParseDate parses YYYY-MM-DD as a calendar date in the calendar's zone
func (c *Calendar) ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, raw, c.location)
}

// IsToday reports whether date falls on the same calendar day as now
func (c *Calendar) IsToday(date, now time.Time) bool {
	return date.Format(DateFormat) == now.In(c.location).Format(DateFormat)
}

// HasStarted reports whether window on date has already begun at now.
// Only windows of the current calendar day can have started; past days are
// left to DatePolicy.
func (c *Calendar) HasStarted(date time.Time, window types.TimeWindow, now time.Time) bool {
	if !c.IsToday(date, now) {
		return false
	}
	local := now.In(c.location)
	return window.StartMinutes() <= local.Hour()*60+local.Minute()
}
