package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTimeWindow возвращается, когда строка не соответствует формату HH:MM-HH:MM
var ErrInvalidTimeWindow = errors.New("types: invalid time window, expected HH:MM-HH:MM")

// TimeWindow временное окно слота в формате "HH:MM-HH:MM" (например "09:00-10:00")
// Хранится в БД как строка, поэтому сравнение строк совпадает с порядком по времени начала
type TimeWindow string

// NewHourlyWindow создает часовое окно [hour:00, hour+1:00)
func NewHourlyWindow(hour int) TimeWindow {
	return TimeWindow(fmt.Sprintf("%02d:00-%02d:00", hour, hour+1))
}

// ParseTimeWindow парсит и валидирует строку окна
func ParseTimeWindow(s string) (TimeWindow, error) {
	w := TimeWindow(strings.TrimSpace(s))
	if err := w.Validate(); err != nil {
		return "", err
	}
	return w, nil
}

// Validate проверяет формат окна и что конец строго позже начала
func (w TimeWindow) Validate() error {
	start, end, ok := strings.Cut(string(w), "-")
	if !ok {
		return ErrInvalidTimeWindow
	}

	startMin, err := parseClock(start)
	if err != nil {
		return err
	}
	endMin, err := parseClock(end)
	if err != nil {
		return err
	}

	if endMin <= startMin {
		return fmt.Errorf("%w: end %s is not after start %s", ErrInvalidTimeWindow, end, start)
	}
	return nil
}

// Start возвращает время начала "HH:MM"
func (w TimeWindow) Start() string {
	start, _, _ := strings.Cut(string(w), "-")
	return start
}

// End возвращает время окончания "HH:MM"
func (w TimeWindow) End() string {
	_, end, _ := strings.Cut(string(w), "-")
	return end
}

// StartMinutes возвращает начало окна в минутах от полуночи (-1 для невалидного окна)
func (w TimeWindow) StartMinutes() int {
	m, err := parseClock(w.Start())
	if err != nil {
		return -1
	}
	return m
}

// Label человекочитаемое представление: "8:00 AM - 9:00 AM"
func (w TimeWindow) Label() string {
	startMin, err := parseClock(w.Start())
	if err != nil {
		return string(w)
	}
	endMin, err := parseClock(w.End())
	if err != nil {
		return string(w)
	}
	return formatTwelveHour(startMin) + " - " + formatTwelveHour(endMin)
}

// String реализует fmt.Stringer
func (w TimeWindow) String() string {
	return string(w)
}

// parseClock парсит "HH:MM" в минуты от полуночи
func parseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: bad clock %q", ErrInvalidTimeWindow, s)
	}

	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("%w: bad hour in %q", ErrInvalidTimeWindow, s)
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: bad minute in %q", ErrInvalidTimeWindow, s)
	}
	if h == 24 && m != 0 {
		return 0, fmt.Errorf("%w: %q is past midnight", ErrInvalidTimeWindow, s)
	}

	return h*60 + m, nil
}

func formatTwelveHour(minutes int) string {
	h, m := (minutes/60)%24, minutes%60

	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}

	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}
