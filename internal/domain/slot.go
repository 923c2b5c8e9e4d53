package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/ISB-BookingService/pkg/types"
)

// SlotKey identifies a slot: one hourly window of one resource on one date
type SlotKey struct {
	ResourceID string
	Date       time.Time
	Window     types.TimeWindow
}

// String renders the key for logs
func (k SlotKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.ResourceID, k.Date.Format(DateFormat), k.Window)
}

// Equal compares keys by calendar date, ignoring time of day and location
func (k SlotKey) Equal(other SlotKey) bool {
	return k.ResourceID == other.ResourceID &&
		k.Window == other.Window &&
		k.Date.Format(DateFormat) == other.Date.Format(DateFormat)
}

// Slot is a bookable window, either free or bound to a booking
type Slot struct {
	ID         int64
	ResourceID string
	Date       time.Time
	Window     types.TimeWindow
	IsTaken    bool
	BookingID  *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Key returns the identity of the slot
func (s *Slot) Key() SlotKey {
	return SlotKey{ResourceID: s.ResourceID, Date: s.Date, Window: s.Window}
}

// IsConsistent reports whether is_taken agrees with booking_id
func (s *Slot) IsConsistent() bool {
	return s.IsTaken == (s.BookingID != nil)
}
