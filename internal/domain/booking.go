package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/ISB-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusFailed    BookingStatus = "failed"
)

// IsValid reports whether the status is one of the known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// IsLive reports whether a booking in this status may hold a slot
func (s BookingStatus) IsLive() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCompleted
}

// ParseBookingStatus converts a raw string into a BookingStatus
func ParseBookingStatus(raw string) (BookingStatus, error) {
	s := BookingStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown booking status %q", raw)
	}
	return s, nil
}

// Booking represents an installation appointment
type Booking struct {
	ID int64

	// Customer fields, opaque to slot allocation
	FullName     string
	PhoneNumber  string
	Email        string
	KRAPin       string
	BlockNumber  string
	HouseNumber  string
	Package      string
	WifiUsername string
	WifiPassword string

	ResourceID  string
	BookingDate time.Time
	TimeWindow  types.TimeWindow
	Status      BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotKey returns the key of the slot this booking is bound to
func (b *Booking) SlotKey() SlotKey {
	return SlotKey{ResourceID: b.ResourceID, Date: b.BookingDate, Window: b.TimeWindow}
}

// IsLive returns true if the booking may hold a slot
func (b *Booking) IsLive() bool {
	return b.Status.IsLive()
}

// BookingFilter filter for the admin booking list
type BookingFilter struct {
	Status  *BookingStatus // nil - any status
	Search  string         // substring of name, email or phone
	OrderBy string         // one of SortableBookingColumns
	Desc    bool
	Page    int // 1-based
	PerPage int
}

// Offset returns the row offset of the requested page
func (f BookingFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.PerPage
}

// BookingPage one page of the admin booking list
type BookingPage struct {
	Bookings []*Booking
	Total    int
	Page     int
	PerPage  int
}
