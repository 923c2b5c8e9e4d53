// Package memstore is an in-memory stand-in for the Postgres slot and booking
// repositories, used by service and usecase tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/ISB-BookingService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/ISB-BookingService/internal/infra/storage/slot"
	"github.com/m04kA/ISB-BookingService/pkg/types"
)

// Store holds slots and bookings and mimics the repositories' contracts
type Store struct {
	mu sync.Mutex

	slots      map[string]*domain.Slot
	nextSlotID int64

	bookings      map[int64]*domain.Booking
	nextBookingID int64

	failures map[string]error
	now      func() time.Time
}

// New creates an empty store
func New() *Store {
	return &Store{
		slots:    make(map[string]*domain.Slot),
		bookings: make(map[int64]*domain.Booking),
		failures: make(map[string]error),
		now:      time.Now,
	}
}

// FailOn makes every call of op return err until cleared with a nil err
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) fail(op string) error {
	return s.failures[op]
}

func slotKey(resourceID string, date time.Time, window types.TimeWindow) string {
	return resourceID + "|" + date.Format(domain.DateFormat) + "|" + string(window)
}

func keyOf(k domain.SlotKey) string {
	return slotKey(k.ResourceID, k.Date, k.Window)
}

// PutSlot inserts or replaces a slot row as is, bypassing invariants
func (s *Store) PutSlot(slot domain.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slot.ID == 0 {
		s.nextSlotID++
		slot.ID = s.nextSlotID
	}
	copied := slot
	s.slots[keyOf(slot.Key())] = &copied
}

// PutBooking inserts or replaces a booking row as is
func (s *Store) PutBooking(b domain.Booking) *domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == 0 {
		s.nextBookingID++
		b.ID = s.nextBookingID
	} else if b.ID > s.nextBookingID {
		s.nextBookingID = b.ID
	}
	copied := b
	s.bookings[b.ID] = &copied
	return &b
}

// Slot returns a copy of the slot with the key, or nil
func (s *Store) Slot(key domain.SlotKey) *domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[keyOf(key)]
	if !ok {
		return nil
	}
	copied := *slot
	return &copied
}

// Booking returns a copy of the booking, or nil
func (s *Store) Booking(id int64) *domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil
	}
	copied := *b
	return &copied
}

// SlotCount returns the number of slot rows
func (s *Store) SlotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// Slot repository

func (s *Store) InsertIfAbsent(_ context.Context, resourceID string, date time.Time, windows []types.TimeWindow) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("InsertIfAbsent"); err != nil {
		return 0, err
	}

	var created int64
	for _, w := range windows {
		k := slotKey(resourceID, date, w)
		if _, ok := s.slots[k]; ok {
			continue
		}
		s.nextSlotID++
		s.slots[k] = &domain.Slot{
			ID:         s.nextSlotID,
			ResourceID: resourceID,
			Date:       date,
			Window:     w,
			CreatedAt:  s.now(),
			UpdatedAt:  s.now(),
		}
		created++
	}
	return created, nil
}

func (s *Store) CountByDate(_ context.Context, resourceID string, date time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("CountByDate"); err != nil {
		return 0, err
	}

	count := 0
	prefix := resourceID + "|" + date.Format(domain.DateFormat) + "|"
	for k := range s.slots {
		if strings.HasPrefix(k, prefix) {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListFree(_ context.Context, resourceID string, date time.Time) ([]*domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("ListFree"); err != nil {
		return nil, err
	}

	prefix := resourceID + "|" + date.Format(domain.DateFormat) + "|"
	free := make([]*domain.Slot, 0)
	for k, slot := range s.slots {
		if strings.HasPrefix(k, prefix) && !slot.IsTaken {
			copied := *slot
			free = append(free, &copied)
		}
	}
	sort.Slice(free, func(i, j int) bool { return free[i].Window < free[j].Window })
	return free, nil
}

func (s *Store) GetByKey(_ context.Context, key domain.SlotKey) (*domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[keyOf(key)]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *slot
	return &copied, nil
}

func (s *Store) Claim(_ context.Context, key domain.SlotKey, bookingID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("Claim"); err != nil {
		return err
	}

	slot, ok := s.slots[keyOf(key)]
	if !ok || slot.IsTaken {
		return slotRepo.ErrSlotUnavailable
	}
	id := bookingID
	slot.IsTaken = true
	slot.BookingID = &id
	slot.UpdatedAt = s.now()
	return nil
}

func (s *Store) Release(_ context.Context, key domain.SlotKey, bookingID *int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("Release"); err != nil {
		return 0, err
	}

	slot, ok := s.slots[keyOf(key)]
	if !ok {
		return 0, nil
	}
	if bookingID != nil && (slot.BookingID == nil || *slot.BookingID != *bookingID) {
		return 0, nil
	}
	slot.IsTaken = false
	slot.BookingID = nil
	return 1, nil
}

func (s *Store) ForceRelease(_ context.Context, key domain.SlotKey, bookingID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[keyOf(key)]
	if !ok || (!slot.IsTaken && slot.BookingID == nil) {
		return 0, nil
	}
	if slot.BookingID != nil && *slot.BookingID != bookingID {
		if holder, ok := s.bookings[*slot.BookingID]; ok && holder.IsLive() {
			return 0, nil
		}
	}
	slot.IsTaken = false
	slot.BookingID = nil
	return 1, nil
}

func (s *Store) ClearUnowned(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("ClearUnowned"); err != nil {
		return 0, err
	}

	var cleared int64
	for _, slot := range s.slots {
		if slot.IsTaken && slot.BookingID == nil {
			slot.IsTaken = false
			cleared++
		}
	}
	return cleared, nil
}

func (s *Store) ClearStale(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cleared int64
	for _, slot := range s.slots {
		if slot.BookingID == nil {
			continue
		}
		if b, ok := s.bookings[*slot.BookingID]; ok && b.IsLive() {
			continue
		}
		slot.IsTaken = false
		slot.BookingID = nil
		cleared++
	}
	return cleared, nil
}

func (s *Store) AssignHolder(_ context.Context, key domain.SlotKey, bookingID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := bookingID
	slot, ok := s.slots[keyOf(key)]
	if !ok {
		s.nextSlotID++
		s.slots[keyOf(key)] = &domain.Slot{
			ID:         s.nextSlotID,
			ResourceID: key.ResourceID,
			Date:       key.Date,
			Window:     key.Window,
			IsTaken:    true,
			BookingID:  &id,
		}
		return 1, nil
	}
	if slot.IsTaken && slot.BookingID != nil && *slot.BookingID == bookingID {
		return 0, nil
	}
	slot.IsTaken = true
	slot.BookingID = &id
	return 1, nil
}

// Booking repository

func (s *Store) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("Create"); err != nil {
		return nil, err
	}

	s.nextBookingID++
	b.ID = s.nextBookingID
	b.CreatedAt = s.now()
	b.UpdatedAt = b.CreatedAt

	copied := *b
	s.bookings[b.ID] = &copied
	return b, nil
}

func (s *Store) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("GetByID"); err != nil {
		return nil, err
	}

	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (s *Store) List(_ context.Context, filter domain.BookingFilter) ([]*domain.Booking, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("List"); err != nil {
		return nil, 0, err
	}

	matched := make([]*domain.Booking, 0)
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, b := range s.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(b.FullName), search) &&
			!strings.Contains(strings.ToLower(b.Email), search) &&
			!strings.Contains(strings.ToLower(b.PhoneNumber), search) {
			continue
		}
		copied := *b
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := total
	if filter.PerPage > 0 && start+filter.PerPage < total {
		end = start + filter.PerPage
	}
	return matched[start:end], total, nil
}

func (s *Store) ListLive(_ context.Context) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("ListLive"); err != nil {
		return nil, err
	}

	live := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if b.IsLive() {
			copied := *b
			live = append(live, &copied)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].ID < live[j].ID })
	return live, nil
}

func (s *Store) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("UpdateStatus"); err != nil {
		return err
	}

	b, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	b.UpdatedAt = s.now()
	return nil
}

func (s *Store) UpdateSchedule(_ context.Context, id int64, key domain.SlotKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("UpdateSchedule"); err != nil {
		return err
	}

	b, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.BookingDate = key.Date
	b.TimeWindow = key.Window
	b.UpdatedAt = s.now()
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("Delete"); err != nil {
		return err
	}

	if _, ok := s.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(s.bookings, id)
	return nil
}
