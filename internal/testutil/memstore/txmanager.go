package memstore

import (
	"context"
	"sync"

	"github.com/m04kA/ISB-BookingService/internal/domain"
)

type txKey struct{}

// TxManager runs functions one at a time and restores the store when they fail,
// which is enough to observe commit and rollback behaviour in tests
type TxManager struct {
	store *Store
	mu    sync.Mutex
}

// NewTxManager creates a transaction manager over the store
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.store.restore(snapshot)
		return err
	}
	return nil
}

type state struct {
	slots         map[string]domain.Slot
	nextSlotID    int64
	bookings      map[int64]domain.Booking
	nextBookingID int64
}

func (s *Store) snapshot() state {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := state{
		slots:         make(map[string]domain.Slot, len(s.slots)),
		nextSlotID:    s.nextSlotID,
		bookings:      make(map[int64]domain.Booking, len(s.bookings)),
		nextBookingID: s.nextBookingID,
	}
	for k, v := range s.slots {
		st.slots[k] = *v
	}
	for k, v := range s.bookings {
		st.bookings[k] = *v
	}
	return st
}

func (s *Store) restore(st state) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots = make(map[string]*domain.Slot, len(st.slots))
	for k, v := range st.slots {
		copied := v
		s.slots[k] = &copied
	}
	s.bookings = make(map[int64]*domain.Booking, len(st.bookings))
	for k, v := range st.bookings {
		copied := v
		s.bookings[k] = &copied
	}
	s.nextSlotID = st.nextSlotID
	s.nextBookingID = st.nextBookingID
}
