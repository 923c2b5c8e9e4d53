package slots

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	"github.com/m04kA/ISB-BookingService/internal/testutil/memstore"
	"github.com/m04kA/ISB-BookingService/pkg/logger"
	"github.com/m04kA/ISB-BookingService/pkg/types"
)

const testResource = "Saifee Park Nairobi Langata"

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type recordingMetrics struct {
	mu        sync.Mutex
	generated int
	claims    map[string]int
	repairs   int64
}

func (m *recordingMetrics) AddSlotsGenerated(_ string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generated += n
}

func (m *recordingMetrics) IncSlotClaim(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claims == nil {
		m.claims = make(map[string]int)
	}
	m.claims[outcome]++
}

func (m *recordingMetrics) AddSlotRepairs(_ string, n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.repairs += n
}

func nairobi(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(domain.DefaultTimezone)
	require.NoError(t, err)
	return loc
}

func newTestService(t *testing.T, now time.Time) (*Service, *memstore.Store, *recordingMetrics) {
	t.Helper()
	store := memstore.New()
	m := &recordingMetrics{}
	svc := NewService(store, domain.DefaultCalendar(nairobi(t)), m, logger.NewNop()).
		WithTimeProvider(fixedTime{t: now})
	return svc, store, m
}

func date(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(domain.DateFormat, raw, nairobi(t))
	require.NoError(t, err)
	return d
}

func TestGenerate_WeekdayCreatesAllWindows(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store, m := newTestService(t, now)

	// 2025-06-10 - вторник
	created, err := svc.Generate(ctx, testResource, date(t, "2025-06-10"))
	require.NoError(t, err)
	assert.Equal(t, 8, created)
	assert.Equal(t, 8, m.generated)

	free, err := svc.ListFree(ctx, testResource, date(t, "2025-06-10"))
	require.NoError(t, err)
	require.Len(t, free, 8)
	assert.Equal(t, types.TimeWindow("08:00-09:00"), free[0].Window)
	assert.Equal(t, types.TimeWindow("15:00-16:00"), free[7].Window)
	assert.Equal(t, 8, store.SlotCount())
}

func TestGenerate_Sunday(t *testing.T) {
	svc, _, _ := newTestService(t, time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC))

	// 2025-06-15 - воскресенье
	created, err := svc.Generate(context.Background(), testResource, date(t, "2025-06-15"))
	require.NoError(t, err)
	assert.Equal(t, 6, created)

	free, err := svc.ListFree(context.Background(), testResource, date(t, "2025-06-15"))
	require.NoError(t, err)
	require.Len(t, free, 6)
	assert.Equal(t, types.TimeWindow("10:00-11:00"), free[0].Window)
}

func TestGenerate_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	first, err := svc.Generate(ctx, testResource, date(t, "2025-06-10"))
	require.NoError(t, err)
	second, err := svc.Generate(ctx, testResource, date(t, "2025-06-10"))
	require.NoError(t, err)

	assert.Equal(t, 8, first)
	assert.Equal(t, 0, second)
	assert.Equal(t, 8, store.SlotCount())
}

func TestGenerate_TodaySkipsElapsedHours(t *testing.T) {
	// 10:30 по Найроби (UTC+3), вторник 2025-06-10
	now := time.Date(2025, 6, 10, 7, 30, 0, 0, time.UTC)
	svc, _, _ := newTestService(t, now)

	created, err := svc.Generate(context.Background(), testResource, date(t, "2025-06-10"))
	require.NoError(t, err)
	// Остаются окна с 11:00 до 15:00
	assert.Equal(t, 5, created)

	free, err := svc.ListFree(context.Background(), testResource, date(t, "2025-06-10"))
	require.NoError(t, err)
	require.NotEmpty(t, free)
	assert.Equal(t, types.TimeWindow("11:00-12:00"), free[0].Window)
}

func TestGenerate_StorageError(t *testing.T) {
	svc, store, _ := newTestService(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store.FailOn("InsertIfAbsent", errors.New("connection reset"))

	_, err := svc.Generate(context.Background(), testResource, date(t, "2025-06-10"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestEnsureSlots_SkipsWhenRowsExist(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	d := date(t, "2025-06-10")
	store.PutSlot(domain.Slot{ResourceID: testResource, Date: d, Window: "09:00-10:00"})

	created, err := svc.EnsureSlots(ctx, testResource, d)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 1, store.SlotCount())
}

func TestClaim(t *testing.T) {
	ctx := context.Background()
	svc, store, m := newTestService(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	d := date(t, "2025-06-10")
	_, err := svc.Generate(ctx, testResource, d)
	require.NoError(t, err)

	key := domain.SlotKey{ResourceID: testResource, Date: d, Window: "09:00-10:00"}

	require.NoError(t, svc.Claim(ctx, key, 1))
	slot := store.Slot(key)
	require.NotNil(t, slot)
	assert.True(t, slot.IsTaken)
	require.NotNil(t, slot.BookingID)
	assert.Equal(t, int64(1), *slot.BookingID)

	err = svc.Claim(ctx, key, 2)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	missing := domain.SlotKey{ResourceID: testResource, Date: d, Window: "20:00-21:00"}
	assert.ErrorIs(t, svc.Claim(ctx, missing, 3), ErrSlotUnavailable)

	assert.Equal(t, 1, m.claims[claimOutcomeClaimed])
	assert.Equal(t, 2, m.claims[claimOutcomeUnavailable])
}

func TestClaim_ConcurrentExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	d := date(t, "2025-06-10")
	_, err := svc.Generate(ctx, testResource, d)
	require.NoError(t, err)
	key := domain.SlotKey{ResourceID: testResource, Date: d, Window: "10:00-11:00"}

	const workers = 20
	var wins, losses int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			err := svc.Claim(ctx, key, id)
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case errors.Is(err, ErrSlotUnavailable):
				atomic.AddInt32(&losses, 1)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
	assert.Equal(t, int32(workers-1), losses)
}

func TestRelease_Scoped(t *testing.T) {
	ctx := context.Background()
	svc, store, m := newTestService(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	d := date(t, "2025-06-10")
	key := domain.SlotKey{ResourceID: testResource, Date: d, Window: "09:00-10:00"}
	holder := int64(42)
	store.PutSlot(domain.Slot{ResourceID: testResource, Date: d, Window: key.Window, IsTaken: true, BookingID: &holder})

	released, err := svc.Release(ctx, key, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), released)
	assert.Zero(t, m.repairs)

	slot := store.Slot(key)
	assert.False(t, slot.IsTaken)
	assert.Nil(t, slot.BookingID)
}

func TestRelease_ForcedWhenOwnershipDiverged(t *testing.T) {
	ctx := context.Background()
	svc, store, m := newTestService(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	d := date(t, "2025-06-10")
	key := domain.SlotKey{ResourceID: testResource, Date: d, Window: "09:00-10:00"}
	// Слот занят без владельца
	store.PutSlot(domain.Slot{ResourceID: testResource, Date: d, Window: key.Window, IsTaken: true})

	released, err := svc.Release(ctx, key, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), released)
	assert.Equal(t, int64(1), m.repairs)
	assert.False(t, store.Slot(key).IsTaken)
}

func TestRelease_ForcedSkipsSlotOfAnotherLiveBooking(t *testing.T) {
	ctx := context.Background()
	svc, store, m := newTestService(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	d := date(t, "2025-06-10")
	key := domain.SlotKey{ResourceID: testResource, Date: d, Window: "09:00-10:00"}
	other := store.PutBooking(domain.Booking{
		ResourceID: testResource, BookingDate: d, TimeWindow: key.Window, Status: domain.StatusConfirmed,
	})
	store.PutSlot(domain.Slot{ResourceID: testResource, Date: d, Window: key.Window, IsTaken: true, BookingID: &other.ID})

	released, err := svc.Release(ctx, key, other.ID+100)
	require.NoError(t, err)
	assert.Zero(t, released)
	assert.Zero(t, m.repairs)

	slot := store.Slot(key)
	assert.True(t, slot.IsTaken)
	assert.Equal(t, other.ID, *slot.BookingID)
}
