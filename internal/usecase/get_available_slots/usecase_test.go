package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	"github.com/m04kA/ISB-BookingService/internal/integrations/webhook"
	"github.com/m04kA/ISB-BookingService/internal/service/bookings"
	bookingModels "github.com/m04kA/ISB-BookingService/internal/service/bookings/models"
	"github.com/m04kA/ISB-BookingService/internal/service/slots"
	"github.com/m04kA/ISB-BookingService/internal/testutil/memstore"
	"github.com/m04kA/ISB-BookingService/pkg/logger"
	"github.com/m04kA/ISB-BookingService/pkg/ptr"
	"github.com/m04kA/ISB-BookingService/pkg/types"
)

const resource = "Kerina Apartments Nairobi Rongai"

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fixture struct {
	uc          *UseCase
	store       *memstore.Store
	slotService *slots.Service
}

// newFixture собирает use case в UTC с текущим временем now
func newFixture(now time.Time, policy domain.DatePolicy) *fixture {
	store := memstore.New()
	log := logger.NewNop()
	calendar := domain.DefaultCalendar(time.UTC)

	slotService := slots.NewService(store, calendar, nil, log).WithTimeProvider(fixedTime{t: now})
	uc := NewUseCase(slotService, domain.DefaultCatalog(), calendar, policy, log).
		WithTimeProvider(fixedTime{t: now})

	return &fixture{uc: uc, store: store, slotService: slotService}
}

func windows(resp *Response) []types.TimeWindow {
	out := make([]types.TimeWindow, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		out = append(out, s.Window)
	}
	return out
}

func TestExecute_LazyGeneration(t *testing.T) {
	f := newFixture(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), domain.DatePolicy{WindowDays: 30})

	resp, err := f.uc.Execute(context.Background(), &Request{ResourceID: resource, Date: "2025-06-10"})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 8)
	assert.Equal(t, types.TimeWindow("08:00-09:00"), resp.Slots[0].Window)
	assert.Equal(t, "8:00 AM - 9:00 AM", resp.Slots[0].Label)
	assert.Equal(t, types.TimeWindow("15:00-16:00"), resp.Slots[7].Window)
	assert.Equal(t, 8, f.store.SlotCount())

	// Повторный запрос не создает новых строк
	_, err = f.uc.Execute(context.Background(), &Request{ResourceID: resource, Date: "2025-06-10"})
	require.NoError(t, err)
	assert.Equal(t, 8, f.store.SlotCount())
}

func TestExecute_TotalOverBadInput(t *testing.T) {
	f := newFixture(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), domain.DatePolicy{WindowDays: 30})

	tests := []struct {
		name string
		req  Request
	}{
		{name: "garbage date", req: Request{ResourceID: resource, Date: "not-a-date"}},
		{name: "impossible date", req: Request{ResourceID: resource, Date: "2025-02-30"}},
		{name: "empty date", req: Request{ResourceID: resource}},
		{name: "unknown resource", req: Request{ResourceID: "Atlantis", Date: "2025-06-10"}},
		{name: "past date", req: Request{ResourceID: resource, Date: "2025-05-31"}},
		{name: "beyond window", req: Request{ResourceID: resource, Date: "2025-08-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.uc.Execute(context.Background(), &tt.req)
			require.NoError(t, err)
			assert.Empty(t, resp.Slots)
		})
	}
	assert.Zero(t, f.store.SlotCount())
}

func TestExecute_PastDatesAllowedByPolicy(t *testing.T) {
	f := newFixture(time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC), domain.DatePolicy{AllowPastDates: true})

	resp, err := f.uc.Execute(context.Background(), &Request{ResourceID: resource, Date: "2025-06-10"})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 8)
}

func TestExecute_TodayHidesStartedWindows(t *testing.T) {
	// Вторник 2025-06-10, 10:30
	now := time.Date(2025, 6, 10, 10, 30, 0, 0, time.UTC)
	f := newFixture(now, domain.DatePolicy{WindowDays: 30})

	// Слоты созданы заранее целиком, например фоновым продлением
	for h := 8; h < 16; h++ {
		f.store.PutSlot(domain.Slot{ResourceID: resource, Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Window: types.NewHourlyWindow(h)})
	}

	resp, err := f.uc.Execute(context.Background(), &Request{ResourceID: resource, Date: "2025-06-10"})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeWindow{
		"11:00-12:00", "12:00-13:00", "13:00-14:00", "14:00-15:00", "15:00-16:00",
	}, windows(resp))
}

func TestExecute_ClosedDayIsEmpty(t *testing.T) {
	store := memstore.New()
	calendar := domain.NewCalendar(map[time.Weekday]domain.OperatingHours{
		time.Monday: {StartHour: 8, EndHour: 16},
	}, time.UTC)
	now := fixedTime{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	slotService := slots.NewService(store, calendar, nil, logger.NewNop()).WithTimeProvider(now)
	uc := NewUseCase(slotService, domain.DefaultCatalog(), calendar, domain.DatePolicy{}, logger.NewNop()).
		WithTimeProvider(now)

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: resource, Date: "2025-06-10"})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_StorageError(t *testing.T) {
	f := newFixture(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), domain.DatePolicy{WindowDays: 30})
	f.store.FailOn("CountByDate", errors.New("connection refused"))

	_, err := f.uc.Execute(context.Background(), &Request{ResourceID: resource, Date: "2025-06-10"})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_CancelledBookingWindowReappears(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), domain.DatePolicy{WindowDays: 30})
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	_, err := f.slotService.Generate(ctx, resource, date)
	require.NoError(t, err)

	f.store.PutBooking(domain.Booking{
		ID:          42,
		ResourceID:  resource,
		BookingDate: date,
		TimeWindow:  "09:00-10:00",
		Status:      domain.StatusConfirmed,
	})
	f.store.PutSlot(domain.Slot{
		ResourceID: resource, Date: date, Window: "09:00-10:00", IsTaken: true, BookingID: ptr.Ptr(int64(42)),
	})

	before, err := f.uc.Execute(ctx, &Request{ResourceID: resource, Date: "2025-06-10"})
	require.NoError(t, err)
	assert.NotContains(t, windows(before), types.TimeWindow("09:00-10:00"))

	bookingService := bookings.NewService(f.store, f.slotService, memstore.NewTxManager(f.store), webhook.NopNotifier{}, logger.NewNop())
	result, err := bookingService.UpdateStatus(ctx, &bookingModels.UpdateStatusRequest{IDs: []int64{42}, Status: "cancelled"})
	require.NoError(t, err)
	require.Equal(t, 1, result.Affected)

	after, err := f.uc.Execute(ctx, &Request{ResourceID: resource, Date: "2025-06-10"})
	require.NoError(t, err)
	assert.Contains(t, windows(after), types.TimeWindow("09:00-10:00"))
	assert.Len(t, after.Slots, 8)
}
