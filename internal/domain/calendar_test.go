package domain

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ISB-BookingService/pkg/types"
)

func TestCalendar_Windows(t *testing.T) {
	cal := DefaultCalendar(time.UTC)

	tests := []struct {
		name  string
		date  string
		first types.TimeWindow
		last  types.TimeWindow
		count int
	}{
		{name: "tuesday", date: "2025-06-10", first: "08:00-09:00", last: "15:00-16:00", count: 8},
		{name: "saturday", date: "2025-06-14", first: "09:00-10:00", last: "15:00-16:00", count: 7},
		{name: "sunday", date: "2025-06-15", first: "10:00-11:00", last: "15:00-16:00", count: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := cal.ParseDate(tt.date)
			require.NoError(t, err)

			windows := cal.Windows(date)
			require.Len(t, windows, tt.count)
			assert.Equal(t, tt.first, windows[0])
			assert.Equal(t, tt.last, windows[len(windows)-1])
		})
	}
}

func TestCalendar_ClosedDay(t *testing.T) {
	cal := NewCalendar(map[time.Weekday]OperatingHours{
		time.Monday: {StartHour: 9, EndHour: 12},
	}, time.UTC)

	sunday := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, cal.Windows(sunday))

	monday := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []types.TimeWindow{"09:00-10:00", "10:00-11:00", "11:00-12:00"}, cal.Windows(monday))
}

func TestCalendar_TodayUsesCalendarZone(t *testing.T) {
	nairobi, err := time.LoadLocation("Africa/Nairobi")
	require.NoError(t, err)
	cal := DefaultCalendar(nairobi)

	// 22:30 UTC on June 9 is already June 10 in Nairobi (UTC+3)
	now := time.Date(2025, 6, 9, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-10", cal.Today(now).Format(DateFormat))

	date, err := cal.ParseDate("2025-06-10")
	require.NoError(t, err)
	assert.True(t, cal.IsToday(date, now))
}

func TestCalendar_HasStarted(t *testing.T) {
	nairobi, err := time.LoadLocation("Africa/Nairobi")
	require.NoError(t, err)
	cal := DefaultCalendar(nairobi)

	// 07:15 UTC = 10:15 in Nairobi
	now := time.Date(2025, 6, 10, 7, 15, 0, 0, time.UTC)
	today, err := cal.ParseDate("2025-06-10")
	require.NoError(t, err)
	tomorrow, err := cal.ParseDate("2025-06-11")
	require.NoError(t, err)

	assert.True(t, cal.HasStarted(today, "10:00-11:00", now))
	assert.True(t, cal.HasStarted(today, "08:00-09:00", now))
	assert.False(t, cal.HasStarted(today, "11:00-12:00", now))
	assert.False(t, cal.HasStarted(tomorrow, "08:00-09:00", now))
}

func TestCatalog(t *testing.T) {
	cat := DefaultCatalog()

	assert.True(t, cat.HasResource("Orange House Uthiru"))
	assert.False(t, cat.HasResource("Unknown Estate"))

	assert.True(t, cat.HasPackage(DefaultPremiumResource, "Gold 80mbps @8000"))
	assert.False(t, cat.HasPackage(DefaultPremiumResource, "Starter 5mbps @1500"))
	assert.True(t, cat.HasPackage("Kings Saaphire Nakuru", "Starter 5mbps @1500"))
	assert.False(t, cat.HasPackage("Kings Saaphire Nakuru", "Gold 80mbps @8000"))
}

func TestBookingStatus(t *testing.T) {
	live := []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted}
	for _, s := range live {
		assert.True(t, s.IsLive(), s)
	}
	assert.False(t, StatusCancelled.IsLive())
	assert.False(t, StatusFailed.IsLive())

	_, err := ParseBookingStatus("no_show")
	assert.Error(t, err)

	s, err := ParseBookingStatus("cancelled")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, s)
}

func TestSlotKey_Equal(t *testing.T) {
	nairobi, err := time.LoadLocation("Africa/Nairobi")
	require.NoError(t, err)

	a := SlotKey{ResourceID: "R", Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Window: "09:00-10:00"}
	b := SlotKey{ResourceID: "R", Date: time.Date(2025, 6, 10, 0, 0, 0, 0, nairobi), Window: "09:00-10:00"}
	c := SlotKey{ResourceID: "R", Date: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), Window: "09:00-10:00"}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, "R/2025-06-10/09:00-10:00", a.String())
}

func TestDatePolicy(t *testing.T) {
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		policy DatePolicy
		date   time.Time
		want   error
	}{
		{name: "today", policy: DatePolicy{WindowDays: 30}, date: today},
		{name: "yesterday rejected", policy: DatePolicy{WindowDays: 30}, date: today.AddDate(0, 0, -1), want: ErrDateInPast},
		{name: "yesterday allowed", policy: DatePolicy{AllowPastDates: true, WindowDays: 30}, date: today.AddDate(0, 0, -1)},
		{name: "last day of window", policy: DatePolicy{WindowDays: 30}, date: today.AddDate(0, 0, 29)},
		{name: "past the window", policy: DatePolicy{WindowDays: 30}, date: today.AddDate(0, 0, 30), want: ErrDateTooFar},
		{name: "unlimited window", policy: DatePolicy{}, date: today.AddDate(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Check(tt.date, today)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
