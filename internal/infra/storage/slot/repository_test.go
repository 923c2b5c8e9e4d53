package slot

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	"github.com/m04kA/ISB-BookingService/pkg/types"
)

var testKey = domain.SlotKey{
	ResourceID: "Orange House Uthiru",
	Date:       time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	Window:     "09:00-10:00",
}

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func TestInsertIfAbsent(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(`INSERT INTO time_slots .* ON CONFLICT \(resource_id, slot_date, time_window\) DO NOTHING`).
		WithArgs(
			testKey.ResourceID, "2025-06-10", "08:00-09:00", false,
			testKey.ResourceID, "2025-06-10", "09:00-10:00", false,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.InsertIfAbsent(context.Background(), testKey.ResourceID, testKey.Date,
		[]types.TimeWindow{"08:00-09:00", "09:00-10:00"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertIfAbsent_NoWindows(t *testing.T) {
	repo, mock := newTestRepository(t)

	created, err := repo.InsertIfAbsent(context.Background(), testKey.ResourceID, testKey.Date, nil)

	require.NoError(t, err)
	assert.Zero(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaim(t *testing.T) {
	claimSQL := regexp.QuoteMeta("UPDATE time_slots SET is_taken = $1, booking_id = $2, updated_at = NOW() " +
		"WHERE resource_id = $3 AND slot_date = $4 AND time_window = $5 AND is_taken = $6")

	t.Run("free slot is claimed", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		mock.ExpectExec(claimSQL).
			WithArgs(true, int64(42), testKey.ResourceID, "2025-06-10", "09:00-10:00", false).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Claim(context.Background(), testKey, 42))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("taken or missing slot is unavailable", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		mock.ExpectExec(claimSQL).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Claim(context.Background(), testKey, 43)
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("driver error", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		mock.ExpectExec(claimSQL).WillReturnError(errors.New("connection reset"))

		err := repo.Claim(context.Background(), testKey, 44)
		assert.ErrorIs(t, err, ErrExecQuery)
	})
}

func TestRelease_ScopedToBooking(t *testing.T) {
	repo, mock := newTestRepository(t)
	bookingID := int64(42)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE time_slots SET is_taken = $1, booking_id = $2, updated_at = NOW() "+
		"WHERE resource_id = $3 AND slot_date = $4 AND time_window = $5 AND booking_id = $6")).
		WithArgs(false, nil, testKey.ResourceID, "2025-06-10", "09:00-10:00", bookingID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	released, err := repo.Release(context.Background(), testKey, &bookingID)

	require.NoError(t, err)
	assert.Equal(t, int64(1), released)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForceRelease(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(`UPDATE time_slots SET .* NOT EXISTS \(SELECT 1 FROM bookings b WHERE b.id = time_slots.booking_id AND b.id <> \$\d+ AND b.status = ANY\(\$\d+\)\)`).
		WithArgs(false, nil, testKey.ResourceID, "2025-06-10", "09:00-10:00", true, int64(42), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	released, err := repo.ForceRelease(context.Background(), testKey, 42)

	require.NoError(t, err)
	assert.Equal(t, int64(1), released)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFree(t *testing.T) {
	repo, mock := newTestRepository(t)
	now := time.Now()

	rows := sqlmock.NewRows(slotColumns).
		AddRow(int64(1), testKey.ResourceID, testKey.Date, "08:00-09:00", false, nil, now, now).
		AddRow(int64(2), testKey.ResourceID, testKey.Date, "10:00-11:00", false, nil, now, now)

	mock.ExpectQuery(`SELECT .* FROM time_slots WHERE .* ORDER BY time_window ASC`).
		WithArgs(testKey.ResourceID, "2025-06-10", false).
		WillReturnRows(rows)

	slots, err := repo.ListFree(context.Background(), testKey.ResourceID, testKey.Date)

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, types.TimeWindow("08:00-09:00"), slots[0].Window)
	assert.Equal(t, types.TimeWindow("10:00-11:00"), slots[1].Window)
	assert.Nil(t, slots[0].BookingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByKey_NotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT .* FROM time_slots WHERE`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByKey(context.Background(), testKey)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestGetByKey_TakenSlot(t *testing.T) {
	repo, mock := newTestRepository(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM time_slots WHERE`).
		WillReturnRows(sqlmock.NewRows(slotColumns).
			AddRow(int64(7), testKey.ResourceID, testKey.Date, "09:00-10:00", true, int64(99), now, now))

	s, err := repo.GetByKey(context.Background(), testKey)

	require.NoError(t, err)
	require.NotNil(t, s.BookingID)
	assert.Equal(t, int64(99), *s.BookingID)
	assert.True(t, s.IsConsistent())
}

func TestClearStale(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(`UPDATE time_slots SET .* WHERE booking_id IS NOT NULL AND NOT EXISTS`).
		WithArgs(false, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	cleared, err := repo.ClearStale(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), cleared)
}

func TestClearUnowned(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE time_slots SET is_taken = $1, updated_at = NOW() WHERE booking_id IS NULL AND is_taken = $2")).
		WithArgs(false, true).
		WillReturnResult(sqlmock.NewResult(0, 2))

	cleared, err := repo.ClearUnowned(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)
}

func TestAssignHolder(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(`INSERT INTO time_slots .* ON CONFLICT \(resource_id, slot_date, time_window\) DO UPDATE SET is_taken = TRUE`).
		WithArgs(testKey.ResourceID, "2025-06-10", "09:00-10:00", true, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assigned, err := repo.AssignHolder(context.Background(), testKey, 5)

	require.NoError(t, err)
	assert.Equal(t, int64(1), assigned)
}
