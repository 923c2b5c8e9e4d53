package dbmetrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedQuery struct {
	operation string
	failed    bool
}

type fakeRecorder struct {
	queries []recordedQuery
}

func (f *fakeRecorder) ObserveDBQuery(operation string, _ time.Duration, err error) {
	f.queries = append(f.queries, recordedQuery{operation: operation, failed: err != nil})
}

func (f *fakeRecorder) SetDBPoolStats(int, int, int, int64) {}

func TestDB_RecordsQueries(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	rec := &fakeRecorder{}
	db := Wrap(sqlDB, rec)

	mock.ExpectExec("UPDATE time_slots").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM bookings").WillReturnError(errors.New("boom"))

	_, err = db.ExecContext(context.Background(), "UPDATE time_slots SET is_taken = false")
	require.NoError(t, err)
	_, err = db.ExecContext(context.Background(), "DELETE FROM bookings WHERE id = 1")
	require.Error(t, err)

	assert.Equal(t, []recordedQuery{
		{operation: "UPDATE", failed: false},
		{operation: "DELETE", failed: true},
	}, rec.queries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_BeginTxTracesQueries(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	rec := &fakeRecorder{}
	db := Wrap(sqlDB, rec)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO time_slots").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(context.Background(), "INSERT INTO time_slots (id) VALUES (1)")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, []recordedQuery{{operation: "INSERT"}}, rec.queries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExecutor(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := Wrap(sqlDB, nil)
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, db, GetExecutor(ctx, db))

	mock.ExpectBegin()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Equal(t, tx, GetExecutor(txCtx, db))

	mock.ExpectRollback()
	require.NoError(t, tx.Rollback())
}

func TestOperationOf(t *testing.T) {
	assert.Equal(t, "SELECT", operationOf("  select id from bookings"))
	assert.Equal(t, "UNKNOWN", operationOf(""))
}
