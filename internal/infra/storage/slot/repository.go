package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	"github.com/m04kA/ISB-BookingService/pkg/dbmetrics"
	"github.com/m04kA/ISB-BookingService/pkg/psqlbuilder"
	"github.com/m04kA/ISB-BookingService/pkg/types"
)

const (
	tableName = "time_slots"

	// onConflictKey уникальный ключ слота, на который опираются идемпотентные вставки
	onConflictKey = "ON CONFLICT (resource_id, slot_date, time_window)"

	// notHeldByOtherLive условие: владелец слота не является другой живой заявкой
	notHeldByOtherLive = "NOT EXISTS (SELECT 1 FROM bookings b WHERE b.id = time_slots.booking_id AND b.id <> ? AND b.status = ANY(?))"

	// notHeldByLive условие: владелец слота не является живой заявкой
	notHeldByLive = "NOT EXISTS (SELECT 1 FROM bookings b WHERE b.id = time_slots.booking_id AND b.status = ANY(?))"
)

var slotColumns = []string{
	"id",
	"resource_id",
	"slot_date",
	"time_window",
	"is_taken",
	"booking_id",
	"created_at",
	"updated_at",
}

// Repository хранилище слотов (таблица time_slots)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// InsertIfAbsent создает слоты для окон, которых еще нет
// Дубликаты (в том числе от параллельной генерации) молча пропускаются уникальным ключом
// Возвращает количество реально созданных строк
func (r *Repository) InsertIfAbsent(ctx context.Context, resourceID string, date time.Time, windows []types.TimeWindow) (int64, error) {
	if len(windows) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert(tableName).
		Columns("resource_id", "slot_date", "time_window", "is_taken")
	for _, w := range windows {
		insert = insert.Values(resourceID, dateParam(date), string(w), false)
	}

	query, args, err := insert.Suffix(onConflictKey + " DO NOTHING").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertIfAbsent - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: InsertIfAbsent - execute insert: %v", ErrExecQuery, err)
	}

	created, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertIfAbsent - get rows affected: %v", ErrExecQuery, err)
	}

	return created, nil
}

// CountByDate возвращает количество слотов объекта на дату (свободных и занятых)
func (r *Repository) CountByDate(ctx context.Context, resourceID string, date time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{"resource_id": resourceID, "slot_date": dateParam(date)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountByDate - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByDate - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// ListFree возвращает свободные слоты объекта на дату, отсортированные по времени начала
func (r *Repository) ListFree(ctx context.Context, resourceID string, date time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From(tableName).
		Where(squirrel.Eq{"resource_id": resourceID, "slot_date": dateParam(date)}).
		Where(squirrel.Eq{"is_taken": false}).
		OrderBy("time_window ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListFree - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListFree - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// GetByKey возвращает слот по ключу
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByKey(ctx context.Context, key domain.SlotKey) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From(tableName).
		Where(keyCondition(key))

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

// Claim атомарно переводит свободный слот в занятый за bookingID
// Один условный UPDATE: из параллельных попыток на один ключ успешна ровно одна
// Если свободного слота нет (занят или не существует) - ErrSlotUnavailable
func (r *Repository) Claim(ctx context.Context, key domain.SlotKey, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("is_taken", true).
		Set("booking_id", bookingID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(keyCondition(key)).
		Where(squirrel.Eq{"is_taken": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Claim - build update query: %v", ErrBuildQuery, err)
	}

	affected, err := r.execAffected(ctx, executor, query, args)
	if err != nil {
		return fmt.Errorf("%w: Claim - execute update: %v", ErrExecQuery, err)
	}

	if affected == 0 {
		return ErrSlotUnavailable
	}

	return nil
}

// Release освобождает слот по ключу
// Если bookingID передан, освобождает только слот, принадлежащий этой заявке
// Возвращает количество освобожденных строк (0 или 1)
func (r *Repository) Release(ctx context.Context, key domain.SlotKey, bookingID *int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	update := psqlbuilder.Update(tableName).
		Set("is_taken", false).
		Set("booking_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(keyCondition(key))

	if bookingID != nil {
		update = update.Where(squirrel.Eq{"booking_id": *bookingID})
	}

	query, args, err := update.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	affected, err := r.execAffected(ctx, executor, query, args)
	if err != nil {
		return 0, fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// ForceRelease освобождает слот по ключу независимо от booking_id
// Не трогает слот, который держит другая живая заявка (кроме bookingID)
func (r *Repository) ForceRelease(ctx context.Context, key domain.SlotKey, bookingID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("is_taken", false).
		Set("booking_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(keyCondition(key)).
		Where(squirrel.Or{
			squirrel.Eq{"is_taken": true},
			squirrel.NotEq{"booking_id": nil},
		}).
		Where(notHeldByOtherLive, bookingID, pq.Array(domain.LiveStatusStrings())).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ForceRelease - build update query: %v", ErrBuildQuery, err)
	}

	affected, err := r.execAffected(ctx, executor, query, args)
	if err != nil {
		return 0, fmt.Errorf("%w: ForceRelease - execute update: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// ClearUnowned снимает флаг занятости со слотов без booking_id
func (r *Repository) ClearUnowned(ctx context.Context) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("is_taken", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"is_taken": true, "booking_id": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ClearUnowned - build update query: %v", ErrBuildQuery, err)
	}

	affected, err := r.execAffected(ctx, executor, query, args)
	if err != nil {
		return 0, fmt.Errorf("%w: ClearUnowned - execute update: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// ClearStale освобождает слоты, booking_id которых не указывает на живую заявку
// (заявка удалена, отменена или не удалась)
func (r *Repository) ClearStale(ctx context.Context) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("is_taken", false).
		Set("booking_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.NotEq{"booking_id": nil}).
		Where(notHeldByLive, pq.Array(domain.LiveStatusStrings())).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ClearStale - build update query: %v", ErrBuildQuery, err)
	}

	affected, err := r.execAffected(ctx, executor, query, args)
	if err != nil {
		return 0, fmt.Errorf("%w: ClearStale - execute update: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// AssignHolder закрепляет слот за bookingID, создавая строку при необходимости
// Затирает чужой захват. Возвращает 0, если слот уже принадлежал bookingID
func (r *Repository) AssignHolder(ctx context.Context, key domain.SlotKey, bookingID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("resource_id", "slot_date", "time_window", "is_taken", "booking_id").
		Values(key.ResourceID, dateParam(key.Date), string(key.Window), true, bookingID).
		Suffix(onConflictKey + " DO UPDATE SET is_taken = TRUE, booking_id = EXCLUDED.booking_id, updated_at = NOW()" +
			" WHERE time_slots.is_taken = FALSE OR time_slots.booking_id IS DISTINCT FROM EXCLUDED.booking_id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: AssignHolder - build upsert query: %v", ErrBuildQuery, err)
	}

	affected, err := r.execAffected(ctx, executor, query, args)
	if err != nil {
		return 0, fmt.Errorf("%w: AssignHolder - execute upsert: %v", ErrExecQuery, err)
	}

	return affected, nil
}

func (r *Repository) execAffected(ctx context.Context, executor DBExecutor, query string, args []interface{}) (int64, error) {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// keyCondition условие по уникальному ключу слота
func keyCondition(key domain.SlotKey) squirrel.Eq {
	return squirrel.Eq{
		"resource_id": key.ResourceID,
		"slot_date":   dateParam(key.Date),
		"time_window": string(key.Window),
	}
}

// dateParam передает дату как YYYY-MM-DD, чтобы часовой пояс не сдвигал день
func dateParam(date time.Time) string {
	return date.Format(domain.DateFormat)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var s domain.Slot
	var bookingID sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.ResourceID,
		&s.Date,
		&s.Window,
		&s.IsTaken,
		&bookingID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if bookingID.Valid {
		id := bookingID.Int64
		s.BookingID = &id
	}
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

func scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
