package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	"github.com/m04kA/ISB-BookingService/pkg/dbmetrics"
	"github.com/m04kA/ISB-BookingService/pkg/psqlbuilder"
	"github.com/m04kA/ISB-BookingService/pkg/types"
)

const tableName = "bookings"

var bookingColumns = []string{
	"id",
	"full_name",
	"phone_number",
	"email",
	"kra_pin",
	"resource_id",
	"block_number",
	"house_number",
	"package",
	"wifi_username",
	"wifi_password",
	"booking_date",
	"time_window",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование и заполняет ID и временные метки
// Вызывается внутри транзакции вместе с захватом слота
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"full_name",
			"phone_number",
			"email",
			"kra_pin",
			"resource_id",
			"block_number",
			"house_number",
			"package",
			"wifi_username",
			"wifi_password",
			"booking_date",
			"time_window",
			"status",
		).
		Values(
			booking.FullName,
			booking.PhoneNumber,
			booking.Email,
			booking.KRAPin,
			booking.ResourceID,
			booking.BlockNumber,
			booking.HouseNumber,
			booking.Package,
			booking.WifiUsername,
			booking.WifiPassword,
			booking.BookingDate.Format(domain.DateFormat),
			string(booking.TimeWindow),
			string(booking.Status),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы смена статуса и освобождение слота
// не пересекались с параллельной операцией над той же заявкой
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// List возвращает страницу бронирований для админки и общее количество по фильтру
// Поддерживает:
// - фильтр по статусу
// - поиск по подстроке имени, email или телефона (без учета регистра)
// - сортировку по колонке из domain.SortableBookingColumns
func (r *Repository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	orderBy, err := orderClause(filter)
	if err != nil {
		return nil, 0, err
	}

	conditions := squirrel.And{}
	if filter.Status != nil {
		conditions = append(conditions, squirrel.Eq{"status": string(*filter.Status)})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		conditions = append(conditions, squirrel.Or{
			squirrel.ILike{"full_name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"phone_number": pattern},
		})
	}

	// Общее количество для пагинации
	countBuilder := psqlbuilder.Select("COUNT(*)").From(tableName)
	if len(conditions) > 0 {
		countBuilder = countBuilder.Where(conditions)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - scan count: %v", ErrScanRow, err)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableName).
		OrderBy(orderBy...).
		Limit(uint64(filter.PerPage)).
		Offset(uint64(filter.Offset()))
	if len(conditions) > 0 {
		selectBuilder = selectBuilder.Where(conditions)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// ListLive возвращает все живые бронирования (pending, confirmed, completed) по возрастанию ID
// Используется реконсиляцией
func (r *Repository) ListLive(ctx context.Context) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(tableName).
		Where(squirrel.Eq{"status": domain.LiveStatusStrings()}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListLive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListLive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "UpdateStatus", query, args)
}

// UpdateSchedule переносит бронирование на другую дату и окно
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, key domain.SlotKey) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("booking_date", key.Date.Format(domain.DateFormat)).
		Set("time_window", string(key.Window)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "UpdateSchedule", query, args)
}

// Delete удаляет бронирование
// Слот должен быть освобожден до удаления строки
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "Delete", query, args)
}

// execOne выполняет запрос, который должен затронуть ровно одну строку
func (r *Repository) execOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// orderClause строит ORDER BY по разрешенной колонке, id - вторичный ключ для стабильной пагинации
func orderClause(filter domain.BookingFilter) ([]string, error) {
	column := filter.OrderBy
	if column == "" {
		column = "created_at"
	}
	if !domain.SortableBookingColumns[column] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSort, column)
	}

	direction := "ASC"
	if filter.Desc {
		direction = "DESC"
	}

	clauses := []string{column + " " + direction}
	if column != "id" {
		clauses = append(clauses, "id "+direction)
	}
	return clauses, nil
}

// escapeLike экранирует спецсимволы LIKE в пользовательском поиске
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var window, status string
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.FullName,
		&booking.PhoneNumber,
		&booking.Email,
		&booking.KRAPin,
		&booking.ResourceID,
		&booking.BlockNumber,
		&booking.HouseNumber,
		&booking.Package,
		&booking.WifiUsername,
		&booking.WifiPassword,
		&booking.BookingDate,
		&window,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.TimeWindow = types.TimeWindow(window)
	booking.Status = domain.BookingStatus(status)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
