package models

import (
	"errors"
	"strings"
	"time"

	"github.com/m04kA/ISB-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidOrder возвращается при некорректном направлении сортировки
	ErrInvalidOrder = errors.New("invalid sort order")

	// ErrInvalidOrderBy возвращается при сортировке по неразрешенной колонке
	ErrInvalidOrderBy = errors.New("invalid sort column")

	// ErrInvalidPage возвращается при некорректных параметрах пагинации
	ErrInvalidPage = errors.New("invalid pagination")
)

// Причины отказа по отдельному бронированию в массовых операциях
const (
	ReasonNotFound        = "not_found"
	ReasonSlotUnavailable = "slot_unavailable"
	ReasonStorageError    = "storage_error"
)

// Request модели

// ListBookingsRequest запрос на получение списка бронирований для админки
type ListBookingsRequest struct {
	Status  *string `json:"status,omitempty"`
	Search  string  `json:"search,omitempty"`
	OrderBy string  `json:"orderBy,omitempty"` // id, full_name, booking_date, status, created_at
	Order   string  `json:"order,omitempty"`   // asc | desc
	Page    int     `json:"page,omitempty"`
	PerPage int     `json:"perPage,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
// Пустые значения пагинации заменяются значениями по умолчанию, perPage ограничивается сверху
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingFilter, error) {
	filter := domain.BookingFilter{
		Search:  strings.TrimSpace(r.Search),
		OrderBy: r.OrderBy,
		Page:    r.Page,
		PerPage: r.PerPage,
	}

	if r.Status != nil && *r.Status != "" {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if !domain.SortableBookingColumns[filter.OrderBy] {
		return filter, ErrInvalidOrderBy
	}

	switch strings.ToLower(r.Order) {
	case "", "desc":
		filter.Desc = true
	case "asc":
		filter.Desc = false
	default:
		return filter, ErrInvalidOrder
	}

	if filter.Page < 0 || filter.PerPage < 0 || filter.Page > domain.MaxPage {
		return filter, ErrInvalidPage
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PerPage == 0 {
		filter.PerPage = domain.DefaultPageSize
	}
	if filter.PerPage > domain.MaxPageSize {
		filter.PerPage = domain.MaxPageSize
	}

	return filter, nil
}

// UpdateStatusRequest запрос на массовую смену статуса
type UpdateStatusRequest struct {
	IDs    []int64 `json:"ids"`
	Status string  `json:"status"`
}

// DeleteRequest запрос на массовое удаление
type DeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// Response модели

// BookingResponse ответ с данными бронирования
// Пароль Wi-Fi наружу не отдается
type BookingResponse struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"fullName"`
	PhoneNumber   string    `json:"phoneNumber"`
	Email         string    `json:"email"`
	KRAPin        string    `json:"kraPin"`
	ResourceID    string    `json:"resourceId"`
	BlockNumber   string    `json:"blockNumber"`
	HouseNumber   string    `json:"houseNumber"`
	Package       string    `json:"package"`
	WifiUsername  string    `json:"wifiUsername"`
	BookingDate   string    `json:"bookingDate"` // "2025-06-10"
	TimeWindow    string    `json:"timeWindow"`  // "09:00-10:00"
	FormattedTime string    `json:"formattedTime"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со страницей бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PerPage  int               `json:"perPage"`
}

// Failure отказ по одному бронированию
type Failure struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
}

// BulkResult итог массовой операции
type BulkResult struct {
	Requested int       `json:"requested"`
	Affected  int       `json:"affected"` // строк бронирований, реально измененных или удаленных
	Released  int64     `json:"released"` // освобожденных слотов
	Failures  []Failure `json:"failures"`
}

// AddFailure добавляет отказ по бронированию
func (r *BulkResult) AddFailure(id int64, reason string) {
	r.Failures = append(r.Failures, Failure{ID: id, Reason: reason})
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:            b.ID,
		FullName:      b.FullName,
		PhoneNumber:   b.PhoneNumber,
		Email:         b.Email,
		KRAPin:        b.KRAPin,
		ResourceID:    b.ResourceID,
		BlockNumber:   b.BlockNumber,
		HouseNumber:   b.HouseNumber,
		Package:       b.Package,
		WifiUsername:  b.WifiUsername,
		BookingDate:   b.BookingDate.Format(domain.DateFormat),
		TimeWindow:    b.TimeWindow.String(),
		FormattedTime: b.TimeWindow.Label(),
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// FromDomainBookingPage конвертирует страницу domain моделей в DTO
func FromDomainBookingPage(page *domain.BookingPage) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(page.Bookings)),
		Total:    page.Total,
		Page:     page.Page,
		PerPage:  page.PerPage,
	}

	for _, booking := range page.Bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s, err := domain.ParseBookingStatus(strings.ToLower(strings.TrimSpace(status)))
	if err != nil {
		return "", ErrInvalidStatus
	}
	return s, nil
}
