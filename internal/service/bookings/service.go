package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/ISB-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/ISB-BookingService/internal/integrations/webhook"
	"github.com/m04kA/ISB-BookingService/internal/service/bookings/models"
	"github.com/m04kA/ISB-BookingService/internal/service/slots"
)

// Service сервис журнала бронирований для админки
type Service struct {
	bookingRepo BookingRepository
	slotService SlotService
	txManager   TransactionManager
	notifier    Notifier
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotService SlotService,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		slotService: slotService,
		txManager:   txManager,
		notifier:    notifier,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// List возвращает страницу бронирований с фильтрацией, поиском и сортировкой
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, total, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrInvalidSort) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d of %d bookings (page=%d, perPage=%d)", len(bookings), total, filter.Page, filter.PerPage)
	return models.FromDomainBookingPage(&domain.BookingPage{
		Bookings: bookings,
		Total:    total,
		Page:     filter.Page,
		PerPage:  filter.PerPage,
	}), nil
}

// UpdateStatus массово меняет статус бронирований
// Каждое бронирование обрабатывается в своей транзакции с блокировкой строки:
// - живой -> неживой: обновление статуса и освобождение слота
// - неживой -> живой: сначала захват слота, при неудаче бронирование пропускается
// - живой -> живой: только обновление статуса
// Отказ по одному бронированию не прерывает обработку остальных
func (s *Service) UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*models.BulkResult, error) {
	status, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%q", req.Status)
		return nil, ErrInvalidStatus
	}

	ids, err := normalizeIDs(req.IDs)
	if err != nil {
		s.logger.Warn("UpdateStatus: %v", err)
		return nil, err
	}

	result := &models.BulkResult{Requested: len(ids), Failures: []models.Failure{}}

	for _, id := range ids {
		var changed *domain.Booking
		var released int64

		err := s.txManager.Do(ctx, func(txCtx context.Context) error {
			booking, err := s.lockBooking(txCtx, id)
			if err != nil {
				return err
			}

			if booking.Status == status {
				return nil
			}

			n, err := s.transition(txCtx, booking, status)
			if err != nil {
				return err
			}

			booking.Status = status
			changed, released = booking, n
			return nil
		})

		if err != nil {
			s.logger.Warn("UpdateStatus: booking id=%d skipped: %v", id, err)
			result.AddFailure(id, failureReason(err))
			continue
		}

		if changed == nil {
			continue
		}

		result.Affected++
		result.Released += released

		if changed.Status == domain.StatusCancelled {
			s.notifier.Notify(webhook.EventBookingCancelled, changed)
		}
	}

	s.logger.Info("UpdateStatus: status=%s requested=%d updated=%d released=%d failed=%d",
		status, result.Requested, result.Affected, result.Released, len(result.Failures))
	return result, nil
}

// Delete массово удаляет бронирования, предварительно освобождая их слоты
func (s *Service) Delete(ctx context.Context, req *models.DeleteRequest) (*models.BulkResult, error) {
	ids, err := normalizeIDs(req.IDs)
	if err != nil {
		s.logger.Warn("Delete: %v", err)
		return nil, err
	}

	result := &models.BulkResult{Requested: len(ids), Failures: []models.Failure{}}

	for _, id := range ids {
		var released int64

		err := s.txManager.Do(ctx, func(txCtx context.Context) error {
			booking, err := s.lockBooking(txCtx, id)
			if err != nil {
				return err
			}

			n, err := s.slotService.Release(txCtx, booking.SlotKey(), booking.ID)
			if err != nil {
				return fmt.Errorf("%w: Delete - release slot: %v", ErrInternal, err)
			}

			if err := s.bookingRepo.Delete(txCtx, booking.ID); err != nil {
				if errors.Is(err, bookingRepo.ErrBookingNotFound) {
					return ErrBookingNotFound
				}
				return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
			}

			released = n
			return nil
		})

		if err != nil {
			s.logger.Warn("Delete: booking id=%d skipped: %v", id, err)
			result.AddFailure(id, failureReason(err))
			continue
		}

		result.Affected++
		result.Released += released
	}

	s.logger.Info("Delete: requested=%d deleted=%d released=%d failed=%d",
		result.Requested, result.Affected, result.Released, len(result.Failures))
	return result, nil
}

// transition переводит бронирование в новый статус и синхронизирует слот
// Возвращает количество освобожденных слотов
func (s *Service) transition(ctx context.Context, booking *domain.Booking, status domain.BookingStatus) (int64, error) {
	key := booking.SlotKey()

	switch {
	case booking.IsLive() && !status.IsLive():
		if err := s.updateStatus(ctx, booking.ID, status); err != nil {
			return 0, err
		}
		released, err := s.slotService.Release(ctx, key, booking.ID)
		if err != nil {
			return 0, fmt.Errorf("%w: UpdateStatus - release slot: %v", ErrInternal, err)
		}
		return released, nil

	case !booking.IsLive() && status.IsLive():
		if _, err := s.slotService.EnsureSlots(ctx, key.ResourceID, key.Date); err != nil {
			return 0, fmt.Errorf("%w: UpdateStatus - ensure slots: %v", ErrInternal, err)
		}
		if err := s.slotService.Claim(ctx, key, booking.ID); err != nil {
			if errors.Is(err, slots.ErrSlotUnavailable) {
				return 0, ErrSlotUnavailable
			}
			return 0, fmt.Errorf("%w: UpdateStatus - claim slot: %v", ErrInternal, err)
		}
		return 0, s.updateStatus(ctx, booking.ID, status)

	default:
		return 0, s.updateStatus(ctx, booking.ID, status)
	}
}

func (s *Service) updateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	if err := s.bookingRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}
	return nil
}

// lockBooking читает бронирование; внутри транзакции строка блокируется
func (s *Service) lockBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return booking, nil
}

// normalizeIDs проверяет список ID и убирает дубликаты с сохранением порядка
func normalizeIDs(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: ids must not be empty", ErrInvalidInput)
	}

	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("%w: invalid booking id %d", ErrInvalidInput, id)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		return models.ReasonNotFound
	case errors.Is(err, ErrSlotUnavailable):
		return models.ReasonSlotUnavailable
	default:
		return models.ReasonStorageError
	}
}
