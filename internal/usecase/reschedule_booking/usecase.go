package reschedule_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/ISB-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/ISB-BookingService/internal/integrations/webhook"
	"github.com/m04kA/ISB-BookingService/internal/service/slots"
	"github.com/m04kA/ISB-BookingService/pkg/validation"
)

// UseCase use case для переноса бронирования на другую дату или окно
type UseCase struct {
	bookingRepo  BookingRepository
	slotService  SlotService
	calendar     *domain.Calendar
	policy       domain.DatePolicy
	txManager    TransactionManager
	notifier     Notifier
	validator    *validation.Validator
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotService SlotService,
	calendar *domain.Calendar,
	policy domain.DatePolicy,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotService:  slotService,
		calendar:     calendar,
		policy:       policy,
		txManager:    txManager,
		notifier:     notifier,
		validator:    validation.New(),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute переносит бронирование
// Освобождение старого слота, захват нового и обновление строки выполняются в одной транзакции:
// если новое окно занято, бронирование сохраняет прежние дату, окно и слот
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking id=%d, date=%s, window=%s", req.BookingID, req.Date, req.TimeWindow)

	date, window, err := uc.validateRequest(req, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	var booking *domain.Booking
	changed := false

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// Блокируем строку бронирования до конца транзакции
		b, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if !b.IsLive() {
			return ErrBookingNotLive
		}

		oldKey := b.SlotKey()
		newKey := domain.SlotKey{ResourceID: b.ResourceID, Date: date, Window: window}
		booking = b

		if oldKey.Equal(newKey) {
			return nil
		}

		if _, err := uc.slotService.Release(txCtx, oldKey, b.ID); err != nil {
			return fmt.Errorf("%w: failed to release slot %s: %v", ErrInternal, oldKey, err)
		}

		if _, err := uc.slotService.EnsureSlots(txCtx, newKey.ResourceID, newKey.Date); err != nil {
			return fmt.Errorf("%w: failed to ensure slots: %v", ErrInternal, err)
		}

		if err := uc.slotService.Claim(txCtx, newKey, b.ID); err != nil {
			if errors.Is(err, slots.ErrSlotUnavailable) {
				return ErrSlotUnavailable
			}
			return fmt.Errorf("%w: failed to claim slot %s: %v", ErrInternal, newKey, err)
		}

		if err := uc.bookingRepo.UpdateSchedule(txCtx, b.ID, newKey); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		b.BookingDate = newKey.Date
		b.TimeWindow = newKey.Window
		changed = true
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrInternal):
			uc.logger.Error("RescheduleBooking: booking id=%d: %v", req.BookingID, err)
		default:
			uc.logger.Warn("RescheduleBooking: booking id=%d rejected: %v", req.BookingID, err)
		}
		return nil, err
	}

	if changed {
		uc.logger.Info("RescheduleBooking: booking id=%d moved to %s", booking.ID, booking.SlotKey())
		uc.notifier.Notify(webhook.EventBookingRescheduled, booking)
	}

	return &Response{
		ID:          booking.ID,
		ResourceID:  booking.ResourceID,
		BookingDate: booking.BookingDate,
		TimeWindow:  booking.TimeWindow,
		Status:      string(booking.Status),
		Changed:     changed,
	}, nil
}
