package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	"github.com/m04kA/ISB-BookingService/internal/integrations/webhook"
	"github.com/m04kA/ISB-BookingService/internal/service/slots"
	"github.com/m04kA/ISB-BookingService/pkg/validation"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	slotService  SlotService
	catalog      Catalog
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
	catalog Catalog,
	calendar *domain.Calendar,
	policy domain.DatePolicy,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotService:  slotService,
		catalog:      catalog,
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

// Execute выполняет use case создания бронирования
// Бронирование создается со статусом confirmed и в той же транзакции занимает слот.
// Если слот занят, бронирование переводится в failed, транзакция фиксируется,
// а вызывающему возвращается *SlotUnavailableError с ID бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	normalize(req)
	uc.logger.Info("CreateBooking: resource=%q, date=%s, window=%s", req.ResourceID, req.Date, req.TimeWindow)

	// 1. Валидация входных данных
	date, window, err := uc.validateRequest(req, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Слоты на дату должны существовать до захвата
	if _, err := uc.slotService.EnsureSlots(ctx, req.ResourceID, date); err != nil {
		uc.logger.Error("CreateBooking: failed to ensure slots: %v", err)
		return nil, fmt.Errorf("%w: ensure slots: %v", ErrInternal, err)
	}

	booking := toDomain(req, date, window)
	slotLost := false

	// 3. Создание бронирования и захват слота в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		err = uc.slotService.Claim(txCtx, created.SlotKey(), created.ID)
		if errors.Is(err, slots.ErrSlotUnavailable) {
			// Бронирование остается в журнале, но без слота
			if err := uc.bookingRepo.UpdateStatus(txCtx, created.ID, domain.StatusFailed); err != nil {
				return fmt.Errorf("%w: failed to mark booking as failed: %v", ErrInternal, err)
			}
			created.Status = domain.StatusFailed
			slotLost = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: failed to claim slot: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, err
	}

	if slotLost {
		uc.logger.Warn("CreateBooking: slot %s is not available, booking id=%d marked as failed",
			booking.SlotKey(), booking.ID)
		return nil, &SlotUnavailableError{BookingID: booking.ID}
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", booking.ID)

	// 4. Уведомление после фиксации, не влияет на результат
	uc.notifier.Notify(webhook.EventBookingCreated, booking)

	return &Response{
		ID:          booking.ID,
		ResourceID:  booking.ResourceID,
		BookingDate: booking.BookingDate,
		TimeWindow:  booking.TimeWindow,
		Status:      string(booking.Status),
		CreatedAt:   booking.CreatedAt,
	}, nil
}
