package get_available_slots

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/ISB-BookingService/internal/domain"
)

// UseCase use case для получения свободных слотов
type UseCase struct {
	slotService  SlotService
	catalog      Catalog
	calendar     *domain.Calendar
	policy       domain.DatePolicy
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotService SlotService,
	catalog Catalog,
	calendar *domain.Calendar,
	policy domain.DatePolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotService:  slotService,
		catalog:      catalog,
		calendar:     calendar,
		policy:       policy,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает свободные слоты объекта на дату
// Для неизвестного объекта, некорректной или недоступной даты возвращается пустой список
// Если слоты на дату еще не созданы, они генерируются перед запросом
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	now := uc.timeProvider.Now()

	resp := &Response{
		ResourceID: strings.TrimSpace(req.ResourceID),
		Date:       strings.TrimSpace(req.Date),
		Slots:      []Slot{},
	}

	resourceID, date, ok := uc.parseRequest(req, now)
	if !ok {
		return resp, nil
	}

	if _, err := uc.slotService.EnsureSlots(ctx, resourceID, date); err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots for %s on %s: %v",
			resourceID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: ensure slots: %v", ErrInternal, err)
	}

	free, err := uc.slotService.ListFree(ctx, resourceID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots for %s on %s: %v",
			resourceID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: list free slots: %v", ErrInternal, err)
	}

	// Сегодня показываем только окна, которые еще не начались
	for _, slot := range free {
		if slot.IsTaken || uc.calendar.HasStarted(date, slot.Window, now) {
			continue
		}
		resp.Slots = append(resp.Slots, Slot{Window: slot.Window, Label: slot.Window.Label()})
	}

	uc.logger.Info("GetAvailableSlots: resource=%s, date=%s, free=%d",
		resourceID, date.Format(domain.DateFormat), len(resp.Slots))
	return resp, nil
}
