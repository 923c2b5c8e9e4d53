package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	slotRepo "github.com/m04kA/ISB-BookingService/internal/infra/storage/slot"
	"github.com/m04kA/ISB-BookingService/pkg/types"
)

// Исходы захвата слота для метрик
const (
	claimOutcomeClaimed     = "claimed"
	claimOutcomeUnavailable = "unavailable"
	claimOutcomeError       = "error"

	repairForcedRelease = "forced_release"
)

// Service генератор слотов и примитивы захвата/освобождения
type Service struct {
	repo         SlotRepository
	calendar     *domain.Calendar
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(repo SlotRepository, calendar *domain.Calendar, metrics Metrics, logger Logger) *Service {
	return &Service{
		repo:         repo,
		calendar:     calendar,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Calendar возвращает календарь рабочих часов
func (s *Service) Calendar() *domain.Calendar {
	return s.calendar
}

// Generate создает слоты объекта на дату по календарю
// Для сегодняшней даты пропускает окна, начало которых не позже текущего часа
// Идемпотентна: существующие слоты не дублируются
// Возвращает количество созданных строк
func (s *Service) Generate(ctx context.Context, resourceID string, date time.Time) (int, error) {
	windows := s.windowsToGenerate(date)
	if len(windows) == 0 {
		return 0, nil
	}

	created, err := s.repo.InsertIfAbsent(ctx, resourceID, date, windows)
	if err != nil {
		s.logger.Error("Generate: failed to insert slots for %s on %s: %v",
			resourceID, date.Format(domain.DateFormat), err)
		return 0, fmt.Errorf("%w: Generate - insert slots: %v", ErrInternal, err)
	}

	if created > 0 {
		s.logger.Info("Generate: created %d slots for %s on %s", created, resourceID, date.Format(domain.DateFormat))
		if s.metrics != nil {
			s.metrics.AddSlotsGenerated(resourceID, int(created))
		}
	}

	return int(created), nil
}

// EnsureSlots генерирует слоты, только если для объекта и даты их еще нет
func (s *Service) EnsureSlots(ctx context.Context, resourceID string, date time.Time) (int, error) {
	count, err := s.repo.CountByDate(ctx, resourceID, date)
	if err != nil {
		s.logger.Error("EnsureSlots: failed to count slots for %s on %s: %v",
			resourceID, date.Format(domain.DateFormat), err)
		return 0, fmt.Errorf("%w: EnsureSlots - count slots: %v", ErrInternal, err)
	}

	if count > 0 {
		return 0, nil
	}

	return s.Generate(ctx, resourceID, date)
}

// ListFree возвращает свободные слоты объекта на дату по возрастанию времени начала
func (s *Service) ListFree(ctx context.Context, resourceID string, date time.Time) ([]*domain.Slot, error) {
	free, err := s.repo.ListFree(ctx, resourceID, date)
	if err != nil {
		s.logger.Error("ListFree: failed to list slots for %s on %s: %v",
			resourceID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: ListFree - repository error: %v", ErrInternal, err)
	}
	return free, nil
}

// Claim закрепляет свободный слот за бронированием
func (s *Service) Claim(ctx context.Context, key domain.SlotKey, bookingID int64) error {
	err := s.repo.Claim(ctx, key, bookingID)
	switch {
	case err == nil:
		s.incClaim(claimOutcomeClaimed)
		return nil

	case errors.Is(err, slotRepo.ErrSlotUnavailable):
		s.logger.Warn("Claim: slot %s is unavailable for booking id=%d", key, bookingID)
		s.incClaim(claimOutcomeUnavailable)
		return ErrSlotUnavailable

	default:
		s.logger.Error("Claim: failed to claim slot %s for booking id=%d: %v", key, bookingID, err)
		s.incClaim(claimOutcomeError)
		return fmt.Errorf("%w: Claim - repository error: %v", ErrInternal, err)
	}
}

// Release освобождает слот бронирования
// Если слот не принадлежит бронированию (расхождение хранилищ), выполняется
// принудительное освобождение по ключу, которое логируется как ремонт
// Возвращает количество освобожденных строк
func (s *Service) Release(ctx context.Context, key domain.SlotKey, bookingID int64) (int64, error) {
	released, err := s.repo.Release(ctx, key, &bookingID)
	if err != nil {
		s.logger.Error("Release: failed to release slot %s for booking id=%d: %v", key, bookingID, err)
		return 0, fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}

	if released > 0 {
		return released, nil
	}

	forced, err := s.repo.ForceRelease(ctx, key, bookingID)
	if err != nil {
		s.logger.Error("Release: forced release of slot %s failed: %v", key, err)
		return 0, fmt.Errorf("%w: Release - forced release: %v", ErrInternal, err)
	}

	if forced > 0 {
		s.logger.Warn("Release: repair - slot %s was not bound to booking id=%d, released by key", key, bookingID)
		if s.metrics != nil {
			s.metrics.AddSlotRepairs(repairForcedRelease, forced)
		}
	} else {
		s.logger.Info("Release: nothing to release for booking id=%d at %s", bookingID, key)
	}

	return forced, nil
}

// windowsToGenerate возвращает окна календаря на дату с учетом текущего часа
func (s *Service) windowsToGenerate(date time.Time) []types.TimeWindow {
	windows := s.calendar.Windows(date)

	now := s.timeProvider.Now()
	if !s.calendar.IsToday(date, now) {
		return windows
	}

	currentHour := s.calendar.Now(now).Hour()
	upcoming := make([]types.TimeWindow, 0, len(windows))
	for _, w := range windows {
		if w.StartMinutes()/60 > currentHour {
			upcoming = append(upcoming, w)
		}
	}
	return upcoming
}

func (s *Service) incClaim(outcome string) {
	if s.metrics != nil {
		s.metrics.IncSlotClaim(outcome)
	}
}
