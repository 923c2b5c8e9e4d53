package reconcile_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	"github.com/m04kA/ISB-BookingService/internal/infra/lock"
	bookingRepo "github.com/m04kA/ISB-BookingService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/ISB-BookingService/internal/infra/storage/slot"
)

const lockName = "reconcile_slots"

// Виды ремонта для метрик
const (
	repairUnowned  = "unowned"
	repairStale    = "stale"
	repairAssigned = "assigned"
)

// UseCase use case реконсиляции слотов и бронирований
type UseCase struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	locker      Locker
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	locker Locker,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		locker:      locker,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// group живые заявки на одно окно, по возрастанию ID
type group struct {
	key      domain.SlotKey
	bookings []int64
}

// Execute восстанавливает соответствие слотов и живых заявок:
// 1. занятый слот без владельца освобождается; слот, владелец которого не живая заявка, очищается
// 2. каждой живой заявке закрепляется ее слот (строка создается при отсутствии)
// Если на одно окно претендуют несколько живых заявок, слот остается за текущим владельцем
// из их числа, иначе за заявкой с меньшим ID; остальные попадают в Conflicts
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	started := time.Now()

	unlock, err := uc.locker.TryLock(ctx, lockName)
	if err != nil {
		if errors.Is(err, lock.ErrLockHeld) {
			uc.logger.Warn("ReconcileSlots: another run is in progress")
			return nil, ErrAlreadyRunning
		}
		uc.logger.Error("ReconcileSlots: failed to acquire lock: %v", err)
		return nil, fmt.Errorf("%w: acquire lock: %v", ErrInternal, err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			uc.logger.Warn("ReconcileSlots: failed to release lock: %v", err)
		}
	}()

	resp := &Response{Conflicts: []Conflict{}}

	// Шаг 1: слоты без живого владельца
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		unowned, err := uc.slotRepo.ClearUnowned(txCtx)
		if err != nil {
			return fmt.Errorf("clear unowned: %w", err)
		}
		stale, err := uc.slotRepo.ClearStale(txCtx)
		if err != nil {
			return fmt.Errorf("clear stale: %w", err)
		}
		resp.ClearedUnowned, resp.ClearedStale = unowned, stale
		return nil
	})
	if err != nil {
		uc.logger.Error("ReconcileSlots: step 1 failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// Шаг 2: живые заявки без своего слота
	live, err := uc.bookingRepo.ListLive(ctx)
	if err != nil {
		uc.logger.Error("ReconcileSlots: failed to list live bookings: %v", err)
		return nil, fmt.Errorf("%w: list live bookings: %v", ErrInternal, err)
	}

	for _, g := range groupByKey(live) {
		var holder, assigned int64
		var candidates []int64

		// Список живых заявок прочитан вне транзакции: перед назначением
		// заявки группы перечитываются под блокировкой строки
		err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
			var err error
			candidates, err = uc.lockLive(txCtx, g)
			if err != nil || len(candidates) == 0 {
				return err
			}
			holder, err = uc.pickHolder(txCtx, g.key, candidates)
			if err != nil {
				return err
			}
			assigned, err = uc.slotRepo.AssignHolder(txCtx, g.key, holder)
			return err
		})
		if err != nil {
			uc.logger.Error("ReconcileSlots: failed to assign slot %s: %v", g.key, err)
			return nil, fmt.Errorf("%w: assign slot %s: %v", ErrInternal, g.key, err)
		}

		if len(candidates) == 0 {
			uc.logger.Info("ReconcileSlots: bookings %v on slot %s changed during the run, skipped", g.bookings, g.key)
			continue
		}

		if assigned > 0 {
			uc.logger.Info("ReconcileSlots: slot %s assigned to booking id=%d", g.key, holder)
		}
		resp.Assigned += assigned

		if len(candidates) > 1 {
			conflict := Conflict{
				ResourceID: g.key.ResourceID,
				Date:       g.key.Date,
				Window:     g.key.Window,
				HolderID:   holder,
			}
			for _, id := range candidates {
				if id != holder {
					conflict.BookingIDs = append(conflict.BookingIDs, id)
				}
			}
			uc.logger.Warn("ReconcileSlots: slot %s is claimed by %d live bookings, holder id=%d, unresolved %v",
				g.key, len(candidates), holder, conflict.BookingIDs)
			resp.Conflicts = append(resp.Conflicts, conflict)
		}
	}

	resp.Repaired = resp.ClearedUnowned + resp.ClearedStale + resp.Assigned
	resp.Duration = time.Since(started)

	uc.recordRepairs(resp)
	uc.logger.Info("ReconcileSlots: repaired=%d (unowned=%d, stale=%d, assigned=%d), conflicts=%d, took %s",
		resp.Repaired, resp.ClearedUnowned, resp.ClearedStale, resp.Assigned, len(resp.Conflicts), resp.Duration)

	return resp, nil
}

// lockLive блокирует заявки группы и оставляет те, что все еще живы и стоят на том же окне
// Заявки блокируются по возрастанию ID
func (uc *UseCase) lockLive(ctx context.Context, g group) ([]int64, error) {
	live := make([]int64, 0, len(g.bookings))

	for _, id := range g.bookings {
		booking, err := uc.bookingRepo.GetByID(ctx, id)
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lock booking id=%d: %w", id, err)
		}
		if !booking.IsLive() || !booking.SlotKey().Equal(g.key) {
			continue
		}
		live = append(live, id)
	}

	return live, nil
}

// pickHolder выбирает владельца слота среди живых заявок группы
func (uc *UseCase) pickHolder(ctx context.Context, key domain.SlotKey, candidates []int64) (int64, error) {
	slot, err := uc.slotRepo.GetByKey(ctx, key)
	if err != nil && !errors.Is(err, slotRepo.ErrSlotNotFound) {
		return 0, err
	}

	if slot != nil && slot.BookingID != nil {
		for _, id := range candidates {
			if id == *slot.BookingID {
				return id, nil
			}
		}
	}

	return candidates[0], nil
}

func (uc *UseCase) recordRepairs(resp *Response) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.AddSlotRepairs(repairUnowned, resp.ClearedUnowned)
	uc.metrics.AddSlotRepairs(repairStale, resp.ClearedStale)
	uc.metrics.AddSlotRepairs(repairAssigned, resp.Assigned)
}

// groupByKey группирует заявки по окну, сохраняя порядок первого появления
// Заявки на входе отсортированы по ID, поэтому первая в группе имеет меньший ID
func groupByKey(bookings []*domain.Booking) []group {
	index := make(map[string]int)
	groups := make([]group, 0, len(bookings))

	for _, b := range bookings {
		key := b.SlotKey()
		k := key.String()
		if i, ok := index[k]; ok {
			groups[i].bookings = append(groups[i].bookings, b.ID)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, group{key: key, bookings: []int64{b.ID}})
	}

	return groups
}
