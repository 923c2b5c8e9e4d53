package reconcile_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/ISB-BookingService/internal/api/handlers"
	reconcileSlots "github.com/m04kA/ISB-BookingService/internal/usecase/reconcile_slots"
)

const msgAlreadyRunning = "синхронизация уже выполняется"

type Handler struct {
	useCase ReconcileSlotsUseCase
	logger  Logger
}

func NewHandler(useCase ReconcileSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/slots/reconcile
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.Execute(r.Context())
	if err != nil {
		if errors.Is(err, reconcileSlots.ErrAlreadyRunning) {
			h.logger.Warn("POST /admin/slots/reconcile - Already running")
			handlers.RespondConflict(w, handlers.CodeConflict, msgAlreadyRunning)
			return
		}

		h.logger.Error("POST /admin/slots/reconcile - Failed to reconcile: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/slots/reconcile - Reconciled: repaired=%d, conflicts=%d",
		result.Repaired, len(result.Conflicts))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
