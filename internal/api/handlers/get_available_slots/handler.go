package get_available_slots

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/ISB-BookingService/internal/api/handlers"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/available-slots
// Query params: date (YYYY-MM-DD)
// Некорректная дата или неизвестный объект дают пустой список, а не ошибку
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID := mux.Vars(r)["resourceId"]
	dateStr := r.URL.Query().Get("date")

	result, err := h.useCase.Execute(r.Context(), ToUseCaseRequest(resourceID, dateStr))
	if err != nil {
		h.logger.Error("GET /resources/{id}/available-slots - Failed to get slots: resource=%q, date=%q, error=%v",
			resourceID, dateStr, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /resources/{id}/available-slots - Slots retrieved: resource=%q, date=%q, slots_count=%d",
		resourceID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
