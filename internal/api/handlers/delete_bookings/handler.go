package delete_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/ISB-BookingService/internal/api/handlers"
	"github.com/m04kA/ISB-BookingService/internal/service/bookings"
	"github.com/m04kA/ISB-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidIDs         = "список ID бронирований пуст или некорректен"
)

// DeleteRequest HTTP request model
type DeleteRequest struct {
	IDs []int64 `json:"ids"`
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/bookings/bulk-delete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/bookings/bulk-delete - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Delete(r.Context(), &models.DeleteRequest{IDs: req.IDs})
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("POST /admin/bookings/bulk-delete - Invalid ids: %v", err)
			handlers.RespondBadRequest(w, msgInvalidIDs)
			return
		}

		h.logger.Error("POST /admin/bookings/bulk-delete - Failed to delete bookings: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/bookings/bulk-delete - Bookings deleted: deleted=%d, released=%d, failed=%d",
		result.Affected, result.Released, len(result.Failures))
	handlers.RespondJSON(w, http.StatusOK, result)
}
