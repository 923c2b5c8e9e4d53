package update_bookings_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/ISB-BookingService/internal/api/handlers"
	"github.com/m04kA/ISB-BookingService/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStatus      = "некорректный статус бронирования"
	msgInvalidIDs         = "список ID бронирований пуст или некорректен"
)

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

// Handle PATCH /api/v1/admin/bookings/status
// Отказы по отдельным бронированиям возвращаются в теле ответа, статус ответа 200
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/bookings/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateStatus(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidStatus):
			h.logger.Warn("PATCH /admin/bookings/status - Invalid status: %q", req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/bookings/status - Invalid ids: %v", err)
			handlers.RespondBadRequest(w, msgInvalidIDs)

		default:
			h.logger.Error("PATCH /admin/bookings/status - Failed to update status: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/bookings/status - Status updated: status=%s, updated=%d, released=%d, failed=%d",
		req.Status, result.Affected, result.Released, len(result.Failures))
	handlers.RespondJSON(w, http.StatusOK, result)
}
