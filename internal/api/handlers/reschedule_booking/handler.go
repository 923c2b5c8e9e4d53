package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/ISB-BookingService/internal/api/handlers"
	rescheduleBooking "github.com/m04kA/ISB-BookingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/ISB-BookingService/pkg/validation"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные дата или окно"
	msgInvalidDate        = "дата недоступна для бронирования"
	msgNotFound           = "бронирование не найдено"
	msgNotLive            = "отмененное или неуспешное бронирование нельзя перенести"
	msgSlotNotAvailable   = "выбранное окно уже занято"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/admin/bookings/{bookingId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /admin/bookings/{id}/schedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/bookings/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID))
	if err != nil {
		var validationErr *validation.Error

		switch {
		case errors.As(err, &validationErr):
			h.logger.Warn("PUT /admin/bookings/{id}/schedule - Validation failed: booking_id=%d, %v", bookingID, validationErr)
			handlers.RespondBadRequest(w, msgInvalidInput+": "+validationErr.Error())

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PUT /admin/bookings/{id}/schedule - Invalid input: booking_id=%d, %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, rescheduleBooking.ErrInvalidDate):
			h.logger.Warn("PUT /admin/bookings/{id}/schedule - Date not bookable: booking_id=%d, %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PUT /admin/bookings/{id}/schedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrBookingNotLive):
			h.logger.Warn("PUT /admin/bookings/{id}/schedule - Booking is not live: booking_id=%d", bookingID)
			handlers.RespondConflict(w, handlers.CodeConflict, msgNotLive)

		case errors.Is(err, rescheduleBooking.ErrSlotUnavailable):
			h.logger.Warn("PUT /admin/bookings/{id}/schedule - Slot not available: booking_id=%d, date=%s, window=%s",
				bookingID, req.Date, req.TimeWindow)
			handlers.RespondConflict(w, handlers.CodeSlotUnavailable, msgSlotNotAvailable)

		default:
			h.logger.Error("PUT /admin/bookings/{id}/schedule - Failed to reschedule: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/bookings/{id}/schedule - Booking rescheduled: booking_id=%d, changed=%t",
		bookingID, result.Changed)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
