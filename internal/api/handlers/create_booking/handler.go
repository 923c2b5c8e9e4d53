package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/ISB-BookingService/internal/api/handlers"
	createBooking "github.com/m04kA/ISB-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/ISB-BookingService/pkg/validation"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidInput        = "некорректные данные бронирования"
	msgResourceNotFound    = "объект не обслуживается"
	msgPackageNotAvailable = "пакет недоступен на выбранном объекте"
	msgInvalidBookingDate  = "дата недоступна для бронирования"
	msgSlotNotAvailable    = "выбранное окно уже занято"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		var slotErr *createBooking.SlotUnavailableError
		var validationErr *validation.Error

		switch {
		case errors.As(err, &slotErr):
			h.logger.Warn("POST /bookings - Slot not available: resource=%q, date=%s, window=%s, booking_id=%d",
				req.ResourceID, req.Date, req.TimeWindow, slotErr.BookingID)
			bookingID := slotErr.BookingID
			handlers.RespondJSON(w, http.StatusConflict, handlers.ErrorResponse{
				Code:      handlers.CodeSlotUnavailable,
				Message:   msgSlotNotAvailable,
				BookingID: &bookingID,
			})

		case errors.As(err, &validationErr):
			h.logger.Warn("POST /bookings - Validation failed: %v", validationErr)
			handlers.RespondBadRequest(w, msgInvalidInput+": "+validationErr.Error())

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrResourceNotFound):
			h.logger.Warn("POST /bookings - Unknown resource: resource=%q", req.ResourceID)
			handlers.RespondBadRequest(w, msgResourceNotFound)

		case errors.Is(err, createBooking.ErrPackageNotAvailable):
			h.logger.Warn("POST /bookings - Package not available: resource=%q, package=%q", req.ResourceID, req.Package)
			handlers.RespondBadRequest(w, msgPackageNotAvailable)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Date not bookable: resource=%q, date=%s: %v", req.ResourceID, req.Date, err)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: resource=%q, date=%s, window=%s, error=%v",
				req.ResourceID, req.Date, req.TimeWindow, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, resource=%q",
		result.ID, result.ResourceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
