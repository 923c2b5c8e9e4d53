package list_resources

import (
	"net/http"

	"github.com/m04kA/ISB-BookingService/internal/api/handlers"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result := h.service.ListResources()

	h.logger.Info("GET /resources - Resources retrieved: count=%d", len(result.Resources))
	handlers.RespondJSON(w, http.StatusOK, result)
}
