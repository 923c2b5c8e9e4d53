package get_resource_catalog

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/ISB-BookingService/internal/api/handlers"
	"github.com/m04kA/ISB-BookingService/internal/service/catalog"
)

const msgResourceNotFound = "объект не обслуживается"

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

// Handle GET /api/v1/resources/{resourceId}/catalog
// Публичный endpoint: пакеты объекта и недельное расписание
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID := mux.Vars(r)["resourceId"]

	result, err := h.service.GetCatalog(resourceID)
	if err != nil {
		if errors.Is(err, catalog.ErrResourceNotFound) {
			h.logger.Warn("GET /resources/{id}/catalog - Resource not found: resource=%q", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)
			return
		}

		h.logger.Error("GET /resources/{id}/catalog - Failed to get catalog: resource=%q, error=%v", resourceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /resources/{id}/catalog - Catalog retrieved: resource=%q, packages=%d",
		resourceID, len(result.Packages))
	handlers.RespondJSON(w, http.StatusOK, result)
}
