package get_resource_catalog

import (
	"github.com/m04kA/ISB-BookingService/internal/service/catalog/models"
)

type CatalogService interface {
	GetCatalog(resourceID string) (*models.CatalogResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
