package list_resources

import (
	"github.com/m04kA/ISB-BookingService/internal/service/catalog/models"
)

type CatalogService interface {
	ListResources() *models.ResourceListResponse
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
