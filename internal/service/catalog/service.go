package catalog

import (
	"fmt"
	"time"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	"github.com/m04kA/ISB-BookingService/internal/service/catalog/models"
)

// Порядок дней в ответе: с понедельника по воскресенье
var weekOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// Service справочник объектов, пакетов и рабочих часов
type Service struct {
	catalog  *domain.Catalog
	calendar *domain.Calendar
	logger   Logger
}

// NewService создает новый экземпляр сервиса справочника
func NewService(catalog *domain.Catalog, calendar *domain.Calendar, logger Logger) *Service {
	return &Service{
		catalog:  catalog,
		calendar: calendar,
		logger:   logger,
	}
}

// ListResources возвращает все обслуживаемые объекты
func (s *Service) ListResources() *models.ResourceListResponse {
	return &models.ResourceListResponse{Resources: s.catalog.Resources()}
}

// GetCatalog возвращает пакеты объекта и недельное расписание
func (s *Service) GetCatalog(resourceID string) (*models.CatalogResponse, error) {
	if !s.catalog.HasResource(resourceID) {
		s.logger.Warn("GetCatalog: resource %q not found", resourceID)
		return nil, ErrResourceNotFound
	}

	hours := make([]models.DayHours, 0, len(weekOrder))
	for _, day := range weekOrder {
		h, ok := s.calendar.HoursFor(day)
		if !ok {
			hours = append(hours, models.DayHours{Weekday: day.String(), Closed: true})
			continue
		}
		hours = append(hours, models.DayHours{
			Weekday: day.String(),
			Start:   fmt.Sprintf("%02d:00", h.StartHour),
			End:     fmt.Sprintf("%02d:00", h.EndHour),
		})
	}

	return &models.CatalogResponse{
		ResourceID: resourceID,
		Packages:   s.catalog.PackagesFor(resourceID),
		Timezone:   s.calendar.Location().String(),
		Hours:      hours,
	}, nil
}
