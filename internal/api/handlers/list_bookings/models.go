package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/ISB-BookingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(query url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{
		Search:  query.Get("search"),
		OrderBy: query.Get("orderBy"),
		Order:   query.Get("order"),
	}

	// Парсим status если указан
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	// Парсим page если указан
	if pageStr := query.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return nil, fmt.Errorf("invalid page value: %w", err)
		}
		req.Page = page
	}

	// Парсим perPage если указан
	if perPageStr := query.Get("perPage"); perPageStr != "" {
		perPage, err := strconv.Atoi(perPageStr)
		if err != nil {
			return nil, fmt.Errorf("invalid perPage value: %w", err)
		}
		req.PerPage = perPage
	}

	return req, nil
}
