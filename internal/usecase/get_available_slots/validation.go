package get_available_slots

import (
	"strings"
	"time"

	"github.com/m04kA/ISB-BookingService/internal/domain"
)

// parseRequest проверяет объект и дату; ok = false означает пустой ответ
func (uc *UseCase) parseRequest(req *Request, now time.Time) (resourceID string, date time.Time, ok bool) {
	resourceID = strings.TrimSpace(req.ResourceID)
	if resourceID == "" || !uc.catalog.HasResource(resourceID) {
		uc.logger.Warn("GetAvailableSlots: unknown resource %q", req.ResourceID)
		return "", time.Time{}, false
	}

	date, err := uc.calendar.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid date %q: %v", req.Date, err)
		return "", time.Time{}, false
	}

	if err := uc.policy.Check(date, uc.calendar.Today(now)); err != nil {
		uc.logger.Info("GetAvailableSlots: date %s is not bookable: %v", date.Format(domain.DateFormat), err)
		return "", time.Time{}, false
	}

	return resourceID, date, true
}
