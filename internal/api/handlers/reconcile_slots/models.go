package reconcile_slots

import (
	"github.com/m04kA/ISB-BookingService/internal/domain"
	reconcileSlots "github.com/m04kA/ISB-BookingService/internal/usecase/reconcile_slots"
)

// ReconcileResponse HTTP response model
type ReconcileResponse struct {
	Repaired       int64      `json:"repaired"`
	ClearedUnowned int64      `json:"clearedUnowned"`
	ClearedStale   int64      `json:"clearedStale"`
	Assigned       int64      `json:"assigned"`
	Conflicts      []Conflict `json:"conflicts"`
	DurationMs     int64      `json:"durationMs"`
}

// Conflict окно, на которое претендуют несколько живых бронирований
type Conflict struct {
	ResourceID string  `json:"resourceId"`
	Date       string  `json:"date"`
	TimeWindow string  `json:"timeWindow"`
	HolderID   int64   `json:"holderId"`
	BookingIDs []int64 `json:"bookingIds"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reconcileSlots.Response) *ReconcileResponse {
	conflicts := make([]Conflict, len(resp.Conflicts))
	for i, c := range resp.Conflicts {
		conflicts[i] = Conflict{
			ResourceID: c.ResourceID,
			Date:       c.Date.Format(domain.DateFormat),
			TimeWindow: c.Window.String(),
			HolderID:   c.HolderID,
			BookingIDs: c.BookingIDs,
		}
	}

	return &ReconcileResponse{
		Repaired:       resp.Repaired,
		ClearedUnowned: resp.ClearedUnowned,
		ClearedStale:   resp.ClearedStale,
		Assigned:       resp.Assigned,
		Conflicts:      conflicts,
		DurationMs:     resp.Duration.Milliseconds(),
	}
}
