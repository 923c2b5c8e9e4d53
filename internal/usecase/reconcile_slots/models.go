package reconcile_slots

import (
	"time"

	"github.com/m04kA/ISB-BookingService/pkg/types"
)

// Response итог прогона реконсиляции
type Response struct {
	Repaired       int64      // Всего исправленных строк слотов
	ClearedUnowned int64      // Занятые слоты без владельца
	ClearedStale   int64      // Слоты, владелец которых не является живой заявкой
	Assigned       int64      // Слоты, закрепленные (или созданные) за живой заявкой
	Conflicts      []Conflict // Несколько живых заявок на одно окно
	Duration       time.Duration
}

// Conflict несколько живых заявок претендуют на одно окно
// Слот закреплен за HolderID, остальные заявки требуют ручного разбора
type Conflict struct {
	ResourceID string
	Date       time.Time
	Window     types.TimeWindow
	HolderID   int64
	BookingIDs []int64 // Заявки без слота
}
