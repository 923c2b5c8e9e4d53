package models

// DayHours рабочие часы одного дня недели
type DayHours struct {
	Weekday string `json:"weekday"`
	Start   string `json:"start,omitempty"` // "08:00"
	End     string `json:"end,omitempty"`   // "16:00"
	Closed  bool   `json:"closed"`
}

// CatalogResponse пакеты и расписание объекта
type CatalogResponse struct {
	ResourceID string     `json:"resourceId"`
	Packages   []string   `json:"packages"`
	Timezone   string     `json:"timezone"`
	Hours      []DayHours `json:"hours"`
}

// ResourceListResponse список обслуживаемых объектов
type ResourceListResponse struct {
	Resources []string `json:"resources"`
}
