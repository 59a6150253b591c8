package models

// Уровни риска по историческим данным
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Patterns - распределение инцидентов по категориям за окно анализа
type Patterns struct {
	ByType      map[string]int `json:"by_type"`
	BySeverity  map[string]int `json:"by_severity"`
	ByDayOfWeek map[string]int `json:"by_day_of_week"`
	ByTimeOfDay map[string]int `json:"by_time_of_day"`
}

// AreaAnalysis - результат анализа истории инцидентов вокруг точки
type AreaAnalysis struct {
	TotalIncidents int      `json:"total_incidents"`
	AveragePerDay  float64  `json:"average_per_day"`
	RiskLevel      string   `json:"risk_level"`
	Patterns       Patterns `json:"patterns"`
	Predictions    []string `json:"predictions"`
	SkippedRecords int      `json:"skipped_records,omitempty"`
}

// SeverityBreakdown - счетчики инцидентов ячейки по серьезности
type SeverityBreakdown struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// HeatCell - ячейка тепловой карты. Производная, не хранится:
// пересчитывается на каждый запрос.
type HeatCell struct {
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Count     int               `json:"count"`
	Severity  SeverityBreakdown `json:"severity"`
	Intensity float64           `json:"intensity"`
}

// BoundingBox - прямоугольная область для выборки тепловой карты
type BoundingBox struct {
	SouthWest Location `json:"southwest"`
	NorthEast Location `json:"northeast"`
}

// Heatmap - результат построения тепловой карты
type Heatmap struct {
	Cells          []*HeatCell `json:"cells"`
	SkippedRecords int         `json:"skipped_records,omitempty"`
}
