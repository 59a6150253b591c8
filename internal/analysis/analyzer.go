package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/savelyev/emergency_watch/internal/models"
)

// Окно анализа по умолчанию
const DefaultWindowDays = 30

// Размер ячейки тепловой карты в градусах (~1.1 км по широте на экваторе).
// Искажение по долготе на высоких широтах унаследовано и не корректируется.
const heatmapGridSize = 0.01

// Насыщение интенсивности: 10 и более инцидентов в ячейке дают 1.0
const heatmapSaturation = 10

var weekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// timeSlot возвращает имя четвертичного интервала суток для часа [0, 24)
func timeSlot(hour int) string {
	switch {
	case hour < 6:
		return "night"
	case hour < 12:
		return "morning"
	case hour < 18:
		return "afternoon"
	default:
		return "evening"
	}
}

// AnalyzeArea агрегирует выборку инцидентов в оценку риска района.
// Чистая функция от выборки и момента "сейчас": временные метки
// приводятся к UTC, чтобы все корзины считались в одной тайм-зоне.
// Некорректные записи пропускаются и учитываются в SkippedRecords.
func AnalyzeArea(incidents []*models.Incident, windowDays int, now time.Time) *models.AreaAnalysis {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	result := &models.AreaAnalysis{
		RiskLevel: models.RiskLow,
		Patterns: models.Patterns{
			ByType:      make(map[string]int),
			BySeverity:  make(map[string]int),
			ByDayOfWeek: make(map[string]int),
			ByTimeOfDay: make(map[string]int),
		},
		Predictions: []string{},
	}

	for _, inc := range incidents {
		if inc == nil || inc.CreatedAt.IsZero() || !models.ValidSeverity(inc.Severity) {
			result.SkippedRecords++
			continue
		}

		result.TotalIncidents++
		result.Patterns.ByType[inc.Type]++
		result.Patterns.BySeverity[inc.Severity]++

		created := inc.CreatedAt.UTC()
		result.Patterns.ByDayOfWeek[weekdayNames[created.Weekday()]]++
		result.Patterns.ByTimeOfDay[timeSlot(created.Hour())]++
	}

	result.AveragePerDay = float64(result.TotalIncidents) / float64(windowDays)

	// Пороги по сырому количеству, без нормализации на площадь
	switch {
	case result.TotalIncidents > 20:
		result.RiskLevel = models.RiskHigh
	case result.TotalIncidents > 10:
		result.RiskLevel = models.RiskMedium
	}

	nowUTC := now.UTC()
	currentDay := weekdayNames[nowUTC.Weekday()]
	currentSlot := timeSlot(nowUTC.Hour())

	if result.Patterns.ByDayOfWeek[currentDay] > 5 {
		result.Predictions = append(result.Predictions,
			fmt.Sprintf("Higher incident rate typically observed on %ss", currentDay))
	}
	if result.Patterns.ByTimeOfDay[currentSlot] > 3 {
		result.Predictions = append(result.Predictions,
			fmt.Sprintf("Increased activity during %s hours", currentSlot))
	}
	if result.RiskLevel == models.RiskHigh {
		result.Predictions = append(result.Predictions,
			"This area has a high historical incident rate. Exercise extra caution.")
	}

	return result
}

// BuildHeatmap раскладывает инциденты по фиксированной сетке.
// Ключ ячейки - пара координат, выровненная вниз по размеру сетки.
// Порядок ячеек в выдаче не специфицирован (итерация по map).
func BuildHeatmap(incidents []*models.Incident) *models.Heatmap {
	cells := make(map[[2]float64]*models.HeatCell)
	skipped := 0

	for _, inc := range incidents {
		if inc == nil || !validCoords(inc.Location) || !models.ValidSeverity(inc.Severity) {
			skipped++
			continue
		}

		gridLat := math.Floor(inc.Location.Latitude/heatmapGridSize) * heatmapGridSize
		gridLng := math.Floor(inc.Location.Longitude/heatmapGridSize) * heatmapGridSize
		key := [2]float64{gridLat, gridLng}

		cell, ok := cells[key]
		if !ok {
			cell = &models.HeatCell{Latitude: gridLat, Longitude: gridLng}
			cells[key] = cell
		}

		cell.Count++
		switch inc.Severity {
		case models.SeverityHigh:
			cell.Severity.High++
		case models.SeverityMedium:
			cell.Severity.Medium++
		case models.SeverityLow:
			cell.Severity.Low++
		}
	}

	result := &models.Heatmap{
		Cells:          make([]*models.HeatCell, 0, len(cells)),
		SkippedRecords: skipped,
	}
	for _, cell := range cells {
		cell.Intensity = math.Min(float64(cell.Count)/float64(heatmapSaturation), 1)
		result.Cells = append(result.Cells, cell)
	}
	// Порядок обхода map случаен, выдача упорядочивается по координатам
	sort.Slice(result.Cells, func(i, j int) bool {
		if result.Cells[i].Latitude != result.Cells[j].Latitude {
			return result.Cells[i].Latitude < result.Cells[j].Latitude
		}
		return result.Cells[i].Longitude < result.Cells[j].Longitude
	})
	return result
}

func validCoords(loc models.Location) bool {
	if math.IsNaN(loc.Latitude) || math.IsNaN(loc.Longitude) {
		return false
	}
	return loc.Latitude >= -90 && loc.Latitude <= 90 &&
		loc.Longitude >= -180 && loc.Longitude <= 180
}
