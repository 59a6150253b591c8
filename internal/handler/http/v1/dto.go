package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/savelyev/emergency_watch/internal/models"
)

// CreateIncidentRequest DTO для создания инцидента
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	Type        string  `json:"type" validate:"required,oneof=accident fire unsafe_area medical crime natural_disaster other"`
	Severity    string  `json:"severity" validate:"required,oneof=high medium low"`
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
	Address     string  `json:"address,omitempty"`
	Description string  `json:"description,omitempty"`
}

// VoteRequest DTO для голоса подтверждения/опровержения
// @Description DTO для голоса подтверждения/опровержения
type VoteRequest struct {
	Action string `json:"action" validate:"required"`
}

// AddInfoRequest DTO для дополнения описания инцидента
// @Description DTO для дополнения описания инцидента
type AddInfoRequest struct {
	AdditionalInfo string `json:"additional_info" validate:"required"`
}

// CloseIncidentRequest DTO для перевода инцидента в терминальный статус
// @Description DTO для перевода инцидента в терминальный статус
type CloseIncidentRequest struct {
	Status string `json:"status" validate:"required,oneof=resolved false_alarm"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID          uuid.UUID         `json:"id"`
	ReporterID  string            `json:"reporter_id"`
	Type        string            `json:"type"`
	Severity    string            `json:"severity"`
	Latitude    float64           `json:"latitude"`
	Longitude   float64           `json:"longitude"`
	Address     string            `json:"address,omitempty"`
	Description string            `json:"description,omitempty"`
	Confidence  models.Confidence `json:"confidence"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	ResolvedAt  *time.Time        `json:"resolved_at,omitempty"`
}

// CreateZoneRequest DTO для создания зоны наблюдения
// @Description DTO для создания зоны наблюдения
type CreateZoneRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=255"`
	Latitude     float64 `json:"latitude" validate:"latitude"`
	Longitude    float64 `json:"longitude" validate:"longitude"`
	Address      string  `json:"address,omitempty"`
	RadiusMeters int     `json:"radius_meters" validate:"required,gt=0"`
}

// UpdateZoneRequest DTO для обновления зоны наблюдения
// @Description DTO для обновления зоны наблюдения
type UpdateZoneRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=255"`
	Latitude     float64 `json:"latitude" validate:"latitude"`
	Longitude    float64 `json:"longitude" validate:"longitude"`
	Address      string  `json:"address,omitempty"`
	RadiusMeters int     `json:"radius_meters" validate:"required,gt=0"`
	IsActive     *bool   `json:"is_active" validate:"required"`
}

// ZoneResponse DTO для ответа с информацией о зоне наблюдения
// @Description DTO для ответа с информацией о зоне наблюдения
type ZoneResponse struct {
	ID            uuid.UUID  `json:"id"`
	OwnerID       string     `json:"owner_id"`
	Name          string     `json:"name"`
	Latitude      float64    `json:"latitude"`
	Longitude     float64    `json:"longitude"`
	Address       string     `json:"address,omitempty"`
	RadiusMeters  int        `json:"radius_meters"`
	IsActive      bool       `json:"is_active"`
	LastAlertedAt *time.Time `json:"last_alerted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ZoneCheckResponse DTO для результата проверки зоны
// @Description DTO для результата проверки зоны
type ZoneCheckResponse struct {
	Incidents []*IncidentResponse `json:"incidents"`
	Alerted   bool                `json:"alerted"`
}

// SOSRequest DTO для сигнала бедствия
// @Description DTO для сигнала бедствия
type SOSRequest struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// SOSResponse DTO для ответа на сигнал бедствия
// @Description DTO для ответа на сигнал бедствия
type SOSResponse struct {
	Alert            *models.SOSAlert  `json:"alert"`
	Incident         *IncidentResponse `json:"incident,omitempty"`
	ContactsNotified int               `json:"contacts_notified"`
}

// LocationCheckRequest DTO для отметки присутствия
// @Description DTO для отметки присутствия
type LocationCheckRequest struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// AnalyzeAreaRequest DTO для анализа истории района
// @Description DTO для анализа истории района
type AnalyzeAreaRequest struct {
	Latitude     float64 `json:"latitude" validate:"latitude"`
	Longitude    float64 `json:"longitude" validate:"longitude"`
	RadiusMeters int     `json:"radius_meters" validate:"required,gt=0"`
	WindowDays   int     `json:"window_days,omitempty" validate:"omitempty,gt=0"`
}

// HeatmapRequest DTO для построения тепловой карты
// @Description DTO для построения тепловой карты
type HeatmapRequest struct {
	SouthWestLatitude  float64 `json:"southwest_latitude" validate:"latitude"`
	SouthWestLongitude float64 `json:"southwest_longitude" validate:"longitude"`
	NorthEastLatitude  float64 `json:"northeast_latitude" validate:"latitude"`
	NorthEastLongitude float64 `json:"northeast_longitude" validate:"longitude"`
	WindowDays         int     `json:"window_days,omitempty" validate:"omitempty,gt=0"`
}
