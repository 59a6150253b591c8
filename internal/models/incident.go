package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы инцидентов
const (
	TypeAccident        = "accident"
	TypeFire            = "fire"
	TypeUnsafeArea      = "unsafe_area"
	TypeMedical         = "medical"
	TypeCrime           = "crime"
	TypeNaturalDisaster = "natural_disaster"
	TypeOther           = "other"
)

// Уровни серьезности инцидента
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Статусы инцидента. Переходы active -> resolved и active -> false_alarm
// терминальны, обратного пути в active нет.
const (
	StatusActive     = "active"
	StatusResolved   = "resolved"
	StatusFalseAlarm = "false_alarm"
)

// Действия голосования
const (
	VoteConfirm = "confirm"
	VoteDeny    = "deny"
)

// DefaultConfidenceScore - нейтральный балл доверия при отсутствии голосов
const DefaultConfidenceScore = 50

// Location представляет географическую точку с опциональным адресом
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// Confidence - состояние краудсорсинговой верификации инцидента.
// Votes хранит последнее действие каждого проголосовавшего пользователя.
type Confidence struct {
	Score         int               `json:"score"`
	Confirmations int               `json:"confirmations"`
	Denials       int               `json:"denials"`
	Votes         map[string]string `json:"votes,omitempty"`
}

// Incident представляет сообщение о происшествии с геопривязкой
type Incident struct {
	ID          uuid.UUID  `json:"id"`
	ReporterID  string     `json:"reporter_id"`
	Type        string     `json:"type"`
	Severity    string     `json:"severity"`
	Location    Location   `json:"location"`
	Description string     `json:"description,omitempty"`
	Confidence  Confidence `json:"confidence"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// NewConfidence возвращает начальное состояние верификации
func NewConfidence() Confidence {
	return Confidence{
		Score: DefaultConfidenceScore,
		Votes: make(map[string]string),
	}
}

// ValidIncidentType проверяет, что тип инцидента из допустимого набора
func ValidIncidentType(t string) bool {
	switch t {
	case TypeAccident, TypeFire, TypeUnsafeArea, TypeMedical, TypeCrime, TypeNaturalDisaster, TypeOther:
		return true
	}
	return false
}

// ValidSeverity проверяет уровень серьезности
func ValidSeverity(s string) bool {
	return s == SeverityHigh || s == SeverityMedium || s == SeverityLow
}
