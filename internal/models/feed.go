package models

import (
	"time"

	"github.com/google/uuid"
)

// Виды элементов ленты
const (
	FeedKindIncident = "incident"
	FeedKindSOS      = "sos"
)

// FeedItem - элемент единой ленты событий. Kind определяет, какие
// поля заполнены: для инцидента - IncidentType/Severity/Description/
// Confidence, для SOS - только Status.
type FeedItem struct {
	Kind         string      `json:"kind"`
	ID           uuid.UUID   `json:"id"`
	UserID       string      `json:"user_id"`
	Location     Location    `json:"location"`
	CreatedAt    time.Time   `json:"created_at"`
	IncidentType string      `json:"incident_type,omitempty"`
	Severity     string      `json:"severity,omitempty"`
	Description  string      `json:"description,omitempty"`
	Confidence   *Confidence `json:"confidence,omitempty"`
	Status       string      `json:"status,omitempty"`
}

// Feed - снимок ленты. Не курсор: пагинации нет, только независимые
// лимиты на инциденты и SOS-сигналы.
type Feed struct {
	Items          []*FeedItem `json:"items"`
	SkippedRecords int         `json:"skipped_records,omitempty"`
}
