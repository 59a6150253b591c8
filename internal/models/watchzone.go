package models

import (
	"time"

	"github.com/google/uuid"
)

// WatchZone - пользовательская зона наблюдения (геозона).
// Мониторинг срабатывает на активные инциденты high/medium внутри радиуса.
type WatchZone struct {
	ID            uuid.UUID  `json:"id"`
	OwnerID       string     `json:"owner_id"`
	Name          string     `json:"name"`
	Center        Location   `json:"center"`
	RadiusMeters  int        `json:"radius_meters"`
	IsActive      bool       `json:"is_active"`
	LastAlertedAt *time.Time `json:"last_alerted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ZoneCheckResult - результат одной проверки зоны наблюдения
type ZoneCheckResult struct {
	Incidents []*Incident `json:"incidents"`
	Alerted   bool        `json:"alerted"`
}

// LocationCheck представляет запись о присутствии пользователя в точке.
// Используется для подсчета потенциальных респондентов рядом с SOS.
type LocationCheck struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	IsDangerous bool      `json:"is_dangerous"`
	CheckedAt   time.Time `json:"checked_at"`
}
