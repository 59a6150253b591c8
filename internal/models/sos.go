package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы сигнала бедствия
const (
	SOSStatusActive    = "active"
	SOSStatusResolved  = "resolved"
	SOSStatusCancelled = "cancelled"
)

// Статусы доставки уведомления контакту
const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// ContactNotification - результат уведомления одного контакта о сигнале SOS
type ContactNotification struct {
	ContactID  uuid.UUID `json:"contact_id"`
	Method     string    `json:"method"`
	Status     string    `json:"status"`
	NotifiedAt time.Time `json:"notified_at"`
}

// SOSAlert представляет сигнал бедствия пользователя
type SOSAlert struct {
	ID                       uuid.UUID             `json:"id"`
	SenderID                 string                `json:"sender_id"`
	Location                 Location              `json:"location"`
	ContactsNotified         []ContactNotification `json:"contacts_notified,omitempty"`
	NearbyRespondersNotified int                   `json:"nearby_responders_notified"`
	Status                   string                `json:"status"`
	CreatedAt                time.Time             `json:"created_at"`
	ResolvedAt               *time.Time            `json:"resolved_at,omitempty"`
}

// Contact - доверенный контакт пользователя для SOS-уведомлений
type Contact struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	WebhookURL  string    `json:"webhook_url,omitempty"`
	IsFavourite bool      `json:"is_favourite"`
	CreatedAt   time.Time `json:"created_at"`
}
