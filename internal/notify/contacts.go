package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/savelyev/emergency_watch/internal/config"
	"github.com/savelyev/emergency_watch/internal/models"
	"github.com/sirupsen/logrus"
)

// ContactNotifier - интерфейс синхронного уведомления доверенного
// контакта о сигнале SOS. Возвращает результат доставки, который
// сохраняется на самом сигнале; ошибок наружу не отдает - отказ
// доставки одному контакту не должен ронять весь запрос.
type ContactNotifier interface {
	NotifyContact(ctx context.Context, contact *models.Contact, alert *models.SOSAlert) models.ContactNotification
}

// WebhookContactNotifier доставляет SOS-уведомления контактам
// HMAC-подписанным POST-запросом на их webhook-адрес.
type WebhookContactNotifier struct {
	httpClient *http.Client
	secret     string
	logger     *logrus.Logger
	clock      clockwork.Clock
}

// NewWebhookContactNotifier создает новый WebhookContactNotifier
func NewWebhookContactNotifier(cfg *config.Config, logger *logrus.Logger, clock clockwork.Clock) *WebhookContactNotifier {
	return &WebhookContactNotifier{
		httpClient: &http.Client{Timeout: cfg.WebhookTimeout},
		secret:     cfg.WebhookSecret,
		logger:     logger,
		clock:      clock,
	}
}

// sosNotification - тело уведомления контакта
type sosNotification struct {
	AlertID   string          `json:"alert_id"`
	SenderID  string          `json:"sender_id"`
	Location  models.Location `json:"location"`
	CreatedAt string          `json:"created_at"`
}

// NotifyContact отправляет уведомление и фиксирует результат доставки
func (n *WebhookContactNotifier) NotifyContact(ctx context.Context, contact *models.Contact, alert *models.SOSAlert) models.ContactNotification {
	notification := models.ContactNotification{
		ContactID:  contact.ID,
		Method:     "webhook",
		Status:     models.NotificationPending,
		NotifiedAt: n.clock.Now().UTC(),
	}

	log := n.logger.WithFields(logrus.Fields{
		"contact_id": contact.ID,
		"alert_id":   alert.ID,
	})

	if contact.WebhookURL == "" {
		log.Warn("Contact has no webhook URL, skipping notification")
		notification.Method = ""
		notification.Status = models.NotificationFailed
		return notification
	}

	body, err := json.Marshal(sosNotification{
		AlertID:   alert.ID.String(),
		SenderID:  alert.SenderID,
		Location:  alert.Location,
		CreatedAt: alert.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
	if err != nil {
		log.WithError(err).Error("Failed to marshal SOS notification")
		notification.Status = models.NotificationFailed
		return notification
	}

	req, err := http.NewRequestWithContext(ctx, "POST", contact.WebhookURL, bytes.NewBuffer(body))
	if err != nil {
		log.WithError(err).Error("Failed to create SOS notification request")
		notification.Status = models.NotificationFailed
		return notification
	}
	req.Header.Set("Content-Type", "application/json")
	if n.secret != "" {
		req.Header.Set("X-Webhook-Signature", generateHMACSHA256(string(body), n.secret))
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("Failed to deliver SOS notification")
		notification.Status = models.NotificationFailed
		return notification
	}
	resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		notification.Status = models.NotificationSent
	} else {
		log.Warnf("SOS notification delivery failed with status code %d", resp.StatusCode)
		notification.Status = models.NotificationFailed
	}
	return notification
}
