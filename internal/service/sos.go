package service

import (
	"context"
	"fmt"
	"time"

	"github.com/savelyev/emergency_watch/internal/config"
	"github.com/savelyev/emergency_watch/internal/metrics"
	"github.com/savelyev/emergency_watch/internal/models"
	"github.com/savelyev/emergency_watch/internal/notify"
	"github.com/sirupsen/logrus"
)

// SOSRepository определяет контракт для работы с бд сигналов бедствия
type SOSRepository interface {
	Create(ctx context.Context, alert *models.SOSAlert) error
	ListBySender(ctx context.Context, senderID string, limit int) ([]*models.SOSAlert, error)
	ListCreatedSince(ctx context.Context, since time.Time, limit int) ([]*models.SOSAlert, error)
}

// ContactRepository определяет контракт доступа к доверенным контактам
type ContactRepository interface {
	ListFavourites(ctx context.Context, ownerID string) ([]*models.Contact, error)
}

// SOSService определяет контракт обработки сигналов бедствия
type SOSService interface {
	// TriggerSOS создает сигнал и сопутствующий инцидент. Компенсации
	// нет: если инцидент создать не удалось, возвращается
	// *models.PartialError с уже созданным сигналом.
	TriggerSOS(ctx context.Context, senderID string, loc models.Location) (*models.SOSAlert, *models.Incident, error)
	MySOSAlerts(ctx context.Context, senderID string) ([]*models.SOSAlert, error)
}

type sosService struct {
	alerts    SOSRepository
	incidents IncidentRepository
	contacts  ContactRepository
	notifier  notify.ContactNotifier
	logger    *logrus.Logger
	cfg       *config.Config
	publisher notify.Publisher
	metrics   *metrics.Metrics
}

func NewSOSService(alerts SOSRepository, incidents IncidentRepository, contacts ContactRepository, notifier notify.ContactNotifier, logger *logrus.Logger, cfg *config.Config, publisher notify.Publisher, m *metrics.Metrics) SOSService {
	return &sosService{
		alerts:    alerts,
		incidents: incidents,
		contacts:  contacts,
		notifier:  notifier,
		logger:    logger,
		cfg:       cfg,
		publisher: publisher,
		metrics:   m,
	}
}

const sosMyAlertsLimit = 50

// TriggerSOS обрабатывает сигнал бедствия: уведомляет доверенные
// контакты с фиксацией результата доставки, считает потенциальных
// респондентов рядом, сохраняет сигнал и синхронно создает
// сопутствующий инцидент высокой серьезности с подтверждением
// самого отправителя.
func (s *sosService) TriggerSOS(ctx context.Context, senderID string, loc models.Location) (*models.SOSAlert, *models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "sos",
		"method":    "TriggerSOS",
		"sender_id": senderID,
	})
	log.Info("Processing SOS alert")

	if err := validatePoint(loc.Latitude, loc.Longitude); err != nil {
		return nil, nil, err
	}

	alert := &models.SOSAlert{
		SenderID: senderID,
		Location: loc,
		Status:   models.SOSStatusActive,
	}

	// Уведомления контактам - до записи сигнала: их результат
	// сохраняется на самом сигнале. Отказ выборки контактов не
	// останавливает SOS.
	contacts, err := s.contacts.ListFavourites(ctx, senderID)
	if err != nil {
		log.WithError(err).Warn("Failed to list favourite contacts, proceeding without notifications")
	}
	for _, contact := range contacts {
		outcome := s.notifier.NotifyContact(ctx, contact, alert)
		alert.ContactsNotified = append(alert.ContactsNotified, outcome)
	}

	responders, err := s.incidents.CountActiveUsersNear(ctx,
		loc.Latitude, loc.Longitude,
		s.cfg.SOSResponderRadiusMeters, s.cfg.SOSResponderWindowMinutes, senderID)
	if err != nil {
		log.WithError(err).Warn("Failed to count nearby responders")
	}
	alert.NearbyRespondersNotified = responders

	if err := s.alerts.Create(ctx, alert); err != nil {
		log.WithError(err).Error("Failed to create SOS alert in repository")
		return nil, nil, fmt.Errorf("service: could not create SOS alert: %w", err)
	}

	s.metrics.SOSTriggered.Inc()
	if err := s.publisher.Publish(ctx, notify.BroadcastChannel, notify.EventSOSAlert, alert); err != nil {
		log.WithError(err).Warn("Failed to publish SOS event")
	}

	// Сопутствующий инцидент: высокая серьезность, балл 100,
	// подтверждение отправителя засчитано. Отката сигнала при отказе
	// нет - вызывающая сторона получает PartialError.
	incident := &models.Incident{
		ReporterID:  senderID,
		Type:        models.TypeOther,
		Severity:    models.SeverityHigh,
		Location:    loc,
		Description: fmt.Sprintf("SOS Alert triggered by %s", senderID),
		Status:      models.StatusActive,
		Confidence: models.Confidence{
			Score:         100,
			Confirmations: 1,
			Votes:         map[string]string{senderID: models.VoteConfirm},
		},
	}
	if err := s.incidents.Create(ctx, incident); err != nil {
		log.WithError(err).Error("SOS alert created but companion incident failed")
		return alert, nil, &models.PartialError{
			SignalCreated:   true,
			IncidentCreated: false,
			Err:             err,
		}
	}

	if err := s.publisher.Publish(ctx, notify.BroadcastChannel, notify.EventNewIncident, incident); err != nil {
		log.WithError(err).Warn("Failed to publish companion incident event")
	}

	log.WithFields(logrus.Fields{
		"alert_id":    alert.ID,
		"incident_id": incident.ID,
		"responders":  responders,
	}).Info("SOS alert processed")
	return alert, incident, nil
}

// MySOSAlerts возвращает сигналы отправителя, свежие первыми
func (s *sosService) MySOSAlerts(ctx context.Context, senderID string) ([]*models.SOSAlert, error) {
	alerts, err := s.alerts.ListBySender(ctx, senderID, sosMyAlertsLimit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list SOS alerts")
		return nil, fmt.Errorf("service: could not list SOS alerts: %w", err)
	}
	return alerts, nil
}
