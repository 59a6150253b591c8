package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/savelyev/emergency_watch/internal/config"
	"github.com/savelyev/emergency_watch/internal/metrics"
	"github.com/savelyev/emergency_watch/internal/models"
	"github.com/savelyev/emergency_watch/internal/notify"
	"github.com/sirupsen/logrus"
)

// IncidentRepository определяет контракт для работы с бд инцидентов.
// Пространственные выборки (nearby/box) инкапсулированы в хранилище,
// сервисный слой не знает о геоиндексах.
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string, resolvedAt time.Time) error
	AppendInfo(ctx context.Context, id uuid.UUID, info string) (*models.Incident, error)
	// CastVote применяет голос в одной транзакции с блокировкой строки
	// инцидента: конкурентные голоса по одному инциденту сериализуются.
	CastVote(ctx context.Context, id uuid.UUID, voterID, action string) (*models.Confidence, error)
	ListActive(ctx context.Context, limit int) ([]*models.Incident, error)
	// FindActiveNearby возвращает активные инциденты в радиусе точки,
	// ближайшие первыми. hazardousOnly ограничивает выборку high/medium.
	FindActiveNearby(ctx context.Context, lat, lon float64, radiusMeters int, hazardousOnly bool, limit int) ([]*models.Incident, error)
	FindNearbySince(ctx context.Context, lat, lon float64, radiusMeters int, since time.Time) ([]*models.Incident, error)
	FindWithinBoxSince(ctx context.Context, box models.BoundingBox, since time.Time) ([]*models.Incident, error)
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
	SaveLocationCheck(ctx context.Context, check *models.LocationCheck) error
	// CountActiveUsersNear считает уникальных пользователей с недавней
	// отметкой присутствия в радиусе точки, исключая excludeUserID.
	CountActiveUsersNear(ctx context.Context, lat, lon float64, radiusMeters, windowMinutes int, excludeUserID string) (int, error)
}

// IncidentService определяет контракт для бизнес-логики управления инцидентами
type IncidentService interface {
	CreateIncident(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	CastVote(ctx context.Context, id uuid.UUID, voterID, action string) (*models.Confidence, error)
	AddIncidentInfo(ctx context.Context, id uuid.UUID, info string) (*models.Incident, error)
	CloseIncident(ctx context.Context, id uuid.UUID, status string) error
	ListActiveIncidents(ctx context.Context) ([]*models.Incident, error)
	FindNearbyIncidents(ctx context.Context, lat, lon float64, radiusMeters int) ([]*models.Incident, error)
	CheckLocation(ctx context.Context, userID string, lat, lon float64) ([]*models.Incident, error)
}

type incidentService struct {
	repo      IncidentRepository
	logger    *logrus.Logger
	cfg       *config.Config
	publisher notify.Publisher
	metrics   *metrics.Metrics
	clock     clockwork.Clock
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, cfg *config.Config, publisher notify.Publisher, m *metrics.Metrics, clock clockwork.Clock) IncidentService {
	return &incidentService{
		repo:      repo,
		logger:    logger,
		cfg:       cfg,
		publisher: publisher,
		metrics:   m,
		clock:     clock,
	}
}

// publish отправляет событие; доставка fire-and-forget, отказ канала
// уведомлений не роняет уже выполненную операцию.
func (s *incidentService) publish(ctx context.Context, channel, event string, payload any) {
	if err := s.publisher.Publish(ctx, channel, event, payload); err != nil {
		s.logger.WithError(err).WithField("event", event).Warn("Failed to publish event")
	}
}

// CreateIncident создает инцидент и рассылает событие new-incident
func (s *incidentService) CreateIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "CreateIncident",
		"type":    incident.Type,
	})
	log.Info("Attempting to create a new incident")

	if !models.ValidIncidentType(incident.Type) {
		return fmt.Errorf("service: unknown incident type %q", incident.Type)
	}
	if !models.ValidSeverity(incident.Severity) {
		return fmt.Errorf("service: unknown severity %q", incident.Severity)
	}
	if err := validatePoint(incident.Location.Latitude, incident.Location.Longitude); err != nil {
		return err
	}

	incident.Status = models.StatusActive
	if incident.Confidence.Votes == nil {
		incident.Confidence = models.NewConfidence()
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	s.metrics.IncidentsCreated.Inc()
	s.publish(ctx, notify.BroadcastChannel, notify.EventNewIncident, incident)

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	return nil
}

// GetIncident получает инцидент по ID, сначала из кеша
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident from cache")
	}
	if cached != nil {
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// CastVote применяет голос пользователя и рассылает confidence-changed.
// Валидация действия происходит до обращения к бд.
func (s *incidentService) CastVote(ctx context.Context, id uuid.UUID, voterID, action string) (*models.Confidence, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "CastVote",
		"incident_id": id,
		"voter_id":    voterID,
		"action":      action,
	})

	if action != models.VoteConfirm && action != models.VoteDeny {
		return nil, fmt.Errorf("service: %w: %q", models.ErrInvalidVote, action)
	}
	if voterID == "" {
		return nil, fmt.Errorf("service: %w: empty voter id", models.ErrInvalidVote)
	}

	snapshot, err := s.repo.CastVote(ctx, id, voterID, action)
	if err != nil {
		log.WithError(err).Error("Failed to cast vote")
		return nil, fmt.Errorf("service: could not cast vote: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	s.metrics.VotesCast.WithLabelValues(action).Inc()
	s.publish(ctx, notify.BroadcastChannel, notify.EventConfidenceChanged, map[string]any{
		"incident_id": id,
		"confidence":  snapshot,
	})

	log.WithField("score", snapshot.Score).Info("Vote applied")
	return snapshot, nil
}

// AddIncidentInfo дописывает дополнительную информацию к описанию.
// Описание только дополняется, существующий текст не перезаписывается.
func (s *incidentService) AddIncidentInfo(ctx context.Context, id uuid.UUID, info string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "AddIncidentInfo",
		"incident_id": id,
	})
	log.Info("Appending info to incident")

	incident, err := s.repo.AppendInfo(ctx, id, info)
	if err != nil {
		log.WithError(err).Error("Failed to append incident info")
		return nil, fmt.Errorf("service: could not append incident info: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	s.publish(ctx, notify.BroadcastChannel, notify.EventIncidentUpdated, incident)
	return incident, nil
}

// CloseIncident переводит инцидент в терминальный статус
// (resolved или false_alarm). Обратного пути в active нет.
func (s *incidentService) CloseIncident(ctx context.Context, id uuid.UUID, status string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "CloseIncident",
		"incident_id": id,
		"status":      status,
	})
	log.Info("Attempting to close incident")

	if status != models.StatusResolved && status != models.StatusFalseAlarm {
		return fmt.Errorf("service: invalid terminal status %q", status)
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to close a non-existent incident")
		return fmt.Errorf("service: incident %s not found for close: %w", id, err)
	}
	if incident.Status != models.StatusActive {
		return fmt.Errorf("service: incident %s is already %s", id, incident.Status)
	}

	if err := s.repo.SetStatus(ctx, id, status, s.clock.Now().UTC()); err != nil {
		log.WithError(err).Error("Failed to close incident in repository")
		return fmt.Errorf("service: could not close incident: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	s.publish(ctx, notify.BroadcastChannel, notify.EventIncidentResolved, map[string]any{
		"incident_id": id,
		"status":      status,
	})

	log.Info("Incident closed successfully")
	return nil
}

// ListActiveIncidents возвращает активные инциденты, свежие первыми
func (s *incidentService) ListActiveIncidents(ctx context.Context) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListActiveIncidents",
	})

	incidents, err := s.repo.ListActive(ctx, s.cfg.NearbyIncidentLimit)
	if err != nil {
		log.WithError(err).Error("Failed to list active incidents")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// FindNearbyIncidents возвращает активные инциденты вокруг точки
func (s *incidentService) FindNearbyIncidents(ctx context.Context, lat, lon float64, radiusMeters int) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "FindNearbyIncidents",
	})

	if err := validatePoint(lat, lon); err != nil {
		return nil, err
	}
	if radiusMeters <= 0 {
		radiusMeters = s.cfg.NearbyRadiusMeters
	}

	incidents, err := s.repo.FindActiveNearby(ctx, lat, lon, radiusMeters, false, s.cfg.NearbyIncidentLimit)
	if err != nil {
		log.WithError(err).Error("Failed to find nearby incidents")
		return nil, fmt.Errorf("service: could not find nearby incidents: %w", err)
	}
	return incidents, nil
}

// CheckLocation фиксирует отметку присутствия пользователя и возвращает
// опасные активные инциденты рядом. Отметки используются для подсчета
// потенциальных респондентов при SOS.
func (s *incidentService) CheckLocation(ctx context.Context, userID string, lat, lon float64) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "CheckLocation",
		"user_id": userID,
	})
	log.Info("Checking user location")

	if err := validatePoint(lat, lon); err != nil {
		return nil, err
	}

	incidents, err := s.repo.FindActiveNearby(ctx, lat, lon, s.cfg.SOSResponderRadiusMeters, true, s.cfg.NearbyIncidentLimit)
	if err != nil {
		log.WithError(err).Error("Failed to find active incidents by location")
		return nil, fmt.Errorf("service: failed to find active incidents: %w", err)
	}

	isDanger := len(incidents) > 0
	check := &models.LocationCheck{
		UserID:      userID,
		Latitude:    lat,
		Longitude:   lon,
		IsDangerous: isDanger,
	}
	if err := s.repo.SaveLocationCheck(ctx, check); err != nil {
		log.WithError(err).Error("Failed to save location check")
		return nil, fmt.Errorf("service: failed to save location check: %w", err)
	}

	log.WithField("is_danger", isDanger).Info("Location check completed")
	return incidents, nil
}

// validatePoint проверяет корректность координат
func validatePoint(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("service: %w: lat=%f lon=%f", models.ErrInvalidGeometry, lat, lon)
	}
	return nil
}
