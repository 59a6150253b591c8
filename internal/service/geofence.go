package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/savelyev/emergency_watch/internal/metrics"
	"github.com/savelyev/emergency_watch/internal/models"
	"github.com/savelyev/emergency_watch/internal/notify"
	"github.com/sirupsen/logrus"
)

// WatchZoneRepository определяет контракт для работы с бд зон наблюдения
type WatchZoneRepository interface {
	Create(ctx context.Context, zone *models.WatchZone) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WatchZone, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.WatchZone, error)
	Update(ctx context.Context, zone *models.WatchZone) error
	Delete(ctx context.Context, id uuid.UUID) error
	MarkAlerted(ctx context.Context, id uuid.UUID, at time.Time) error
}

// GeofenceService определяет контракт мониторинга зон наблюдения
type GeofenceService interface {
	CreateZone(ctx context.Context, zone *models.WatchZone) error
	ListZones(ctx context.Context, ownerID string) ([]*models.WatchZone, error)
	UpdateZone(ctx context.Context, zone *models.WatchZone) error
	DeleteZone(ctx context.Context, id uuid.UUID, ownerID string) error
	CheckZone(ctx context.Context, id uuid.UUID, ownerID string) (*models.ZoneCheckResult, error)
}

type geofenceService struct {
	zones     WatchZoneRepository
	incidents IncidentRepository
	logger    *logrus.Logger
	publisher notify.Publisher
	metrics   *metrics.Metrics
	clock     clockwork.Clock
}

func NewGeofenceService(zones WatchZoneRepository, incidents IncidentRepository, logger *logrus.Logger, publisher notify.Publisher, m *metrics.Metrics, clock clockwork.Clock) GeofenceService {
	return &geofenceService{
		zones:     zones,
		incidents: incidents,
		logger:    logger,
		publisher: publisher,
		metrics:   m,
		clock:     clock,
	}
}

// CreateZone создает зону наблюдения
func (s *geofenceService) CreateZone(ctx context.Context, zone *models.WatchZone) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "geofence",
		"method":   "CreateZone",
		"owner_id": zone.OwnerID,
	})
	log.Info("Attempting to create a watch zone")

	if zone.RadiusMeters <= 0 {
		return fmt.Errorf("service: %w: radius must be positive", models.ErrInvalidGeometry)
	}
	if err := validatePoint(zone.Center.Latitude, zone.Center.Longitude); err != nil {
		return err
	}

	zone.IsActive = true
	if err := s.zones.Create(ctx, zone); err != nil {
		log.WithError(err).Error("Failed to create watch zone in repository")
		return fmt.Errorf("service: could not create watch zone: %w", err)
	}

	log.WithField("zone_id", zone.ID).Info("Watch zone created successfully")
	return nil
}

// ListZones возвращает зоны наблюдения владельца
func (s *geofenceService) ListZones(ctx context.Context, ownerID string) ([]*models.WatchZone, error) {
	zones, err := s.zones.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list watch zones")
		return nil, fmt.Errorf("service: could not list watch zones: %w", err)
	}
	return zones, nil
}

// UpdateZone обновляет зону наблюдения владельца
func (s *geofenceService) UpdateZone(ctx context.Context, zone *models.WatchZone) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "geofence",
		"method":  "UpdateZone",
		"zone_id": zone.ID,
	})

	if zone.RadiusMeters <= 0 {
		return fmt.Errorf("service: %w: radius must be positive", models.ErrInvalidGeometry)
	}
	if err := validatePoint(zone.Center.Latitude, zone.Center.Longitude); err != nil {
		return err
	}

	existing, err := s.ownedZone(ctx, zone.ID, zone.OwnerID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a foreign or missing zone")
		return err
	}

	existing.Name = zone.Name
	existing.Center = zone.Center
	existing.RadiusMeters = zone.RadiusMeters
	existing.IsActive = zone.IsActive

	if err := s.zones.Update(ctx, existing); err != nil {
		log.WithError(err).Error("Failed to update watch zone in repository")
		return fmt.Errorf("service: could not update watch zone: %w", err)
	}
	log.Info("Watch zone updated successfully")
	return nil
}

// DeleteZone удаляет зону наблюдения владельца
func (s *geofenceService) DeleteZone(ctx context.Context, id uuid.UUID, ownerID string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "geofence",
		"method":  "DeleteZone",
		"zone_id": id,
	})

	if _, err := s.ownedZone(ctx, id, ownerID); err != nil {
		log.WithError(err).Warn("Attempted to delete a foreign or missing zone")
		return err
	}

	if err := s.zones.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete watch zone in repository")
		return fmt.Errorf("service: could not delete watch zone: %w", err)
	}
	log.Info("Watch zone deleted successfully")
	return nil
}

// CheckZone выполняет один цикл проверки зоны. Неактивная зона - no-op.
// Дедупликации против прошлых срабатываний нет: одни и те же инциденты
// могут поднимать тревогу на каждой последовательной проверке;
// LastAlertedAt отдается наружу, чтобы вызывающая сторона могла
// навесить собственную политику подавления.
func (s *geofenceService) CheckZone(ctx context.Context, id uuid.UUID, ownerID string) (*models.ZoneCheckResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "geofence",
		"method":  "CheckZone",
		"zone_id": id,
	})

	zone, err := s.ownedZone(ctx, id, ownerID)
	if err != nil {
		log.WithError(err).Warn("Attempted to check a foreign or missing zone")
		return nil, err
	}

	s.metrics.GeofenceChecks.Inc()

	if !zone.IsActive {
		log.Debug("Zone is inactive, skipping check")
		return &models.ZoneCheckResult{Incidents: []*models.Incident{}}, nil
	}

	incidents, err := s.incidents.FindActiveNearby(ctx,
		zone.Center.Latitude, zone.Center.Longitude, zone.RadiusMeters, true, 0)
	if err != nil {
		log.WithError(err).Error("Failed to query incidents for zone")
		return nil, fmt.Errorf("service: %w: zone incident query failed: %v", models.ErrUpstreamUnavailable, err)
	}

	result := &models.ZoneCheckResult{
		Incidents: incidents,
		Alerted:   len(incidents) > 0,
	}
	if !result.Alerted {
		return result, nil
	}

	now := s.clock.Now().UTC()
	if err := s.zones.MarkAlerted(ctx, zone.ID, now); err != nil {
		log.WithError(err).Error("Failed to mark zone as alerted")
		return nil, fmt.Errorf("service: could not mark zone alerted: %w", err)
	}
	zone.LastAlertedAt = &now

	s.metrics.GeofenceAlerts.Inc()
	if err := s.publisher.Publish(ctx, notify.UserChannel(zone.OwnerID), notify.EventGeofenceAlert, map[string]any{
		"zone":      zone,
		"incidents": incidents,
	}); err != nil {
		log.WithError(err).Warn("Failed to publish geofence alert")
	}

	log.WithField("incident_count", len(incidents)).Info("Zone alerted")
	return result, nil
}

// ownedZone возвращает зону, если она существует и принадлежит ownerID.
// Чужая зона неотличима от отсутствующей.
func (s *geofenceService) ownedZone(ctx context.Context, id uuid.UUID, ownerID string) (*models.WatchZone, error) {
	zone, err := s.zones.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get watch zone: %w", err)
	}
	if zone.OwnerID != ownerID {
		return nil, fmt.Errorf("service: watch zone %s: %w", id, models.ErrNotFound)
	}
	return zone, nil
}
