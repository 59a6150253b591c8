package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/savelyev/emergency_watch/internal/config"
	"github.com/savelyev/emergency_watch/internal/metrics"
	"github.com/savelyev/emergency_watch/internal/models"
	"github.com/sirupsen/logrus"
)

// sosFeedWindow - окно свежести SOS-сигналов в ленте
const sosFeedWindow = 24 * time.Hour

// FeedService определяет контракт сборки единой ленты событий
type FeedService interface {
	// BuildFeed собирает снимок ленты. center == nil означает выборку
	// без географического фильтра, упорядоченную по свежести.
	BuildFeed(ctx context.Context, center *models.Location, radiusMeters int) (*models.Feed, error)
}

type feedService struct {
	incidents IncidentRepository
	signals   SOSRepository
	logger    *logrus.Logger
	cfg       *config.Config
	metrics   *metrics.Metrics
	clock     clockwork.Clock
}

func NewFeedService(incidents IncidentRepository, signals SOSRepository, logger *logrus.Logger, cfg *config.Config, m *metrics.Metrics, clock clockwork.Clock) FeedService {
	return &feedService{
		incidents: incidents,
		signals:   signals,
		logger:    logger,
		cfg:       cfg,
		metrics:   m,
		clock:     clock,
	}
}

// BuildFeed сливает инциденты и SOS-сигналы в одну ленту по убыванию
// времени создания. Сортировка стабильная: при равных метках исходный
// относительный порядок сохраняется.
func (s *feedService) BuildFeed(ctx context.Context, center *models.Location, radiusMeters int) (*models.Feed, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "feed",
		"method":  "BuildFeed",
	})

	if radiusMeters <= 0 {
		radiusMeters = s.cfg.FeedRadiusMeters
	}

	var (
		incidents []*models.Incident
		err       error
	)
	if center != nil {
		if err := validatePoint(center.Latitude, center.Longitude); err != nil {
			return nil, err
		}
		incidents, err = s.incidents.FindActiveNearby(ctx,
			center.Latitude, center.Longitude, radiusMeters, false, s.cfg.FeedIncidentLimit)
	} else {
		incidents, err = s.incidents.ListActive(ctx, s.cfg.FeedIncidentLimit)
	}
	if err != nil {
		log.WithError(err).Error("Failed to fetch incidents for feed")
		return nil, fmt.Errorf("service: could not fetch feed incidents: %w", err)
	}

	since := s.clock.Now().UTC().Add(-sosFeedWindow)
	signals, err := s.signals.ListCreatedSince(ctx, since, s.cfg.FeedSOSLimit)
	if err != nil {
		log.WithError(err).Error("Failed to fetch SOS alerts for feed")
		return nil, fmt.Errorf("service: could not fetch feed alerts: %w", err)
	}

	feed := &models.Feed{
		Items: make([]*models.FeedItem, 0, len(incidents)+len(signals)),
	}

	for _, inc := range incidents {
		if inc == nil || inc.CreatedAt.IsZero() {
			feed.SkippedRecords++
			continue
		}
		conf := inc.Confidence
		feed.Items = append(feed.Items, &models.FeedItem{
			Kind:         models.FeedKindIncident,
			ID:           inc.ID,
			UserID:       inc.ReporterID,
			Location:     inc.Location,
			CreatedAt:    inc.CreatedAt,
			IncidentType: inc.Type,
			Severity:     inc.Severity,
			Description:  inc.Description,
			Confidence:   &conf,
		})
	}

	for _, alert := range signals {
		if alert == nil || alert.CreatedAt.IsZero() {
			feed.SkippedRecords++
			continue
		}
		feed.Items = append(feed.Items, &models.FeedItem{
			Kind:      models.FeedKindSOS,
			ID:        alert.ID,
			UserID:    alert.SenderID,
			Location:  alert.Location,
			CreatedAt: alert.CreatedAt,
			Status:    alert.Status,
		})
	}

	sort.SliceStable(feed.Items, func(i, j int) bool {
		return feed.Items[i].CreatedAt.After(feed.Items[j].CreatedAt)
	})

	s.metrics.FeedRequests.Inc()
	log.WithField("count", len(feed.Items)).Info("Feed built")
	return feed, nil
}
