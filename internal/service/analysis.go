package service

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/savelyev/emergency_watch/internal/analysis"
	"github.com/savelyev/emergency_watch/internal/config"
	"github.com/savelyev/emergency_watch/internal/metrics"
	"github.com/savelyev/emergency_watch/internal/models"
	"github.com/sirupsen/logrus"
)

// AnalysisService определяет контракт исторического анализа.
// Операции только читают данные и безопасны для конкурентных вызовов.
type AnalysisService interface {
	AnalyzeArea(ctx context.Context, center models.Location, radiusMeters, windowDays int) (*models.AreaAnalysis, error)
	BuildHeatmap(ctx context.Context, box models.BoundingBox, windowDays int) (*models.Heatmap, error)
}

type analysisService struct {
	incidents IncidentRepository
	logger    *logrus.Logger
	cfg       *config.Config
	metrics   *metrics.Metrics
	clock     clockwork.Clock
}

func NewAnalysisService(incidents IncidentRepository, logger *logrus.Logger, cfg *config.Config, m *metrics.Metrics, clock clockwork.Clock) AnalysisService {
	return &analysisService{
		incidents: incidents,
		logger:    logger,
		cfg:       cfg,
		metrics:   m,
		clock:     clock,
	}
}

// AnalyzeArea анализирует историю инцидентов вокруг точки за окно
func (s *analysisService) AnalyzeArea(ctx context.Context, center models.Location, radiusMeters, windowDays int) (*models.AreaAnalysis, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "analysis",
		"method":  "AnalyzeArea",
	})

	if err := validatePoint(center.Latitude, center.Longitude); err != nil {
		return nil, err
	}
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("service: %w: radius must be positive", models.ErrInvalidGeometry)
	}
	if windowDays <= 0 {
		windowDays = s.cfg.AnalysisWindowDays
	}

	now := s.clock.Now().UTC()
	since := now.AddDate(0, 0, -windowDays)
	incidents, err := s.incidents.FindNearbySince(ctx, center.Latitude, center.Longitude, radiusMeters, since)
	if err != nil {
		log.WithError(err).Error("Failed to fetch incidents for area analysis")
		return nil, fmt.Errorf("service: could not fetch incidents for analysis: %w", err)
	}

	result := analysis.AnalyzeArea(incidents, windowDays, now)
	s.metrics.AnalysisRequests.WithLabelValues("area").Inc()
	log.WithFields(logrus.Fields{
		"total": result.TotalIncidents,
		"risk":  result.RiskLevel,
	}).Info("Area analysis completed")
	return result, nil
}

// BuildHeatmap строит тепловую карту инцидентов внутри области
func (s *analysisService) BuildHeatmap(ctx context.Context, box models.BoundingBox, windowDays int) (*models.Heatmap, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "analysis",
		"method":  "BuildHeatmap",
	})

	if err := validatePoint(box.SouthWest.Latitude, box.SouthWest.Longitude); err != nil {
		return nil, err
	}
	if err := validatePoint(box.NorthEast.Latitude, box.NorthEast.Longitude); err != nil {
		return nil, err
	}
	if box.SouthWest.Latitude > box.NorthEast.Latitude || box.SouthWest.Longitude > box.NorthEast.Longitude {
		return nil, fmt.Errorf("service: %w: southwest corner must be south-west of northeast", models.ErrInvalidGeometry)
	}
	if windowDays <= 0 {
		windowDays = s.cfg.AnalysisWindowDays
	}

	since := s.clock.Now().UTC().AddDate(0, 0, -windowDays)
	incidents, err := s.incidents.FindWithinBoxSince(ctx, box, since)
	if err != nil {
		log.WithError(err).Error("Failed to fetch incidents for heatmap")
		return nil, fmt.Errorf("service: could not fetch incidents for heatmap: %w", err)
	}

	result := analysis.BuildHeatmap(incidents)
	s.metrics.AnalysisRequests.WithLabelValues("heatmap").Inc()
	log.WithField("cells", len(result.Cells)).Info("Heatmap built")
	return result, nil
}
