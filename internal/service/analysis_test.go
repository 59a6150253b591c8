package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/savelyev/emergency_watch/internal/config"
	"github.com/savelyev/emergency_watch/internal/metrics"
	"github.com/savelyev/emergency_watch/internal/models"
	"github.com/savelyev/emergency_watch/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestAnalysisService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestAnalysisService(t *testing.T) (*analysisService, *mocks.MockIncidentRepository, *clockwork.FakeClock) {
	ctrl := gomock.NewController(t)
	incidentsMock := mocks.NewMockIncidentRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		AnalysisWindowDays: 30,
	}
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	service := NewAnalysisService(incidentsMock, logger, cfg, metrics.NewNopMetrics(), clock)
	return service.(*analysisService), incidentsMock, clock
}

func TestAnalyzeArea_DefaultWindow(t *testing.T) {
	// Подготовка
	service, incidentsMock, clock := newTestAnalysisService(t)
	ctx := context.Background()
	now := clock.Now().UTC()
	center := models.Location{Latitude: 55.75, Longitude: 37.61}
	incidents := []*models.Incident{
		{ID: uuid.New(), Type: models.TypeFire, Severity: models.SeverityHigh, CreatedAt: now.Add(-24 * time.Hour)},
		{ID: uuid.New(), Type: models.TypeCrime, Severity: models.SeverityLow, CreatedAt: now.Add(-48 * time.Hour)},
	}

	// Ожидания: окно по умолчанию 30 дней из конфигурации
	incidentsMock.EXPECT().
		FindNearbySince(ctx, 55.75, 37.61, 1000, now.AddDate(0, 0, -30)).
		Return(incidents, nil).
		Times(1)

	// Действие
	result, err := service.AnalyzeArea(ctx, center, 1000, 0)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalIncidents)
	assert.Equal(t, models.RiskLow, result.RiskLevel)
	assert.Equal(t, 1, result.Patterns.ByType[models.TypeFire])
}

func TestAnalyzeArea_InvalidRadius(t *testing.T) {
	// Подготовка
	service, _, _ := newTestAnalysisService(t)
	ctx := context.Background()

	// Действие
	result, err := service.AnalyzeArea(ctx, models.Location{Latitude: 55.75, Longitude: 37.61}, -5, 0)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidGeometry)
	assert.Nil(t, result)
}

func TestBuildHeatmap_Success(t *testing.T) {
	// Подготовка
	service, incidentsMock, clock := newTestAnalysisService(t)
	ctx := context.Background()
	now := clock.Now().UTC()
	box := models.BoundingBox{
		SouthWest: models.Location{Latitude: 55.0, Longitude: 37.0},
		NorthEast: models.Location{Latitude: 56.0, Longitude: 38.0},
	}
	incidents := []*models.Incident{
		{ID: uuid.New(), Severity: models.SeverityHigh,
			Location:  models.Location{Latitude: 55.755, Longitude: 37.615},
			CreatedAt: now.Add(-24 * time.Hour)},
	}

	// Ожидания
	incidentsMock.EXPECT().
		FindWithinBoxSince(ctx, box, now.AddDate(0, 0, -30)).
		Return(incidents, nil).
		Times(1)

	// Действие
	result, err := service.BuildHeatmap(ctx, box, 0)

	// Проверки
	require.NoError(t, err)
	require.Len(t, result.Cells, 1)
	assert.Equal(t, 1, result.Cells[0].Count)
}

func TestBuildHeatmap_InvertedBox(t *testing.T) {
	// Подготовка
	service, _, _ := newTestAnalysisService(t)
	ctx := context.Background()
	box := models.BoundingBox{
		SouthWest: models.Location{Latitude: 56.0, Longitude: 38.0},
		NorthEast: models.Location{Latitude: 55.0, Longitude: 37.0},
	}

	// Действие
	result, err := service.BuildHeatmap(ctx, box, 0)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidGeometry)
	assert.Nil(t, result)
}
