package service

import (
	"bytes"
	"context"
	"fmt"
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

// newTestFeedService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestFeedService(t *testing.T) (*feedService, *mocks.MockIncidentRepository, *mocks.MockSOSRepository, *clockwork.FakeClock) {
	ctrl := gomock.NewController(t)
	incidentsMock := mocks.NewMockIncidentRepository(ctrl)
	signalsMock := mocks.NewMockSOSRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		FeedIncidentLimit: 50,
		FeedSOSLimit:      10,
		FeedRadiusMeters:  10000,
	}
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	service := NewFeedService(incidentsMock, signalsMock, logger, cfg, metrics.NewNopMetrics(), clock)
	return service.(*feedService), incidentsMock, signalsMock, clock
}

func TestBuildFeed_MergesSortedByCreatedAtDesc(t *testing.T) {
	// Подготовка
	service, incidentsMock, signalsMock, clock := newTestFeedService(t)
	ctx := context.Background()
	now := clock.Now().UTC()

	incidents := []*models.Incident{
		{ID: uuid.New(), CreatedAt: now.Add(-3 * time.Hour)},
		{ID: uuid.New(), CreatedAt: now.Add(-1 * time.Hour)},
	}
	signals := []*models.SOSAlert{
		{ID: uuid.New(), CreatedAt: now.Add(-2 * time.Hour)},
	}

	// Ожидания
	incidentsMock.EXPECT().
		ListActive(ctx, 50).
		Return(incidents, nil).
		Times(1)
	signalsMock.EXPECT().
		ListCreatedSince(ctx, now.Add(-24*time.Hour), 10).
		Return(signals, nil).
		Times(1)

	// Действие
	feed, err := service.BuildFeed(ctx, nil, 0)

	// Проверки
	require.NoError(t, err)
	require.Len(t, feed.Items, 3)
	assert.Equal(t, models.FeedKindIncident, feed.Items[0].Kind)
	assert.Equal(t, incidents[1].ID, feed.Items[0].ID)
	assert.Equal(t, models.FeedKindSOS, feed.Items[1].Kind)
	assert.Equal(t, signals[0].ID, feed.Items[1].ID)
	assert.Equal(t, incidents[0].ID, feed.Items[2].ID)
	assert.Equal(t, 0, feed.SkippedRecords)
}

func TestBuildFeed_StableOrderForEqualTimestamps(t *testing.T) {
	// Подготовка
	service, incidentsMock, signalsMock, clock := newTestFeedService(t)
	ctx := context.Background()
	now := clock.Now().UTC()
	ts := now.Add(-1 * time.Hour)

	incidents := []*models.Incident{
		{ID: uuid.New(), CreatedAt: ts},
		{ID: uuid.New(), CreatedAt: ts},
	}
	signals := []*models.SOSAlert{
		{ID: uuid.New(), CreatedAt: ts},
	}

	// Ожидания
	incidentsMock.EXPECT().
		ListActive(ctx, 50).
		Return(incidents, nil).
		Times(1)
	signalsMock.EXPECT().
		ListCreatedSince(ctx, now.Add(-24*time.Hour), 10).
		Return(signals, nil).
		Times(1)

	// Действие: при равных метках исходный относительный порядок сохраняется
	feed, err := service.BuildFeed(ctx, nil, 0)

	// Проверки
	require.NoError(t, err)
	require.Len(t, feed.Items, 3)
	assert.Equal(t, incidents[0].ID, feed.Items[0].ID)
	assert.Equal(t, incidents[1].ID, feed.Items[1].ID)
	assert.Equal(t, signals[0].ID, feed.Items[2].ID)
}

func TestBuildFeed_GeoFilteredWhenCenterGiven(t *testing.T) {
	// Подготовка
	service, incidentsMock, signalsMock, clock := newTestFeedService(t)
	ctx := context.Background()
	now := clock.Now().UTC()
	center := &models.Location{Latitude: 55.75, Longitude: 37.61}

	// Ожидания: радиус по умолчанию берется из конфигурации
	incidentsMock.EXPECT().
		FindActiveNearby(ctx, 55.75, 37.61, 10000, false, 50).
		Return([]*models.Incident{}, nil).
		Times(1)
	signalsMock.EXPECT().
		ListCreatedSince(ctx, now.Add(-24*time.Hour), 10).
		Return([]*models.SOSAlert{}, nil).
		Times(1)

	// Действие
	feed, err := service.BuildFeed(ctx, center, 0)

	// Проверки
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
}

func TestBuildFeed_SkipsMalformedRecords(t *testing.T) {
	// Подготовка
	service, incidentsMock, signalsMock, clock := newTestFeedService(t)
	ctx := context.Background()
	now := clock.Now().UTC()

	incidents := []*models.Incident{
		{ID: uuid.New(), CreatedAt: now.Add(-1 * time.Hour)},
		{ID: uuid.New()}, // нулевое время создания
		nil,
	}
	signals := []*models.SOSAlert{
		{ID: uuid.New()}, // нулевое время создания
	}

	// Ожидания
	incidentsMock.EXPECT().
		ListActive(ctx, 50).
		Return(incidents, nil).
		Times(1)
	signalsMock.EXPECT().
		ListCreatedSince(ctx, now.Add(-24*time.Hour), 10).
		Return(signals, nil).
		Times(1)

	// Действие
	feed, err := service.BuildFeed(ctx, nil, 0)

	// Проверки: битые записи пропущены и посчитаны, остальное отдано
	require.NoError(t, err)
	assert.Len(t, feed.Items, 1)
	assert.Equal(t, 3, feed.SkippedRecords)
}

func TestBuildFeed_SOSQueryFails(t *testing.T) {
	// Подготовка
	service, incidentsMock, signalsMock, clock := newTestFeedService(t)
	ctx := context.Background()
	now := clock.Now().UTC()

	// Ожидания
	incidentsMock.EXPECT().
		ListActive(ctx, 50).
		Return([]*models.Incident{}, nil).
		Times(1)
	signalsMock.EXPECT().
		ListCreatedSince(ctx, now.Add(-24*time.Hour), 10).
		Return(nil, fmt.Errorf("connection refused")).
		Times(1)

	// Действие
	feed, err := service.BuildFeed(ctx, nil, 0)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, feed)
}
