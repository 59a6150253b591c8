package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/savelyev/emergency_watch/internal/metrics"
	"github.com/savelyev/emergency_watch/internal/models"
	"github.com/savelyev/emergency_watch/internal/notify"
	notify_mocks "github.com/savelyev/emergency_watch/internal/notify/mocks"
	"github.com/savelyev/emergency_watch/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestGeofenceService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestGeofenceService(t *testing.T) (*geofenceService, *mocks.MockWatchZoneRepository, *mocks.MockIncidentRepository, *notify_mocks.MockPublisher, *clockwork.FakeClock) {
	ctrl := gomock.NewController(t)
	zonesMock := mocks.NewMockWatchZoneRepository(ctrl)
	incidentsMock := mocks.NewMockIncidentRepository(ctrl)
	publisherMock := notify_mocks.NewMockPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	service := NewGeofenceService(zonesMock, incidentsMock, logger, publisherMock, metrics.NewNopMetrics(), clock)
	return service.(*geofenceService), zonesMock, incidentsMock, publisherMock, clock
}

func TestCheckZone_InactiveZoneNeverAlerts(t *testing.T) {
	// Подготовка
	service, zonesMock, _, _, _ := newTestGeofenceService(t)
	ctx := context.Background()
	zoneID := uuid.New()
	zone := &models.WatchZone{
		ID:           zoneID,
		OwnerID:      "owner-1",
		Center:       models.Location{Latitude: 55.75, Longitude: 37.61},
		RadiusMeters: 1000,
		IsActive:     false,
	}

	// Ожидания: неактивная зона не порождает ни запросов инцидентов,
	// ни MarkAlerted, ни публикаций
	zonesMock.EXPECT().
		GetByID(ctx, zoneID).
		Return(zone, nil).
		Times(1)

	// Действие
	result, err := service.CheckZone(ctx, zoneID, "owner-1")

	// Проверки
	require.NoError(t, err)
	assert.False(t, result.Alerted)
	assert.Empty(t, result.Incidents)
}

func TestCheckZone_NoIncidents_NoAlert(t *testing.T) {
	// Подготовка
	service, zonesMock, incidentsMock, _, _ := newTestGeofenceService(t)
	ctx := context.Background()
	zoneID := uuid.New()
	zone := &models.WatchZone{
		ID:           zoneID,
		OwnerID:      "owner-1",
		Center:       models.Location{Latitude: 55.75, Longitude: 37.61},
		RadiusMeters: 1000,
		IsActive:     true,
	}

	// Ожидания: пустая выборка не трогает LastAlertedAt
	zonesMock.EXPECT().
		GetByID(ctx, zoneID).
		Return(zone, nil).
		Times(1)
	incidentsMock.EXPECT().
		FindActiveNearby(ctx, 55.75, 37.61, 1000, true, 0).
		Return([]*models.Incident{}, nil).
		Times(1)

	// Действие
	result, err := service.CheckZone(ctx, zoneID, "owner-1")

	// Проверки
	require.NoError(t, err)
	assert.False(t, result.Alerted)
	assert.Nil(t, zone.LastAlertedAt)
}

func TestCheckZone_HazardousIncidents_Alerts(t *testing.T) {
	// Подготовка
	service, zonesMock, incidentsMock, publisherMock, clock := newTestGeofenceService(t)
	ctx := context.Background()
	zoneID := uuid.New()
	zone := &models.WatchZone{
		ID:           zoneID,
		OwnerID:      "owner-1",
		Center:       models.Location{Latitude: 55.75, Longitude: 37.61},
		RadiusMeters: 1000,
		IsActive:     true,
	}
	hazards := []*models.Incident{
		{ID: uuid.New(), Severity: models.SeverityHigh},
		{ID: uuid.New(), Severity: models.SeverityMedium},
	}

	// Ожидания
	zonesMock.EXPECT().
		GetByID(ctx, zoneID).
		Return(zone, nil).
		Times(1)
	incidentsMock.EXPECT().
		FindActiveNearby(ctx, 55.75, 37.61, 1000, true, 0).
		Return(hazards, nil).
		Times(1)
	zonesMock.EXPECT().
		MarkAlerted(ctx, zoneID, clock.Now().UTC()).
		Return(nil).
		Times(1)
	publisherMock.EXPECT().
		Publish(ctx, notify.UserChannel("owner-1"), notify.EventGeofenceAlert, gomock.Any()).
		Return(nil).
		Times(1)

	// Действие
	result, err := service.CheckZone(ctx, zoneID, "owner-1")

	// Проверки
	require.NoError(t, err)
	assert.True(t, result.Alerted)
	assert.Len(t, result.Incidents, 2)
	require.NotNil(t, zone.LastAlertedAt)
	assert.Equal(t, clock.Now().UTC(), *zone.LastAlertedAt)
}

func TestCheckZone_IncidentQueryFails_UpstreamUnavailable(t *testing.T) {
	// Подготовка
	service, zonesMock, incidentsMock, _, _ := newTestGeofenceService(t)
	ctx := context.Background()
	zoneID := uuid.New()
	zone := &models.WatchZone{
		ID:           zoneID,
		OwnerID:      "owner-1",
		Center:       models.Location{Latitude: 55.75, Longitude: 37.61},
		RadiusMeters: 1000,
		IsActive:     true,
	}

	// Ожидания
	zonesMock.EXPECT().
		GetByID(ctx, zoneID).
		Return(zone, nil).
		Times(1)
	incidentsMock.EXPECT().
		FindActiveNearby(ctx, 55.75, 37.61, 1000, true, 0).
		Return(nil, fmt.Errorf("connection refused")).
		Times(1)

	// Действие
	result, err := service.CheckZone(ctx, zoneID, "owner-1")

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	assert.Nil(t, result)
}

func TestCheckZone_ForeignZone_NotFound(t *testing.T) {
	// Подготовка
	service, zonesMock, _, _, _ := newTestGeofenceService(t)
	ctx := context.Background()
	zoneID := uuid.New()
	zone := &models.WatchZone{
		ID:      zoneID,
		OwnerID: "owner-1",
	}

	// Ожидания: чужая зона неотличима от отсутствующей
	zonesMock.EXPECT().
		GetByID(ctx, zoneID).
		Return(zone, nil).
		Times(1)

	// Действие
	result, err := service.CheckZone(ctx, zoneID, "intruder")

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, result)
}

func TestCreateZone_InvalidRadius(t *testing.T) {
	// Подготовка
	service, _, _, _, _ := newTestGeofenceService(t)
	ctx := context.Background()
	zone := &models.WatchZone{
		OwnerID:      "owner-1",
		Center:       models.Location{Latitude: 55.75, Longitude: 37.61},
		RadiusMeters: 0,
	}

	// Действие
	err := service.CreateZone(ctx, zone)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidGeometry)
}

func TestCreateZone_Success_ActiveByDefault(t *testing.T) {
	// Подготовка
	service, zonesMock, _, _, _ := newTestGeofenceService(t)
	ctx := context.Background()
	zone := &models.WatchZone{
		OwnerID:      "owner-1",
		Name:         "Home",
		Center:       models.Location{Latitude: 55.75, Longitude: 37.61},
		RadiusMeters: 500,
	}

	// Ожидания
	zonesMock.EXPECT().
		Create(ctx, zone).
		Return(nil).
		Times(1)

	// Действие
	err := service.CreateZone(ctx, zone)

	// Проверки
	require.NoError(t, err)
	assert.True(t, zone.IsActive)
}
