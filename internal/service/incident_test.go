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
	"github.com/savelyev/emergency_watch/internal/notify"
	notify_mocks "github.com/savelyev/emergency_watch/internal/notify/mocks"
	"github.com/savelyev/emergency_watch/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestIncidentService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestIncidentService(t *testing.T) (*incidentService, *mocks.MockIncidentRepository, *notify_mocks.MockPublisher, *clockwork.FakeClock) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	publisherMock := notify_mocks.NewMockPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		NearbyRadiusMeters:       5000,
		NearbyIncidentLimit:      100,
		SOSResponderRadiusMeters: 2000,
	}
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	service := NewIncidentService(repoMock, logger, cfg, publisherMock, metrics.NewNopMetrics(), clock)
	return service.(*incidentService), repoMock, publisherMock, clock
}

func TestCreateIncident_Success(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{
		ReporterID: "user-1",
		Type:       models.TypeFire,
		Severity:   models.SeverityHigh,
		Location:   models.Location{Latitude: 55.75, Longitude: 37.61},
	}

	// Ожидания
	repoMock.EXPECT().
		Create(ctx, incident).
		Return(nil).
		Times(1)
	publisherMock.EXPECT().
		Publish(ctx, notify.BroadcastChannel, notify.EventNewIncident, incident).
		Return(nil).
		Times(1)

	// Действие
	err := service.CreateIncident(ctx, incident)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, incident.Status)
	assert.Equal(t, models.DefaultConfidenceScore, incident.Confidence.Score)
	assert.NotNil(t, incident.Confidence.Votes)
}

func TestCreateIncident_InvalidCoordinates(t *testing.T) {
	// Подготовка
	service, _, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{
		ReporterID: "user-1",
		Type:       models.TypeFire,
		Severity:   models.SeverityHigh,
		Location:   models.Location{Latitude: 91, Longitude: 0},
	}

	// Действие
	err := service.CreateIncident(ctx, incident)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidGeometry)
}

func TestCreateIncident_PublishFailureDoesNotFailOperation(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{
		ReporterID: "user-1",
		Type:       models.TypeAccident,
		Severity:   models.SeverityLow,
		Location:   models.Location{Latitude: 55.75, Longitude: 37.61},
	}

	// Ожидания: отказ канала уведомлений не роняет операцию
	repoMock.EXPECT().
		Create(ctx, incident).
		Return(nil).
		Times(1)
	publisherMock.EXPECT().
		Publish(ctx, notify.BroadcastChannel, notify.EventNewIncident, incident).
		Return(fmt.Errorf("redis down")).
		Times(1)

	// Действие
	err := service.CreateIncident(ctx, incident)

	// Проверки
	require.NoError(t, err)
}

func TestGetIncident_Success_FromCache(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	expectedIncident := &models.Incident{
		ID:   incidentID,
		Type: models.TypeCrime,
	}

	// Ожидания
	repoMock.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(expectedIncident, nil).
		Times(1)

	// Действие
	incident, err := service.GetIncident(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
}

func TestGetIncident_Success_FromDB(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	expectedIncident := &models.Incident{
		ID:   incidentID,
		Type: models.TypeMedical,
	}

	// Ожидания
	// 1. Промах кеша
	repoMock.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(nil, nil).
		Times(1)

	// 2. Попадание в БД
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(expectedIncident, nil).
		Times(1)

	// 3. Запись в кеш
	repoMock.EXPECT().
		SetIncidentCache(ctx, expectedIncident).
		Return(nil).
		Times(1)

	// Действие
	incident, err := service.GetIncident(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
}

func TestCastVote_Success(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	snapshot := &models.Confidence{
		Score:         100,
		Confirmations: 1,
		Votes:         map[string]string{"user-1": models.VoteConfirm},
	}

	// Ожидания
	repoMock.EXPECT().
		CastVote(ctx, incidentID, "user-1", models.VoteConfirm).
		Return(snapshot, nil).
		Times(1)
	repoMock.EXPECT().
		InvalidateIncidentCache(ctx, incidentID).
		Return(nil).
		Times(1)
	publisherMock.EXPECT().
		Publish(ctx, notify.BroadcastChannel, notify.EventConfidenceChanged, gomock.Any()).
		Return(nil).
		Times(1)

	// Действие
	result, err := service.CastVote(ctx, incidentID, "user-1", models.VoteConfirm)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, snapshot, result)
}

func TestCastVote_InvalidAction(t *testing.T) {
	// Подготовка
	service, _, _, _ := newTestIncidentService(t)
	ctx := context.Background()

	// Действие: действие валидируется до обращения к бд
	result, err := service.CastVote(ctx, uuid.New(), "user-1", "maybe")

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidVote)
	assert.Nil(t, result)
}

func TestCastVote_EmptyVoter(t *testing.T) {
	// Подготовка
	service, _, _, _ := newTestIncidentService(t)
	ctx := context.Background()

	// Действие
	result, err := service.CastVote(ctx, uuid.New(), "", models.VoteDeny)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidVote)
	assert.Nil(t, result)
}

func TestCloseIncident_Success(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock, clock := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	active := &models.Incident{
		ID:     incidentID,
		Status: models.StatusActive,
	}

	// Ожидания
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(active, nil).
		Times(1)
	repoMock.EXPECT().
		SetStatus(ctx, incidentID, models.StatusResolved, clock.Now().UTC()).
		Return(nil).
		Times(1)
	repoMock.EXPECT().
		InvalidateIncidentCache(ctx, incidentID).
		Return(nil).
		Times(1)
	publisherMock.EXPECT().
		Publish(ctx, notify.BroadcastChannel, notify.EventIncidentResolved, gomock.Any()).
		Return(nil).
		Times(1)

	// Действие
	err := service.CloseIncident(ctx, incidentID, models.StatusResolved)

	// Проверки
	require.NoError(t, err)
}

func TestCloseIncident_AlreadyClosed(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	closed := &models.Incident{
		ID:     incidentID,
		Status: models.StatusResolved,
	}

	// Ожидания: терминальный статус финален, SetStatus не вызывается
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(closed, nil).
		Times(1)

	// Действие
	err := service.CloseIncident(ctx, incidentID, models.StatusFalseAlarm)

	// Проверки
	require.Error(t, err)
}

func TestCheckLocation_SavesCheckAndReturnsHazards(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	hazards := []*models.Incident{
		{ID: uuid.New(), Severity: models.SeverityHigh},
	}

	// Ожидания
	repoMock.EXPECT().
		FindActiveNearby(ctx, 55.75, 37.61, 2000, true, 100).
		Return(hazards, nil).
		Times(1)
	repoMock.EXPECT().
		SaveLocationCheck(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, check *models.LocationCheck) error {
			assert.Equal(t, "user-1", check.UserID)
			assert.True(t, check.IsDangerous)
			return nil
		}).
		Times(1)

	// Действие
	incidents, err := service.CheckLocation(ctx, "user-1", 55.75, 37.61)

	// Проверки
	require.NoError(t, err)
	assert.Len(t, incidents, 1)
}
