package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/savelyev/emergency_watch/internal/config"
	"github.com/savelyev/emergency_watch/internal/metrics"
	"github.com/savelyev/emergency_watch/internal/models"
	notify_mocks "github.com/savelyev/emergency_watch/internal/notify/mocks"
	"github.com/savelyev/emergency_watch/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type sosServiceMocks struct {
	alerts    *mocks.MockSOSRepository
	incidents *mocks.MockIncidentRepository
	contacts  *mocks.MockContactRepository
	notifier  *notify_mocks.MockContactNotifier
	publisher *notify_mocks.MockPublisher
}

// newTestSOSService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestSOSService(t *testing.T) (*sosService, *sosServiceMocks) {
	ctrl := gomock.NewController(t)
	m := &sosServiceMocks{
		alerts:    mocks.NewMockSOSRepository(ctrl),
		incidents: mocks.NewMockIncidentRepository(ctrl),
		contacts:  mocks.NewMockContactRepository(ctrl),
		notifier:  notify_mocks.NewMockContactNotifier(ctrl),
		publisher: notify_mocks.NewMockPublisher(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		SOSResponderRadiusMeters:  2000,
		SOSResponderWindowMinutes: 60,
	}

	service := NewSOSService(m.alerts, m.incidents, m.contacts, m.notifier, logger, cfg, m.publisher, metrics.NewNopMetrics())
	return service.(*sosService), m
}

func TestTriggerSOS_Success(t *testing.T) {
	// Подготовка
	service, m := newTestSOSService(t)
	ctx := context.Background()
	loc := models.Location{Latitude: 55.75, Longitude: 37.61}
	contactID := uuid.New()
	contact := &models.Contact{ID: contactID, OwnerID: "sender-1", WebhookURL: "https://example.com/hook"}

	// Ожидания
	m.contacts.EXPECT().
		ListFavourites(ctx, "sender-1").
		Return([]*models.Contact{contact}, nil).
		Times(1)
	m.notifier.EXPECT().
		NotifyContact(ctx, contact, gomock.Any()).
		Return(models.ContactNotification{ContactID: contactID, Method: "webhook", Status: models.NotificationSent}).
		Times(1)
	m.incidents.EXPECT().
		CountActiveUsersNear(ctx, 55.75, 37.61, 2000, 60, "sender-1").
		Return(3, nil).
		Times(1)
	m.alerts.EXPECT().
		Create(ctx, gomock.Any()).
		Return(nil).
		Times(1)
	m.publisher.EXPECT().
		Publish(ctx, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		Times(2)
	m.incidents.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, incident *models.Incident) error {
			assert.Equal(t, models.TypeOther, incident.Type)
			assert.Equal(t, models.SeverityHigh, incident.Severity)
			assert.Equal(t, 100, incident.Confidence.Score)
			assert.Equal(t, 1, incident.Confidence.Confirmations)
			assert.Equal(t, models.VoteConfirm, incident.Confidence.Votes["sender-1"])
			return nil
		}).
		Times(1)

	// Действие
	alert, incident, err := service.TriggerSOS(ctx, "sender-1", loc)

	// Проверки
	require.NoError(t, err)
	require.NotNil(t, alert)
	require.NotNil(t, incident)
	assert.Equal(t, models.SOSStatusActive, alert.Status)
	assert.Equal(t, 3, alert.NearbyRespondersNotified)
	require.Len(t, alert.ContactsNotified, 1)
	assert.Equal(t, models.NotificationSent, alert.ContactsNotified[0].Status)
}

func TestTriggerSOS_CompanionIncidentFails_PartialError(t *testing.T) {
	// Подготовка
	service, m := newTestSOSService(t)
	ctx := context.Background()
	loc := models.Location{Latitude: 55.75, Longitude: 37.61}

	// Ожидания: сигнал создан, инцидент отказал, отката нет
	m.contacts.EXPECT().
		ListFavourites(ctx, "sender-1").
		Return(nil, nil).
		Times(1)
	m.incidents.EXPECT().
		CountActiveUsersNear(ctx, 55.75, 37.61, 2000, 60, "sender-1").
		Return(0, nil).
		Times(1)
	m.alerts.EXPECT().
		Create(ctx, gomock.Any()).
		Return(nil).
		Times(1)
	m.publisher.EXPECT().
		Publish(ctx, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		Times(1)
	m.incidents.EXPECT().
		Create(ctx, gomock.Any()).
		Return(fmt.Errorf("insert failed")).
		Times(1)

	// Действие
	alert, incident, err := service.TriggerSOS(ctx, "sender-1", loc)

	// Проверки
	require.Error(t, err)
	var partial *models.PartialError
	require.ErrorAs(t, err, &partial)
	assert.True(t, partial.SignalCreated)
	assert.False(t, partial.IncidentCreated)
	assert.NotNil(t, alert)
	assert.Nil(t, incident)
}

func TestTriggerSOS_ContactListFails_ProceedsWithoutNotifications(t *testing.T) {
	// Подготовка
	service, m := newTestSOSService(t)
	ctx := context.Background()
	loc := models.Location{Latitude: 55.75, Longitude: 37.61}

	// Ожидания: отказ выборки контактов не останавливает SOS
	m.contacts.EXPECT().
		ListFavourites(ctx, "sender-1").
		Return(nil, fmt.Errorf("connection refused")).
		Times(1)
	m.incidents.EXPECT().
		CountActiveUsersNear(ctx, 55.75, 37.61, 2000, 60, "sender-1").
		Return(0, nil).
		Times(1)
	m.alerts.EXPECT().
		Create(ctx, gomock.Any()).
		Return(nil).
		Times(1)
	m.publisher.EXPECT().
		Publish(ctx, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		Times(2)
	m.incidents.EXPECT().
		Create(ctx, gomock.Any()).
		Return(nil).
		Times(1)

	// Действие
	alert, incident, err := service.TriggerSOS(ctx, "sender-1", loc)

	// Проверки
	require.NoError(t, err)
	require.NotNil(t, alert)
	require.NotNil(t, incident)
	assert.Empty(t, alert.ContactsNotified)
}

func TestTriggerSOS_InvalidCoordinates(t *testing.T) {
	// Подготовка
	service, _ := newTestSOSService(t)
	ctx := context.Background()

	// Действие
	alert, incident, err := service.TriggerSOS(ctx, "sender-1", models.Location{Latitude: 0, Longitude: 181})

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidGeometry)
	assert.Nil(t, alert)
	assert.Nil(t, incident)
}

func TestTriggerSOS_AlertCreateFails(t *testing.T) {
	// Подготовка
	service, m := newTestSOSService(t)
	ctx := context.Background()
	loc := models.Location{Latitude: 55.75, Longitude: 37.61}

	// Ожидания: до сопутствующего инцидента дело не доходит
	m.contacts.EXPECT().
		ListFavourites(ctx, "sender-1").
		Return(nil, nil).
		Times(1)
	m.incidents.EXPECT().
		CountActiveUsersNear(ctx, 55.75, 37.61, 2000, 60, "sender-1").
		Return(0, nil).
		Times(1)
	m.alerts.EXPECT().
		Create(ctx, gomock.Any()).
		Return(fmt.Errorf("insert failed")).
		Times(1)

	// Действие
	alert, incident, err := service.TriggerSOS(ctx, "sender-1", loc)

	// Проверки
	require.Error(t, err)
	var partial *models.PartialError
	assert.False(t, errors.As(err, &partial))
	assert.Nil(t, alert)
	assert.Nil(t, incident)
}
