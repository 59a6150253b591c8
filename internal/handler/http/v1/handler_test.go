package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/savelyev/emergency_watch/internal/config"
	"github.com/savelyev/emergency_watch/internal/models"
	"github.com/savelyev/emergency_watch/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type handlerMocks struct {
	incidents *mocks.MockIncidentService
	geofence  *mocks.MockGeofenceService
	sos       *mocks.MockSOSService
	feed      *mocks.MockFeedService
	analysis  *mocks.MockAnalysisService
}

// newTestHandler создает новый экземпляр Handler с мокированными сервисами
func newTestHandler(t *testing.T) (*Handler, *handlerMocks, *gin.Engine) {
	ctrl := gomock.NewController(t)
	m := &handlerMocks{
		incidents: mocks.NewMockIncidentService(ctrl),
		geofence:  mocks.NewMockGeofenceService(ctrl),
		sos:       mocks.NewMockSOSService(ctrl),
		feed:      mocks.NewMockFeedService(ctrl),
		analysis:  mocks.NewMockAnalysisService(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys: []string{"test-api-key"},
	}

	handler := NewHandler(m.incidents, m.geofence, m.sos, m.feed, m.analysis, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, m, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asUser(id string) map[string]string {
	return map[string]string{"X-User-ID": id}
}

func TestHandlerCreateIncident_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := CreateIncidentRequest{
		Type:        models.TypeFire,
		Severity:    models.SeverityHigh,
		Latitude:    55.75,
		Longitude:   37.61,
		Description: "Smoke from the roof",
	}

	m.incidents.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *models.Incident) error {
			assert.Equal(t, "user-1", inc.ReporterID)
			inc.ID = incidentID
			inc.Status = models.StatusActive
			inc.Confidence = models.NewConfidence()
			inc.CreatedAt = time.Now()
			return nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes), asUser("user-1"))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, models.DefaultConfidenceScore, resp.Confidence.Score)
}

func TestHandlerCreateIncident_MissingIdentity(t *testing.T) {
	_, _, router := newTestHandler(t)
	reqBody := CreateIncidentRequest{
		Type:      models.TypeFire,
		Severity:  models.SeverityHigh,
		Latitude:  55.75,
		Longitude: 37.61,
	}

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlerCreateIncident_UnknownType(t *testing.T) {
	_, _, router := newTestHandler(t)
	reqBody := CreateIncidentRequest{
		Type:      "ufo_landing",
		Severity:  models.SeverityHigh,
		Latitude:  55.75,
		Longitude: 37.61,
	}

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes), asUser("user-1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerGetIncident_NotFound(t *testing.T) {
	_, m, router := newTestHandler(t)
	incidentID := uuid.New()

	m.incidents.EXPECT().
		GetIncident(gomock.Any(), incidentID).
		Return(nil, fmt.Errorf("service: %w", models.ErrNotFound)).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/"+incidentID.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerVoteIncident_InvalidAction(t *testing.T) {
	_, m, router := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := VoteRequest{Action: "maybe"}

	m.incidents.EXPECT().
		CastVote(gomock.Any(), incidentID, "user-1", "maybe").
		Return(nil, fmt.Errorf("service: %w: %q", models.ErrInvalidVote, "maybe")).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents/"+incidentID.String()+"/vote", bytes.NewBuffer(bodyBytes), asUser("user-1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerVoteIncident_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := VoteRequest{Action: models.VoteConfirm}
	snapshot := &models.Confidence{
		Score:         100,
		Confirmations: 1,
		Votes:         map[string]string{"user-1": models.VoteConfirm},
	}

	m.incidents.EXPECT().
		CastVote(gomock.Any(), incidentID, "user-1", models.VoteConfirm).
		Return(snapshot, nil).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents/"+incidentID.String()+"/vote", bytes.NewBuffer(bodyBytes), asUser("user-1"))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.Confidence
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 100, resp.Score)
}

func TestHandlerCheckZone_UpstreamUnavailable(t *testing.T) {
	_, m, router := newTestHandler(t)
	zoneID := uuid.New()

	m.geofence.EXPECT().
		CheckZone(gomock.Any(), zoneID, "owner-1").
		Return(nil, fmt.Errorf("service: %w: zone incident query failed", models.ErrUpstreamUnavailable)).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/zones/"+zoneID.String()+"/check", nil, asUser("owner-1"))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandlerCheckZone_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	zoneID := uuid.New()
	result := &models.ZoneCheckResult{
		Incidents: []*models.Incident{
			{ID: uuid.New(), Severity: models.SeverityHigh, CreatedAt: time.Now()},
		},
		Alerted: true,
	}

	m.geofence.EXPECT().
		CheckZone(gomock.Any(), zoneID, "owner-1").
		Return(result, nil).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/zones/"+zoneID.String()+"/check", nil, asUser("owner-1"))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ZoneCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Alerted)
	assert.Len(t, resp.Incidents, 1)
}

func TestHandlerTriggerSOS_PartialFailure(t *testing.T) {
	_, m, router := newTestHandler(t)
	reqBody := SOSRequest{Latitude: 55.75, Longitude: 37.61}
	alert := &models.SOSAlert{
		ID:       uuid.New(),
		SenderID: "user-1",
		Status:   models.SOSStatusActive,
	}

	m.sos.EXPECT().
		TriggerSOS(gomock.Any(), "user-1", gomock.Any()).
		Return(alert, nil, &models.PartialError{
			SignalCreated:   true,
			IncidentCreated: false,
			Err:             fmt.Errorf("insert failed"),
		}).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/sos", bytes.NewBuffer(bodyBytes), asUser("user-1"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["signal_created"])
	assert.Equal(t, false, resp["incident_created"])
	assert.NotNil(t, resp["alert"])
}

func TestHandlerTriggerSOS_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	reqBody := SOSRequest{Latitude: 55.75, Longitude: 37.61}
	alert := &models.SOSAlert{
		ID:       uuid.New(),
		SenderID: "user-1",
		Status:   models.SOSStatusActive,
		ContactsNotified: []models.ContactNotification{
			{ContactID: uuid.New(), Method: "webhook", Status: models.NotificationSent},
		},
	}
	incident := &models.Incident{
		ID:       uuid.New(),
		Type:     models.TypeOther,
		Severity: models.SeverityHigh,
	}

	m.sos.EXPECT().
		TriggerSOS(gomock.Any(), "user-1", gomock.Any()).
		Return(alert, incident, nil).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/sos", bytes.NewBuffer(bodyBytes), asUser("user-1"))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp SOSResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.ContactsNotified)
	require.NotNil(t, resp.Incident)
	assert.Equal(t, incident.ID, resp.Incident.ID)
}

func TestHandlerGetFeed_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	feed := &models.Feed{
		Items: []*models.FeedItem{
			{Kind: models.FeedKindIncident, ID: uuid.New(), CreatedAt: time.Now()},
		},
	}

	m.feed.EXPECT().
		BuildFeed(gomock.Any(), gomock.Nil(), 0).
		Return(feed, nil).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/feed", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlerGetFeed_WithCenter(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.feed.EXPECT().
		BuildFeed(gomock.Any(), &models.Location{Latitude: 55.75, Longitude: 37.61}, 3000).
		Return(&models.Feed{Items: []*models.FeedItem{}}, nil).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/feed?lat=55.75&lng=37.61&radius=3000", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlerAnalyzeArea_InvalidGeometry(t *testing.T) {
	_, m, router := newTestHandler(t)
	reqBody := AnalyzeAreaRequest{Latitude: 55.75, Longitude: 37.61, RadiusMeters: 1000}

	m.analysis.EXPECT().
		AnalyzeArea(gomock.Any(), gomock.Any(), 1000, 0).
		Return(nil, fmt.Errorf("service: %w: radius must be positive", models.ErrInvalidGeometry)).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/analysis/area", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerBuildHeatmap_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	reqBody := HeatmapRequest{
		SouthWestLatitude:  55.0,
		SouthWestLongitude: 37.0,
		NorthEastLatitude:  56.0,
		NorthEastLongitude: 38.0,
	}
	heatmap := &models.Heatmap{
		Cells: []*models.HeatCell{
			{Latitude: 55.75, Longitude: 37.61, Count: 3, Intensity: 0.3},
		},
	}

	m.analysis.EXPECT().
		BuildHeatmap(gomock.Any(), gomock.Any(), 0).
		Return(heatmap, nil).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/analysis/heatmap", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlerHealthCheck(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
