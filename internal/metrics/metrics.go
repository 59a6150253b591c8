package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics - счетчики Prometheus для ядра приложения
type Metrics struct {
	IncidentsCreated  prometheus.Counter
	VotesCast         *prometheus.CounterVec // label: action={confirm,deny}
	GeofenceChecks    prometheus.Counter
	GeofenceAlerts    prometheus.Counter
	SOSTriggered      prometheus.Counter
	FeedRequests      prometheus.Counter
	AnalysisRequests  *prometheus.CounterVec // label: kind={area,heatmap}
	EventsPublished   *prometheus.CounterVec // label: event
	WebhookDeliveries *prometheus.CounterVec // label: status={delivered,failed}
}

// NewMetrics создает и регистрирует метрики в реестре Prometheus по умолчанию
func NewMetrics() *Metrics {
	m := &Metrics{
		IncidentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emergency_watch",
			Name:      "incidents_created_total",
			Help:      "Total incidents reported.",
		}),
		VotesCast: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "emergency_watch",
			Name:      "votes_cast_total",
			Help:      "Total confirm/deny votes applied to incidents.",
		}, []string{"action"}),
		GeofenceChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emergency_watch",
			Name:      "geofence_checks_total",
			Help:      "Total watch zone evaluations.",
		}),
		GeofenceAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emergency_watch",
			Name:      "geofence_alerts_total",
			Help:      "Total watch zone checks that produced an alert.",
		}),
		SOSTriggered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emergency_watch",
			Name:      "sos_triggered_total",
			Help:      "Total distress signals filed.",
		}),
		FeedRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emergency_watch",
			Name:      "feed_requests_total",
			Help:      "Total community feed snapshots built.",
		}),
		AnalysisRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "emergency_watch",
			Name:      "analysis_requests_total",
			Help:      "Total historical analysis requests.",
		}, []string{"kind"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "emergency_watch",
			Name:      "events_published_total",
			Help:      "Total events published to notification channels.",
		}, []string{"event"}),
		WebhookDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "emergency_watch",
			Name:      "webhook_deliveries_total",
			Help:      "Webhook delivery outcomes.",
		}, []string{"status"}),
	}

	prometheus.MustRegister(
		m.IncidentsCreated,
		m.VotesCast,
		m.GeofenceChecks,
		m.GeofenceAlerts,
		m.SOSTriggered,
		m.FeedRequests,
		m.AnalysisRequests,
		m.EventsPublished,
		m.WebhookDeliveries,
	)
	return m
}

// NewNopMetrics создает метрики без регистрации - для тестов,
// где реестр по умолчанию не должен загрязняться.
func NewNopMetrics() *Metrics {
	return &Metrics{
		IncidentsCreated:  prometheus.NewCounter(prometheus.CounterOpts{Name: "test_incidents_created_total"}),
		VotesCast:         prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_votes_cast_total"}, []string{"action"}),
		GeofenceChecks:    prometheus.NewCounter(prometheus.CounterOpts{Name: "test_geofence_checks_total"}),
		GeofenceAlerts:    prometheus.NewCounter(prometheus.CounterOpts{Name: "test_geofence_alerts_total"}),
		SOSTriggered:      prometheus.NewCounter(prometheus.CounterOpts{Name: "test_sos_triggered_total"}),
		FeedRequests:      prometheus.NewCounter(prometheus.CounterOpts{Name: "test_feed_requests_total"}),
		AnalysisRequests:  prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_analysis_requests_total"}, []string{"kind"}),
		EventsPublished:   prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_events_published_total"}, []string{"event"}),
		WebhookDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_webhook_deliveries_total"}, []string{"status"}),
	}
}
