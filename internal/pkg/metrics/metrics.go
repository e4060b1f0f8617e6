package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the school connector. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// HTTP requests served by the API, by route, method and status
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	// Calls made to the connector REST API, by operation and outcome
	ConnectorCalls   *prometheus.CounterVec
	ConnectorLatency *prometheus.HistogramVec

	// Connector events handled by the reconciler, by kind and outcome
	EventsHandled *prometheus.CounterVec

	StudentsCreated prometheus.Counter
	StudentsDeleted prometheus.Counter
}

// New creates and registers all metrics on reg. Passing nil registers on the
// default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "school_connector_http_requests_total",
			Help: "Total HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),

		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "school_connector_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),

		ConnectorCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "school_connector_connector_calls_total",
			Help: "Total calls to the connector API by operation and outcome",
		}, []string{"operation", "outcome"}),

		ConnectorLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "school_connector_connector_call_duration_seconds",
			Help:    "Duration of connector API calls by operation",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),

		EventsHandled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "school_connector_events_handled_total",
			Help: "Connector events handled by kind and outcome",
		}, []string{"kind", "outcome"}),

		StudentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "school_connector_students_created_total",
			Help: "Total number of students onboarded",
		}),

		StudentsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "school_connector_students_deleted_total",
			Help: "Total number of students deleted",
		}),
	}
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(route, method, status string, d time.Duration) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(route, method, status).Inc()
		m.HTTPLatency.WithLabelValues(route).Observe(d.Seconds())
	}
}

// ObserveConnectorCall records one connector API call.
func (m *Metrics) ObserveConnectorCall(operation, outcome string, d time.Duration) {
	if m != nil {
		m.ConnectorCalls.WithLabelValues(operation, outcome).Inc()
		m.ConnectorLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// IncrementEvent records a handled connector event.
func (m *Metrics) IncrementEvent(kind, outcome string) {
	if m != nil {
		m.EventsHandled.WithLabelValues(kind, outcome).Inc()
	}
}

// IncrementStudentsCreated increments the students created counter by 1
func (m *Metrics) IncrementStudentsCreated() {
	if m != nil {
		m.StudentsCreated.Inc()
	}
}

// IncrementStudentsDeleted increments the students deleted counter by 1
func (m *Metrics) IncrementStudentsDeleted() {
	if m != nil {
		m.StudentsDeleted.Inc()
	}
}
