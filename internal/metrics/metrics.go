// Package metrics records Prometheus metrics for a notice retrieval run and writes
// them in the node-exporter textfile format.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/domain"
)

const namespace = "tenderned"

// statusTransportFailure labels requests that never produced a response.
const statusTransportFailure = "none"

// Metrics holds the run's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	Failures        *prometheus.CounterVec
	NoticesParsed   prometheus.Counter
	LastSuccess     prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Notice API requests by HTTP status code",
		}, []string{"code"}),
		RequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Time until the notice API response body was read",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Failed runs by error kind",
		}, []string{"kind"}),
		NoticesParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notices_parsed_total",
			Help:      "Notices whose contract title was extracted",
		}),
		LastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		}),
	}
}

// ObserveRequest records one API round trip. A zero code means no response arrived.
func (m *Metrics) ObserveRequest(code int, elapsed time.Duration) {
	label := statusTransportFailure
	if code > 0 {
		label = strconv.Itoa(code)
	}

	m.Requests.WithLabelValues(label).Inc()
	m.RequestDuration.Observe(elapsed.Seconds())
}

// ObserveFailure counts a failed run under the error's kind.
func (m *Metrics) ObserveFailure(err error) {
	kind, ok := domain.KindOf(err)
	if !ok {
		kind = "unknown"
	}

	m.Failures.WithLabelValues(string(kind)).Inc()
}

// ObserveNotice records a successfully parsed notice.
func (m *Metrics) ObserveNotice(now time.Time) {
	m.NoticesParsed.Inc()
	m.LastSuccess.Set(float64(now.Unix()))
}

// Gatherer exposes the registry for tests and exporters.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
