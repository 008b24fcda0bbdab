package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the service.
type Metrics struct {
	ActionsTotal     *prometheus.CounterVec
	ActionFailures   *prometheus.CounterVec
	CoinsSpentTotal  prometheus.Counter
	Transitions      *prometheus.CounterVec
	ConnectedClients prometheus.Gauge
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			ActionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "interactions_total",
				Help:      "Total interaction actions performed, by action.",
			}, []string{"action"}),
			ActionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "interaction_failures_total",
				Help:      "Total rejected interaction actions, by reason.",
			}, []string{"reason"}),
			CoinsSpentTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "coins_spent_total",
				Help:      "Total coins debited by the economy gate.",
			}),
			Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "relationship_transitions_total",
				Help:      "Total relationship state transitions, by resulting state.",
			}, []string{"state"}),
			ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ws_connected_clients",
				Help:      "Currently connected websocket clients.",
			}),
		}

		prometheus.MustRegister(
			metricsInstance.ActionsTotal,
			metricsInstance.ActionFailures,
			metricsInstance.CoinsSpentTotal,
			metricsInstance.Transitions,
			metricsInstance.ConnectedClients,
		)
	})
	return metricsInstance
}
