package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal counts marketplace operations by name and outcome.
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_operations_total",
		Help: "Marketplace ledger operations by operation and outcome.",
	}, []string{"operation", "outcome"})

	// ProceedsWithdrawnTotal accumulates the amounts paid out.
	ProceedsWithdrawnTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_proceeds_withdrawn_total",
		Help: "Total proceeds paid out, in the smallest currency unit.",
	})

	// EventSubscribers tracks connected websocket observers.
	EventSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "marketplace_event_subscribers",
		Help: "Currently connected event feed subscribers.",
	})
)

// ObserveOperation records one operation outcome.
func ObserveOperation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	OperationsTotal.WithLabelValues(operation, outcome).Inc()
}
