package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	attachesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adapterd",
			Subsystem: "manager",
			Name:      "adapter_attaches_total",
			Help:      "Total successful adapter attachments",
		},
		[]string{"adapter"},
	)

	detachesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "adapterd",
			Subsystem: "manager",
			Name:      "adapter_detaches_total",
			Help:      "Total adapter detachments back to the base model",
		},
	)

	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adapterd",
			Subsystem: "manager",
			Name:      "generations_total",
			Help:      "Total generations by mode and outcome",
		},
		[]string{"mode", "status"},
	)

	busyTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "adapterd",
			Subsystem: "manager",
			Name:      "gate_busy_total",
			Help:      "Total gate acquisitions rejected after the wait timeout",
		},
	)
)

func init() {
	prometheus.MustRegister(attachesTotal, detachesTotal, generationsTotal, busyTotal)
}
