// Package metrics exposes the session layer's prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "inkwell",
		Subsystem: "session",
		Name:      "active_connections",
		Help:      "Connections currently attached to a document group.",
	})

	ActiveDocuments = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "inkwell",
		Subsystem: "session",
		Name:      "active_documents",
		Help:      "Document groups with at least one attached connection.",
	})

	Broadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "inkwell",
		Subsystem: "session",
		Name:      "broadcasts_total",
		Help:      "Frames fanned out to a document group.",
	})

	DroppedSends = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "inkwell",
		Subsystem: "session",
		Name:      "dropped_sends_total",
		Help:      "Per-peer deliveries skipped due to backpressure or a dead socket.",
	})

	AdmissionRejects = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inkwell",
		Subsystem: "session",
		Name:      "admission_rejects_total",
		Help:      "Connections refused during admission, by reason.",
	}, []string{"reason"})
)
