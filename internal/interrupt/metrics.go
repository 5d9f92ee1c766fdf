package interrupt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interrupt_decisions_total",
		Help: "Suppression decisions by reason (rule_match, ml_match, low_confidence, genuine)",
	}, []string{"reason"})

	metricFillerProb = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "interrupt_filler_probability",
		Help:    "Classifier filler probability per scored utterance",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})

	metricPhraseUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interrupt_phrase_updates_total",
		Help: "Runtime blocked-phrase mutations by op (add, remove, replace)",
	}, []string{"op"})

	metricMetricsResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interrupt_metrics_resets_total",
		Help: "Explicit per-handler counter resets",
	})
)
