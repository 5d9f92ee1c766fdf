// Package interrupt decides whether an interim transcript fragment heard
// while the agent is speaking is a conversational filler (suppress the
// interrupt) or genuine user speech (let it abort the agent's turn).
package interrupt

import (
	"errors"
	"fmt"
	"log"
	"sync"
)

// Reason labels the path a decision took.
type Reason string

const (
	ReasonRuleMatch     Reason = "rule_match"
	ReasonMLMatch       Reason = "ml_match"
	ReasonLowConfidence Reason = "low_confidence"
	ReasonGenuine       Reason = "genuine"
)

// Decision is the verdict for one utterance. Suppress true means the host
// should discard the interrupt and keep the agent talking.
type Decision struct {
	Suppress bool    `json:"suppress"`
	Reason   Reason  `json:"reason"`
	Score    float64 `json:"score"`
}

// Options configures a Handler at construction.
type Options struct {
	// BlockedPhrases seeds the vocabulary. Entries are normalized on the
	// way in. Empty means DefaultBlockedUtterances.
	BlockedPhrases []string
	// MinimumConfidence gates transcripts below it as noise. Must be in
	// [0,1]; zero is a valid (fully permissive) threshold.
	MinimumConfidence float64
	// UseMLEnhancement enables the heuristic classifier pass.
	UseMLEnhancement bool
	// DebugMode emits a log line per decision. No effect on verdicts.
	DebugMode bool
}

// DefaultMinimumConfidence is the gate threshold used when nothing is
// configured.
const DefaultMinimumConfidence = 0.5

// DefaultOptions returns the stock configuration: built-in vocabulary,
// 0.5 confidence gate, classifier enabled.
func DefaultOptions() Options {
	return Options{
		BlockedPhrases:    DefaultBlockedUtterances,
		MinimumConfidence: DefaultMinimumConfidence,
		UseMLEnhancement:  true,
	}
}

var ErrBadConfidence = errors.New("minimum confidence must be within [0,1]")

type counters struct {
	totalProcessed      uint64
	suppressedTotal     uint64
	allowedTotal        uint64
	lowConfidenceBlocks uint64
	mlPredictions       uint64
}

// Handler is the suppression decision engine. One instance per active
// conversation; safe for concurrent callers sharing a session.
type Handler struct {
	mu      sync.Mutex
	phrases map[string]struct{}
	ctr     counters

	minConfidence float64
	useML         bool
	debug         bool
}

// NewHandler validates opts and builds an engine. An out-of-range
// MinimumConfidence is rejected here, never clamped: a misconfigured gate
// is a deployment bug, not per-call noise.
func NewHandler(opts Options) (*Handler, error) {
	if opts.MinimumConfidence < 0 || opts.MinimumConfidence > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrBadConfidence, opts.MinimumConfidence)
	}
	h := &Handler{
		phrases:       make(map[string]struct{}),
		minConfidence: opts.MinimumConfidence,
		useML:         opts.UseMLEnhancement,
		debug:         opts.DebugMode,
	}
	seed := opts.BlockedPhrases
	if len(seed) == 0 {
		seed = DefaultBlockedUtterances
	}
	for _, p := range seed {
		if n := normalizeUtterance(p); n != "" {
			h.phrases[n] = struct{}{}
		}
	}
	if h.debug {
		log.Printf("[filter] handler initialized: phrases=%d min_confidence=%.2f ml=%v",
			len(h.phrases), h.minConfidence, h.useML)
	}
	return h, nil
}

// Decide classifies one utterance. Order: confidence gate, rule pass,
// classifier pass. Out-of-range confidence is clamped; malformed text never
// errors. Exactly one of suppressed/allowed is counted per call.
func (h *Handler) Decide(utterance string, confidence float64) Decision {
	confidence = clamp01(confidence)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.ctr.totalProcessed++

	if confidence < h.minConfidence {
		h.ctr.lowConfidenceBlocks++
		h.ctr.suppressedTotal++
		metricDecisions.WithLabelValues(string(ReasonLowConfidence)).Inc()
		if h.debug {
			log.Printf("[filter] low confidence blocked: %q (score %.2f < %.2f)", utterance, confidence, h.minConfidence)
		}
		return Decision{Suppress: true, Reason: ReasonLowConfidence, Score: confidence}
	}

	norm := normalizeUtterance(utterance)
	if norm != "" && (matchesBlocked(norm, h.phrases) || matchesPattern(norm)) {
		h.ctr.suppressedTotal++
		metricDecisions.WithLabelValues(string(ReasonRuleMatch)).Inc()
		if h.debug {
			log.Printf("[filter] suppressed (rule): %q", utterance)
		}
		return Decision{Suppress: true, Reason: ReasonRuleMatch, Score: 1.0}
	}

	var prob float64
	if h.useML {
		var fv FeatureVector
		prob, fv = classifyUtterance(norm)
		metricFillerProb.Observe(prob)
		if prob >= fillerThreshold {
			h.ctr.mlPredictions++
			h.ctr.suppressedTotal++
			metricDecisions.WithLabelValues(string(ReasonMLMatch)).Inc()
			if h.debug {
				log.Printf("[filter] suppressed (ml): %q prob=%.2f features=%+v", utterance, prob, fv)
			}
			return Decision{Suppress: true, Reason: ReasonMLMatch, Score: prob}
		}
	}

	h.ctr.allowedTotal++
	metricDecisions.WithLabelValues(string(ReasonGenuine)).Inc()
	if h.debug {
		log.Printf("[filter] genuine speech: %q", utterance)
	}
	return Decision{Suppress: false, Reason: ReasonGenuine, Score: prob}
}

// ShouldIgnoreUtterance is the boolean form of Decide for call sites that
// only need the suppress/allow verdict.
func (h *Handler) ShouldIgnoreUtterance(utterance string, confidence float64) bool {
	return h.Decide(utterance, confidence).Suppress
}

// HasGenuineContent reports whether the utterance carries any token outside
// the blocked vocabulary at acceptable confidence. Read-only: counters are
// untouched.
func (h *Handler) HasGenuineContent(utterance string, confidence float64) bool {
	if clamp01(confidence) < h.minConfidence {
		return false
	}
	toks := tokenizeUtterance(utterance)
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range toks {
		if _, ok := h.phrases[t]; !ok {
			return true
		}
	}
	return false
}

// AddBlockedPhrases adds normalized phrases to the vocabulary.
func (h *Handler) AddBlockedPhrases(phrases ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range phrases {
		if n := normalizeUtterance(p); n != "" {
			h.phrases[n] = struct{}{}
		}
	}
	metricPhraseUpdates.WithLabelValues("add").Add(float64(len(phrases)))
	if h.debug {
		log.Printf("[filter] added %d blocked phrases (now %d)", len(phrases), len(h.phrases))
	}
}

// RemoveBlockedPhrases drops phrases from the vocabulary. Unknown entries
// are ignored.
func (h *Handler) RemoveBlockedPhrases(phrases ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range phrases {
		delete(h.phrases, normalizeUtterance(p))
	}
	metricPhraseUpdates.WithLabelValues("remove").Add(float64(len(phrases)))
	if h.debug {
		log.Printf("[filter] removed %d blocked phrases (now %d)", len(phrases), len(h.phrases))
	}
}

// SetBlockedPhrases replaces the whole vocabulary.
func (h *Handler) SetBlockedPhrases(phrases []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.phrases = make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		if n := normalizeUtterance(p); n != "" {
			h.phrases[n] = struct{}{}
		}
	}
	metricPhraseUpdates.WithLabelValues("replace").Inc()
}

// BlockedPhraseCount returns the current vocabulary size.
func (h *Handler) BlockedPhraseCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.phrases)
}

// Metrics returns a snapshot of the per-handler counters.
func (h *Handler) Metrics() map[string]uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return map[string]uint64{
		"total_processed":       h.ctr.totalProcessed,
		"suppressed_total":      h.ctr.suppressedTotal,
		"allowed_total":         h.ctr.allowedTotal,
		"low_confidence_blocks": h.ctr.lowConfidenceBlocks,
		"ml_predictions":        h.ctr.mlPredictions,
	}
}

// ResetMetrics zeroes the per-handler counters. The process-wide
// Prometheus series are monotonic and unaffected.
func (h *Handler) ResetMetrics() {
	h.mu.Lock()
	h.ctr = counters{}
	h.mu.Unlock()
	metricMetricsResets.Inc()
	if h.debug {
		log.Printf("[filter] metrics reset")
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
