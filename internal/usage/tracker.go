// Package usage keeps in-process counters for LLM token consumption and
// warehouse execution latency, summarized for the metrics surface.
package usage

import (
	"sort"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Tracker accumulates per-run measurements. Safe for concurrent use.
type Tracker struct {
	mu           sync.Mutex
	apiCount     int
	inputTokens  []float64
	outputTokens []float64
	latencies    []float64 // seconds
}

// Summary is a point-in-time aggregate of everything recorded so far.
type Summary struct {
	APICount          int     `json:"api_count"`
	TotalInputTokens  int     `json:"total_input_tokens"`
	TotalOutputTokens int     `json:"total_output_tokens"`
	MeanInputTokens   float64 `json:"mean_input_tokens"`
	MedianInputTokens float64 `json:"median_input_tokens"`
	MeanOutputTokens  float64 `json:"mean_output_tokens"`
	LatencyP50Seconds float64 `json:"latency_p50_seconds"`
	LatencyP95Seconds float64 `json:"latency_p95_seconds"`
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// RecordTokens adds one generation call's token counts.
func (t *Tracker) RecordTokens(inputTokens, outputTokens int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.apiCount++
	t.inputTokens = append(t.inputTokens, float64(inputTokens))
	t.outputTokens = append(t.outputTokens, float64(outputTokens))
}

// RecordLatency adds one warehouse execution duration.
func (t *Tracker) RecordLatency(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latencies = append(t.latencies, d.Seconds())
}

// Summarize computes the current aggregate.
func (t *Tracker) Summarize() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Summary{APICount: t.apiCount}
	for _, v := range t.inputTokens {
		s.TotalInputTokens += int(v)
	}
	for _, v := range t.outputTokens {
		s.TotalOutputTokens += int(v)
	}

	if len(t.inputTokens) > 0 {
		s.MeanInputTokens, _ = stats.Mean(t.inputTokens)
		s.MedianInputTokens, _ = stats.Median(t.inputTokens)
	}
	if len(t.outputTokens) > 0 {
		s.MeanOutputTokens, _ = stats.Mean(t.outputTokens)
	}
	if len(t.latencies) > 0 {
		sorted := append([]float64{}, t.latencies...)
		sort.Float64s(sorted)
		s.LatencyP50Seconds = stat.Quantile(0.50, stat.Empirical, sorted, nil)
		s.LatencyP95Seconds = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	}
	return s
}
