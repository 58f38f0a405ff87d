package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	recommendStartedTotal   atomic.Uint64
	recommendCompletedTotal atomic.Uint64
	recommendFailedTotal    atomic.Uint64
	promptsGeneratedTotal   atomic.Uint64
	diagramsValidTotal      atomic.Uint64
	diagramsRejectedTotal   atomic.Uint64
	llmErrorsTotal          atomic.Uint64

	llmDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncRecommendStarted increments the started counter.
func IncRecommendStarted() {
	recommendStartedTotal.Add(1)
}

// IncRecommendCompleted increments the completed counter.
func IncRecommendCompleted() {
	recommendCompletedTotal.Add(1)
}

// IncRecommendFailed increments the failed counter.
func IncRecommendFailed() {
	recommendFailedTotal.Add(1)
}

// IncPromptsGenerated counts successful context-synthesis calls.
func IncPromptsGenerated() {
	promptsGeneratedTotal.Add(1)
}

// AddDiagrams records how many diagram blocks were accepted and rejected.
func AddDiagrams(valid, rejected int) {
	if valid > 0 {
		diagramsValidTotal.Add(uint64(valid))
	}
	if rejected > 0 {
		diagramsRejectedTotal.Add(uint64(rejected))
	}
}

// IncLLMErrors counts failed model calls after retries.
func IncLLMErrors() {
	llmErrorsTotal.Add(1)
}

// ObserveLLMDuration records one model call.
func ObserveLLMDuration(d time.Duration) {
	ms := float64(d) / float64(time.Millisecond)
	if ms < 0 {
		ms = 0
	}
	llmDuration.Observe(ms)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "recommend_started_total", "Total recommendations started", recommendStartedTotal.Load())
	writeCounter(&buf, "recommend_completed_total", "Total recommendations completed", recommendCompletedTotal.Load())
	writeCounter(&buf, "recommend_failed_total", "Total recommendations failed", recommendFailedTotal.Load())
	writeCounter(&buf, "prompts_generated_total", "Total tailored prompts generated", promptsGeneratedTotal.Load())
	writeCounter(&buf, "diagrams_valid_total", "Diagram blocks accepted", diagramsValidTotal.Load())
	writeCounter(&buf, "diagrams_rejected_total", "Diagram blocks replaced by the failure notice", diagramsRejectedTotal.Load())
	writeCounter(&buf, "llm_errors_total", "Model calls that failed", llmErrorsTotal.Load())
	writeHistogram(&buf, "llm_duration_ms", "Model call duration in milliseconds", llmDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe counts value in the first bucket whose bound it fits; cumulative
// totals are produced at render time.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
