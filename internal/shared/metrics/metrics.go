package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	resumeReceivedTotal atomic.Uint64
	resumeAnalyzedTotal atomic.Uint64
	resumeFailedTotal   atomic.Uint64
	aiFallbackTotal     atomic.Uint64

	queuePending atomic.Int64

	queueTaskDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
	pipelineDuration  = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncResumeReceived increments the received uploads counter.
func IncResumeReceived() {
	resumeReceivedTotal.Add(1)
}

// IncResumeAnalyzed increments the persisted analyses counter.
func IncResumeAnalyzed() {
	resumeAnalyzedTotal.Add(1)
}

// IncResumeFailed increments the failed uploads counter.
func IncResumeFailed() {
	resumeFailedTotal.Add(1)
}

// IncAIFallback counts replies that could not be parsed.
func IncAIFallback() {
	aiFallbackTotal.Add(1)
}

// SetQueuePending records the number of tasks waiting to start.
func SetQueuePending(n int) {
	queuePending.Store(int64(n))
}

// ObserveQueueTaskDurationMs records a task execution time in milliseconds.
func ObserveQueueTaskDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	queueTaskDuration.Observe(value)
}

// ObservePipelineDurationMs records an end-to-end upload time in milliseconds.
func ObservePipelineDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	pipelineDuration.Observe(value)
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
	writeCounter(&buf, "resume_received_total", "Total resume uploads received", resumeReceivedTotal.Load())
	writeCounter(&buf, "resume_analyzed_total", "Total resume analyses persisted", resumeAnalyzedTotal.Load())
	writeCounter(&buf, "resume_failed_total", "Total resume uploads that failed", resumeFailedTotal.Load())
	writeCounter(&buf, "ai_fallback_total", "Total AI replies replaced by the fallback result", aiFallbackTotal.Load())
	writeGauge(&buf, "queue_pending", "Tasks waiting in the analysis queue", queuePending.Load())
	writeHistogram(&buf, "queue_task_duration_ms", "Queued task execution time in milliseconds", queueTaskDuration.Snapshot())
	writeHistogram(&buf, "resume_pipeline_duration_ms", "Upload pipeline duration in milliseconds", pipelineDuration.Snapshot())
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

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
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

func writeGauge(buf *bytes.Buffer, name, help string, value int64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s gauge\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

// writeHistogram emits cumulative bucket counts; Observe stores each value
// in its first matching bucket only.
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
