package metrics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	var buf bytes.Buffer
	writeHistogram(&buf, "x_ms", "test", h.Snapshot())
	out := buf.String()

	assert.Contains(t, out, "x_ms_bucket{le=\"10\"} 1\n")
	assert.Contains(t, out, "x_ms_bucket{le=\"100\"} 2\n")
	assert.Contains(t, out, "x_ms_bucket{le=\"+Inf\"} 3\n")
	assert.Contains(t, out, "x_ms_sum 555\n")
	assert.Contains(t, out, "x_ms_count 3\n")
}

func TestHandlerServesAllSeries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	IncResumeReceived()
	SetQueuePending(3)
	ObserveQueueTaskDurationMs(-5)

	r := gin.New()
	r.GET("/metrics", Handler())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	for _, name := range []string{
		"resume_received_total",
		"resume_analyzed_total",
		"resume_failed_total",
		"ai_fallback_total",
		"queue_task_duration_ms_count",
		"resume_pipeline_duration_ms_count",
	} {
		assert.Contains(t, body, name)
	}
	assert.Contains(t, body, "queue_pending 3\n")
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "250", formatFloat(250))
	assert.Equal(t, "0.5", formatFloat(0.5))
}
