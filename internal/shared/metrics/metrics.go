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
	uploadsTotal             atomic.Uint64
	uploadsRejectedTotal     atomic.Uint64
	questionsTotal           atomic.Uint64
	answersTotal             atomic.Uint64
	extractionFailedTotal    atomic.Uint64
	summarizationFailedTotal atomic.Uint64
	storageFailedTotal       atomic.Uint64
	sessionResetsTotal       atomic.Uint64
	activeSessions           atomic.Int64

	summarizationDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncUploads counts accepted document uploads.
func IncUploads() {
	uploadsTotal.Add(1)
}

// IncUploadsRejected counts uploads refused for an unsupported format or size.
func IncUploadsRejected() {
	uploadsRejectedTotal.Add(1)
}

// IncQuestions counts questions that reached an active document.
func IncQuestions() {
	questionsTotal.Add(1)
}

// IncAnswers counts questions answered by the language model.
func IncAnswers() {
	answersTotal.Add(1)
}

func IncExtractionFailed() {
	extractionFailedTotal.Add(1)
}

func IncSummarizationFailed() {
	summarizationFailedTotal.Add(1)
}

func IncStorageFailed() {
	storageFailedTotal.Add(1)
}

func IncSessionResets() {
	sessionResetsTotal.Add(1)
}

// SetActiveSessions records how many owners currently hold a document.
func SetActiveSessions(n int) {
	activeSessions.Store(int64(n))
}

// ObserveSummarizationDurationMs records a summarization call duration in milliseconds.
func ObserveSummarizationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	summarizationDuration.Observe(value)
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
	writeCounter(&buf, "documate_uploads_total", "Documents accepted", uploadsTotal.Load())
	writeCounter(&buf, "documate_uploads_rejected_total", "Uploads rejected before storage", uploadsRejectedTotal.Load())
	writeCounter(&buf, "documate_questions_total", "Questions asked against an active document", questionsTotal.Load())
	writeCounter(&buf, "documate_answers_total", "Questions answered", answersTotal.Load())
	writeCounter(&buf, "documate_extraction_failed_total", "Text extraction failures", extractionFailedTotal.Load())
	writeCounter(&buf, "documate_summarization_failed_total", "Summarization failures", summarizationFailedTotal.Load())
	writeCounter(&buf, "documate_storage_failed_total", "Document storage failures", storageFailedTotal.Load())
	writeCounter(&buf, "documate_session_resets_total", "Sessions cleared on request", sessionResetsTotal.Load())
	writeGauge(&buf, "documate_active_sessions", "Owners with an active document", activeSessions.Load())
	writeHistogram(&buf, "documate_summarization_duration_ms", "Summarization duration in milliseconds", summarizationDuration.Snapshot())
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
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
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
