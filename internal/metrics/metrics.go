package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "gridstore"

// Metrics groups the collectors updated by the file service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	uploads       *prometheus.CounterVec
	uploadedBytes prometheus.Counter
	streams       *prometheus.CounterVec
	servedBytes   prometheus.Counter
	swept         *prometheus.CounterVec
}

// New builds a registry with the service collectors plus the Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "File uploads by outcome.",
		}, []string{"result"}),
		uploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Bytes committed by successful uploads.",
		}),
		streams: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streams_total",
			Help:      "File content reads by outcome.",
		}, []string{"result"}),
		servedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "served_bytes_total",
			Help:      "Chunk bytes handed to readers.",
		}),
		swept: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swept_total",
			Help:      "Orphaned files and chunks reclaimed by the sweeper.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.uploads,
		m.uploadedBytes,
		m.streams,
		m.servedBytes,
		m.swept,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) UploadSucceeded(size int64) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues("ok").Inc()
	m.uploadedBytes.Add(float64(size))
}

func (m *Metrics) UploadFailed() {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues("error").Inc()
}

// StreamFinished records one drained or abandoned content stream.
func (m *Metrics) StreamFinished(result string, served int64) {
	if m == nil {
		return
	}
	m.streams.WithLabelValues(result).Inc()
	m.servedBytes.Add(float64(served))
}

func (m *Metrics) Swept(files, chunks int) {
	if m == nil {
		return
	}
	m.swept.WithLabelValues("files").Add(float64(files))
	m.swept.WithLabelValues("chunks").Add(float64(chunks))
}
