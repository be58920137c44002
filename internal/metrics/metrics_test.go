package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.UploadSucceeded(100)
	m.UploadSucceeded(50)
	m.UploadFailed()
	m.StreamFinished("ok", 150)
	m.Swept(2, 7)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.uploads.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.uploads.WithLabelValues("error")))
	assert.Equal(t, float64(150), testutil.ToFloat64(m.uploadedBytes))
	assert.Equal(t, float64(150), testutil.ToFloat64(m.servedBytes))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.swept.WithLabelValues("chunks")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.UploadSucceeded(1)
		m.UploadFailed()
		m.StreamFinished("ok", 1)
		m.Swept(1, 1)
	})
}
