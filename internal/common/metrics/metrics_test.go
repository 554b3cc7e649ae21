package metrics

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportTextfile(t *testing.T) {
	m := NewReport()
	m.DatesProcessed.Add(3)
	m.ArrivalsEmitted.Add(120)
	m.RowsDropped.WithLabelValues("stop_times.txt").Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.DatesProcessed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsDropped.WithLabelValues("stop_times.txt")))

	path := filepath.Join(t.TempDir(), "stopreport.prom")
	require.NoError(t, m.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "stopreport_dates_processed_total 3")
	assert.Contains(t, string(raw), `stopreport_feed_rows_dropped_total{file="stop_times.txt"} 1`)
}

func TestDelaysHandler(t *testing.T) {
	m := NewDelays()
	m.Polls.WithLabelValues("ok").Add(2)
	m.InServiceHours.Set(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `delaycollector_polls_total{result="ok"} 2`)
	assert.Contains(t, rec.Body.String(), "delaycollector_in_service_hours 1")
}
