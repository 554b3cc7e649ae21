package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/busurbano-data/internal/common/logger"
)

// Report holds the metrics of one stop report run.
type Report struct {
	reg *prometheus.Registry

	DatesProcessed   prometheus.Counter
	DatesFailed      prometheus.Counter
	ArrivalsEmitted  prometheus.Counter
	StopFilesWritten prometheus.Counter
	ShapesWritten    prometheus.Counter
	RowsDropped      *prometheus.CounterVec // file label

	DateDuration prometheus.Histogram
	RunDuration  prometheus.Gauge
	LastSuccess  prometheus.Gauge
}

func NewReport() *Report {
	reg := prometheus.NewRegistry()

	m := &Report{
		reg: reg,
		DatesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stopreport_dates_processed_total",
			Help: "Dates whose report was committed.",
		}),
		DatesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stopreport_dates_failed_total",
			Help: "Dates whose processing failed.",
		}),
		ArrivalsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stopreport_arrivals_emitted_total",
			Help: "Arrival records written across all dates and stops.",
		}),
		StopFilesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stopreport_stop_reports_total",
			Help: "Per-stop reports written.",
		}),
		ShapesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stopreport_shapes_written_total",
			Help: "Route geometries written.",
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stopreport_feed_rows_dropped_total",
			Help: "Feed rows dropped while parsing.",
		}, []string{"file"}),
		DateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stopreport_date_duration_seconds",
			Help:    "Time to assemble and write the report of one date.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stopreport_run_duration_seconds",
			Help: "Duration of the last run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stopreport_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		}),
	}

	reg.MustRegister(
		m.DatesProcessed, m.DatesFailed, m.ArrivalsEmitted, m.StopFilesWritten,
		m.ShapesWritten, m.RowsDropped, m.DateDuration, m.RunDuration, m.LastSuccess,
	)
	return m
}

func (m *Report) Registry() *prometheus.Registry { return m.reg }

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Report) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}

// Delays holds the metrics of the delay collector.
type Delays struct {
	reg *prometheus.Registry

	Polls          *prometheus.CounterVec // result label: ok|error
	Observations   prometheus.Counter
	CycleDuration  prometheus.Histogram
	InServiceHours prometheus.Gauge
	Purged         prometheus.Counter
}

func NewDelays() *Delays {
	reg := prometheus.NewRegistry()

	m := &Delays{
		reg: reg,
		Polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "delaycollector_polls_total",
			Help: "Stop polls by result.",
		}, []string{"result"}),
		Observations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "delaycollector_observations_total",
			Help: "Delay observations stored.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "delaycollector_cycle_duration_seconds",
			Help:    "Duration of one polling cycle over every stop.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		InServiceHours: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "delaycollector_in_service_hours",
			Help: "1 while inside the configured service window, 0 otherwise.",
		}),
		Purged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "delaycollector_purged_observations_total",
			Help: "Observations removed by the retention purge.",
		}),
	}

	reg.MustRegister(m.Polls, m.Observations, m.CycleDuration, m.InServiceHours, m.Purged)
	return m
}

func (m *Delays) Registry() *prometheus.Registry { return m.reg }

func (m *Delays) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Delays) Serve(ctx context.Context, addr string, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("Metrics listening", "addr", addr)
	return srv
}
