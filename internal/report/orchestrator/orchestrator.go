package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/busurbano-data/internal/common/logger"
	"github.com/busurbano-data/internal/common/metrics"
	"github.com/busurbano-data/internal/geo"
	"github.com/busurbano-data/internal/gtfs-static/calendar"
	"github.com/busurbano-data/internal/gtfs-static/feedcache"
	"github.com/busurbano-data/internal/gtfs-static/parser"
	"github.com/busurbano-data/internal/report/arrivals"
	"github.com/busurbano-data/internal/report/provider"
	"github.com/busurbano-data/internal/report/shapes"
	"github.com/busurbano-data/internal/report/writer"
	"github.com/busurbano-data/pkg/gtfs-static/models"
)

const dateLayout = "2006-01-02"

type Options struct {
	Workers  int
	Provider provider.Kind
	// MetricsTextfile, when set, receives the run metrics after a
	// successful run.
	MetricsTextfile string
	// Now returns the current time; it decides the fallback validity range.
	Now func() time.Time
}

// Summary describes a finished run.
type Summary struct {
	Dates    int
	Stops    int
	Arrivals int
	Shapes   int
}

// dateBatch is the part of writer.DateBatch a date needs.
type dateBatch interface {
	WriteStop(code string, arrivals []models.ArrivalRecord, stop *models.Stop) error
	Commit() error
	Abort()
}

// Orchestrator generates the reports of every valid date of one feed.
type Orchestrator struct {
	parser    *parser.Parser
	feed      *feedcache.Cache
	projector geo.Projector
	writer    *writer.Writer
	metrics   *metrics.Report
	logger    logger.Logger
	opts      Options

	beginDate func(date string) (dateBatch, error)
}

func New(p *parser.Parser, feed *feedcache.Cache, projector geo.Projector, w *writer.Writer, m *metrics.Report, log logger.Logger, opts Options) *Orchestrator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if m == nil {
		m = metrics.NewReport()
	}
	return &Orchestrator{
		parser:    p,
		feed:      feed,
		projector: projector,
		writer:    w,
		metrics:   m,
		logger:    log,
		opts:      opts,
		beginDate: func(date string) (dateBatch, error) {
			b, err := w.BeginDate(date)
			if err != nil {
				return nil, err
			}
			return b, nil
		},
	}
}

// Run writes the per-stop reports of every valid date of the feed in dir,
// then the run index and the route shapes. The first failing date cancels
// the dates not yet started and is returned.
func (o *Orchestrator) Run(ctx context.Context, dir string) (Summary, error) {
	started := time.Now()
	var summary Summary

	cal := calendar.New(o.parser, dir, o.logger)
	dates := cal.ValidDates(o.opts.Now())
	if len(dates) == 0 {
		o.logger.Error("No valid dates found in feed", "dir", dir)
		return summary, nil
	}
	o.logger.Info("Processing dates",
		"count", len(dates),
		"first", dates[0].Format(dateLayout),
		"last", dates[len(dates)-1].Format(dateLayout),
		"workers", o.opts.Workers,
	)

	o.feed.Warm(dir)
	for _, r := range o.feed.Reports(dir) {
		if r.Dropped > 0 {
			o.metrics.RowsDropped.WithLabelValues(r.File).Add(float64(r.Dropped))
		}
	}
	stops := o.feed.StopsByCode(dir)

	asm := arrivals.New(o.feed, cal, o.opts.Provider, o.logger)

	var mu sync.Mutex
	index := make(writer.Index, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Workers)
	for _, date := range dates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			counts, err := o.processDate(gctx, dir, date, asm, stops)
			if err != nil {
				o.metrics.DatesFailed.Inc()
				return fmt.Errorf("processing %s: %w", date.Format(dateLayout), err)
			}

			mu.Lock()
			index[date.Format(dateLayout)] = counts
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	if err := o.writer.WriteIndex(index); err != nil {
		return summary, err
	}
	for _, counts := range index {
		summary.Stops += len(counts)
		for _, n := range counts {
			summary.Arrivals += n
		}
	}
	summary.Dates = len(index)

	shapeCount, err := shapes.NewProcessor(o.parser, o.projector, o.logger).Process(ctx, dir, o.writer)
	if err != nil {
		return summary, fmt.Errorf("processing shapes: %w", err)
	}
	summary.Shapes = shapeCount
	o.metrics.ShapesWritten.Add(float64(shapeCount))

	o.metrics.RunDuration.Set(time.Since(started).Seconds())
	o.metrics.LastSuccess.SetToCurrentTime()
	if o.opts.MetricsTextfile != "" {
		if err := o.metrics.WriteTextfile(o.opts.MetricsTextfile); err != nil {
			o.logger.Warn("Failed to write metrics textfile", "path", o.opts.MetricsTextfile, "error", err)
		}
	}

	o.logger.Info("Report generation finished",
		"dates", summary.Dates,
		"stops", summary.Stops,
		"arrivals", summary.Arrivals,
		"shapes", summary.Shapes,
		"duration", time.Since(started).String(),
	)
	return summary, nil
}

// processDate writes one date's stop files and returns the arrival count of
// each stop code.
func (o *Orchestrator) processDate(ctx context.Context, dir string, date time.Time, asm *arrivals.Assembler, stops map[string]models.Stop) (map[string]int, error) {
	started := time.Now()
	key := date.Format(dateLayout)

	result, err := asm.Assemble(ctx, dir, date)
	if err != nil {
		return nil, err
	}

	batch, err := o.beginDate(key)
	if err != nil {
		return nil, err
	}
	defer batch.Abort()

	codes := make([]string, 0, len(result))
	for code := range result {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	counts := make(map[string]int, len(codes))
	total := 0
	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var stop *models.Stop
		if s, ok := stops[code]; ok {
			stop = &s
		}
		list := result[code]
		if err := batch.WriteStop(code, list, stop); err != nil {
			return nil, err
		}
		counts[code] = len(list)
		total += len(list)
	}

	if err := batch.Commit(); err != nil {
		return nil, err
	}

	o.metrics.DatesProcessed.Inc()
	o.metrics.StopFilesWritten.Add(float64(len(codes)))
	o.metrics.ArrivalsEmitted.Add(float64(total))
	o.metrics.DateDuration.Observe(time.Since(started).Seconds())
	o.logger.Info("Date processed", "date", key, "stops", len(codes), "arrivals", total)
	return counts, nil
}
