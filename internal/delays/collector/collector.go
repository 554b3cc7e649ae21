package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/busurbano-data/internal/common/logger"
	"github.com/busurbano-data/internal/common/metrics"
	"github.com/busurbano-data/pkg/gtfs-static/models"
)

// OutsideHoursCheck is how often the collector re-checks the clock while
// outside the service window.
const OutsideHoursCheck = 5 * time.Minute

// Source returns the observations currently reported for a stop.
type Source interface {
	Fetch(ctx context.Context, stopCode int, observedAt time.Time) ([]models.DelayObservation, error)
}

// Sink stores observations.
type Sink interface {
	Insert(ctx context.Context, observations []models.DelayObservation) (int, error)
}

// Window is the daily span, in minutes since local midnight, during which
// stops are polled. End is exclusive; an End before Start wraps past
// midnight.
type Window struct {
	Start    int
	End      int
	Location *time.Location
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	local := t.In(w.Location)
	m := local.Hour()*60 + local.Minute()
	if w.Start <= w.End {
		return m >= w.Start && m < w.End
	}
	return m >= w.Start || m < w.End
}

func (w Window) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d %s", w.Start/60, w.Start%60, w.End/60, w.End%60, w.Location)
}

type Config struct {
	StopCodes []int
	// Frequency is how long one pass over every stop takes; requests are
	// spread evenly across it.
	Frequency time.Duration
	Window    Window
}

// Collector samples real-time delays of a fixed set of stops.
type Collector struct {
	config  Config
	source  Source
	sink    Sink
	metrics *metrics.Delays
	logger  logger.Logger
	limiter *rate.Limiter

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	mu        sync.Mutex
	collected int
}

func New(cfg Config, source Source, sink Sink, m *metrics.Delays, log logger.Logger) (*Collector, error) {
	if len(cfg.StopCodes) == 0 {
		return nil, fmt.Errorf("at least one stop code must be configured")
	}
	if cfg.Frequency <= 0 {
		return nil, fmt.Errorf("frequency must be positive")
	}
	if cfg.Window.Location == nil {
		cfg.Window.Location = time.UTC
	}
	if m == nil {
		m = metrics.NewDelays()
	}

	interval := cfg.Frequency / time.Duration(len(cfg.StopCodes))
	return &Collector{
		config:  cfg,
		source:  source,
		sink:    sink,
		metrics: m,
		logger:  log,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		now:     time.Now,
		sleep:   sleepContext,
	}, nil
}

// RequestInterval is the spacing between two stop requests.
func (c *Collector) RequestInterval() time.Duration {
	return c.config.Frequency / time.Duration(len(c.config.StopCodes))
}

// Run polls until ctx is cancelled.
func (c *Collector) Run(ctx context.Context) error {
	c.logger.Info("Delay collector starting",
		"stops", len(c.config.StopCodes),
		"cycle", c.config.Frequency.String(),
		"request_interval", c.RequestInterval().String(),
		"service_hours", c.config.Window.String())

	paused := false
	for {
		if err := ctx.Err(); err != nil {
			c.logger.Info("Delay collector stopped", "collected", c.Collected())
			return nil
		}

		now := c.now()
		if !c.config.Window.Contains(now) {
			c.metrics.InServiceHours.Set(0)
			if !paused {
				c.logger.Info("Outside service hours, pausing collection",
					"local_time", now.In(c.config.Window.Location).Format("15:04 MST"),
					"collected_today", c.Collected())
				paused = true
			}
			_ = c.sleep(ctx, OutsideHoursCheck)
			continue
		}

		if paused {
			c.logger.Info("Service hours resumed, resuming collection")
			c.resetCollected()
			paused = false
		}
		c.metrics.InServiceHours.Set(1)
		c.Cycle(ctx)
	}
}

// Cycle polls every stop once, paced by the rate limiter. A failing stop is
// logged and skipped.
func (c *Collector) Cycle(ctx context.Context) {
	start := c.now()
	for _, code := range c.config.StopCodes {
		if err := c.limiter.Wait(ctx); err != nil {
			return
		}

		observedAt := c.now().UTC()
		observations, err := c.source.Fetch(ctx, code, observedAt)
		if err != nil {
			c.metrics.Polls.WithLabelValues("error").Inc()
			c.logger.Error("Error processing stop", "stop", code, "error", err)
			continue
		}
		if len(observations) == 0 {
			c.metrics.Polls.WithLabelValues("ok").Inc()
			c.logger.Debug("No observations", "stop", code)
			continue
		}

		n, err := c.sink.Insert(ctx, observations)
		if err != nil {
			c.metrics.Polls.WithLabelValues("error").Inc()
			c.logger.Error("Error storing observations", "stop", code, "error", err)
			continue
		}
		c.metrics.Polls.WithLabelValues("ok").Inc()
		c.metrics.Observations.Add(float64(n))
		total := c.addCollected(n)
		c.logger.Info("Stored observations", "stop", code, "count", n, "total_today", total)
	}
	c.metrics.CycleDuration.Observe(c.now().Sub(start).Seconds())
}

func (c *Collector) Collected() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collected
}

func (c *Collector) addCollected(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collected += n
	return c.collected
}

func (c *Collector) resetCollected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collected = 0
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
