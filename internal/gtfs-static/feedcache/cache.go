package feedcache

import (
	"path/filepath"
	"sync"

	"github.com/bluele/gcache"
	"github.com/busurbano-data/internal/common/logger"
	"github.com/busurbano-data/internal/geo"
	"github.com/busurbano-data/internal/gtfs-static/parser"
	"github.com/busurbano-data/pkg/gtfs-static/models"
)

// DefaultSubsetCacheSize bounds how many ForTrips results are kept.
const DefaultSubsetCacheSize = 64

// Cache memoizes the tables of every feed directory it has been asked about.
// Each table is parsed at most once per directory, and the results are never
// modified afterwards, so callers may share them across goroutines but must
// not mutate them.
type Cache struct {
	parser    *parser.Parser
	projector geo.Projector
	logger    logger.Logger

	mu    sync.Mutex
	feeds map[string]*feedTables

	subsets gcache.Cache
}

type feedTables struct {
	stopsOnce   sync.Once
	stops       map[string]models.Stop
	stopOrder   []string
	stopsReport parser.ParseReport

	codesOnce sync.Once
	byCode    map[string]models.Stop
	codes     map[string]string

	routesOnce   sync.Once
	routes       map[string]models.Route
	routesReport parser.ParseReport

	tripsOnce   sync.Once
	trips       []models.Trip
	tripsReport parser.ParseReport

	stopTimesOnce   sync.Once
	stopTimes       map[string][]models.StopTime
	stopTimesReport parser.ParseReport
}

// New creates a cache. projector may be nil, in which case stops keep zero
// projected coordinates.
func New(p *parser.Parser, projector geo.Projector, log logger.Logger, subsetCacheSize int) *Cache {
	if subsetCacheSize <= 0 {
		subsetCacheSize = DefaultSubsetCacheSize
	}
	return &Cache{
		parser:    p,
		projector: projector,
		logger:    log,
		feeds:     make(map[string]*feedTables),
		subsets:   gcache.New(subsetCacheSize).LRU().Build(),
	}
}

func (c *Cache) entry(dir string) *feedTables {
	dir = filepath.Clean(dir)

	c.mu.Lock()
	defer c.mu.Unlock()

	ft, ok := c.feeds[dir]
	if !ok {
		ft = &feedTables{}
		c.feeds[dir] = ft
	}
	return ft
}

// Stops returns every stop of the feed keyed by stop id.
func (c *Cache) Stops(dir string) map[string]models.Stop {
	ft := c.entry(dir)
	ft.stopsOnce.Do(func() { c.loadStops(dir, ft) })
	return ft.stops
}

func (c *Cache) loadStops(dir string, ft *feedTables) {
	rows, report := c.parser.Stops(dir)

	stops := make(map[string]models.Stop, len(rows))
	order := make([]string, 0, len(rows))
	unprojected := 0
	for _, stop := range rows {
		switch {
		case c.projector == nil:
		case !stop.HasLocation:
			unprojected++
			c.logger.Debug("Stop has no location", "stop_id", stop.StopID)
		default:
			x, y, err := c.projector.Project(stop.StopLat, stop.StopLon)
			if err != nil {
				unprojected++
				c.logger.Debug("Stop not projected", "stop_id", stop.StopID, "error", err)
			} else {
				stop.X, stop.Y, stop.Projected = x, y, true
			}
		}
		if _, seen := stops[stop.StopID]; !seen {
			order = append(order, stop.StopID)
		}
		stops[stop.StopID] = stop
	}
	if unprojected > 0 {
		c.logger.Warn("Some stops could not be projected", "dir", dir, "count", unprojected)
	}

	ft.stops = stops
	ft.stopOrder = order
	ft.stopsReport = report
	c.logger.Info("Loaded stops", "dir", dir, "count", len(stops))
}

// StopsByCode keys stops by normalized stop code. Stops without any raw code
// are keyed by stop id; stops whose code has no digits are left out.
func (c *Cache) StopsByCode(dir string) map[string]models.Stop {
	ft := c.entry(dir)
	ft.codesOnce.Do(func() { c.indexCodes(dir, ft) })
	return ft.byCode
}

// StopCodes maps stop id to normalized stop code, for stops that have one.
func (c *Cache) StopCodes(dir string) map[string]string {
	ft := c.entry(dir)
	ft.codesOnce.Do(func() { c.indexCodes(dir, ft) })
	return ft.codes
}

func (c *Cache) indexCodes(dir string, ft *feedTables) {
	stops := c.Stops(dir)

	byCode := make(map[string]models.Stop, len(stops))
	codes := make(map[string]string, len(stops))
	for _, id := range ft.stopOrder {
		stop := stops[id]
		if stop.StopCode == "" {
			byCode[stop.StopID] = stop
			continue
		}
		code := NormalizeCode(stop.StopCode)
		if code == "" {
			continue
		}
		byCode[code] = stop
		codes[stop.StopID] = code
	}

	ft.byCode = byCode
	ft.codes = codes
}

// Routes returns every route keyed by route id.
func (c *Cache) Routes(dir string) map[string]models.Route {
	ft := c.entry(dir)
	ft.routesOnce.Do(func() {
		rows, report := c.parser.Routes(dir)
		routes := make(map[string]models.Route, len(rows))
		for _, r := range rows {
			routes[r.RouteID] = r
		}
		ft.routes = routes
		ft.routesReport = report
		c.logger.Info("Loaded routes", "dir", dir, "count", len(routes))
	})
	return ft.routes
}

// Trips returns every trip in file order.
func (c *Cache) Trips(dir string) []models.Trip {
	ft := c.entry(dir)
	ft.tripsOnce.Do(func() {
		ft.trips, ft.tripsReport = c.parser.Trips(dir)
		c.logger.Info("Loaded trips", "dir", dir, "count", len(ft.trips))
	})
	return ft.trips
}

// TripsForServices returns the trips run by any of the given services, in
// file order, each trip once.
func (c *Cache) TripsForServices(dir string, serviceIDs []string) []models.Trip {
	if len(serviceIDs) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(serviceIDs))
	for _, id := range serviceIDs {
		wanted[id] = struct{}{}
	}

	var out []models.Trip
	for _, trip := range c.Trips(dir) {
		if _, ok := wanted[trip.ServiceID]; ok {
			out = append(out, trip)
		}
	}
	return out
}

// Warm loads every table of the feed. Workers that start after Warm returns
// only ever read.
func (c *Cache) Warm(dir string) {
	c.Stops(dir)
	c.StopsByCode(dir)
	c.Routes(dir)
	c.Trips(dir)
	c.index(dir)
}

// Reports returns the parse diagnostics of the tables loaded so far. It is
// meant to be called after Warm, not concurrently with loading.
func (c *Cache) Reports(dir string) []parser.ParseReport {
	ft := c.entry(dir)
	var reports []parser.ParseReport
	if ft.stops != nil {
		reports = append(reports, ft.stopsReport)
	}
	if ft.routes != nil {
		reports = append(reports, ft.routesReport)
	}
	if ft.tripsReport.File != "" {
		reports = append(reports, ft.tripsReport)
	}
	if ft.stopTimes != nil {
		reports = append(reports, ft.stopTimesReport)
	}
	return reports
}
