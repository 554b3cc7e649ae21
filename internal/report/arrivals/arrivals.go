package arrivals

import (
	"context"
	"sort"
	"time"

	"github.com/busurbano-data/internal/common/logger"
	"github.com/busurbano-data/internal/gtfs-static/feedcache"
	"github.com/busurbano-data/internal/report/chain"
	"github.com/busurbano-data/internal/report/provider"
	"github.com/busurbano-data/internal/report/streets"
	"github.com/busurbano-data/pkg/gtfs-static/models"
)

const unknownStopName = "Unknown Stop"

// FeedTables is the read side of the feed cache the assembler needs.
type FeedTables interface {
	Stops(dir string) map[string]models.Stop
	StopCodes(dir string) map[string]string
	Routes(dir string) map[string]models.Route
	TripsForServices(dir string, serviceIDs []string) []models.Trip
	ForTrips(dir string, tripIDs []string) *feedcache.TripStopTimes
}

// ServiceCalendar tells which services run on a date.
type ServiceCalendar interface {
	ActiveServices(date time.Time) []string
}

type Assembler struct {
	feed     FeedTables
	calendar ServiceCalendar
	provider provider.Kind
	logger   logger.Logger
}

func New(feed FeedTables, calendar ServiceCalendar, kind provider.Kind, log logger.Logger) *Assembler {
	return &Assembler{feed: feed, calendar: calendar, provider: kind, logger: log}
}

type pass int

const (
	currentDay pass = iota
	previousDay
)

// tripContext holds what every record of one trip shares.
type tripContext struct {
	trip          models.Trip
	stopTimes     []models.StopTime
	line          string
	route         string
	serviceID     string
	tripID        string
	startingCode  string
	startingName  string
	startingTime  string
	terminusCode  string
	terminusName  string
	terminusTime  string
	previousShape string
	segments      *streets.Segmentation
}

// Assemble builds, for date, the list of scheduled calls at every stop code.
// Trips of services running on date are listed with their clocks as in the
// feed; trips of the day before only contribute the calls made after
// midnight, with clocks folded into 0-23. Each list is ordered by calling
// time.
func (a *Assembler) Assemble(ctx context.Context, dir string, date time.Time) (models.StopArrivals, error) {
	log := a.logger.With("date", date.Format("2006-01-02"))

	current := a.calendar.ActiveServices(date)
	previous := a.calendar.ActiveServices(date.AddDate(0, 0, -1))
	if len(current) == 0 && len(previous) == 0 {
		log.Info("No active services for date or previous date")
		return models.StopArrivals{}, nil
	}

	currentSet := toSet(current)
	previousSet := toSet(previous)
	union := make([]string, 0, len(current)+len(previous))
	union = append(union, current...)
	for _, id := range previous {
		if _, dup := currentSet[id]; !dup {
			union = append(union, id)
		}
	}

	trips := a.feed.TripsForServices(dir, union)
	tripIDs := make([]string, len(trips))
	for i, t := range trips {
		tripIDs[i] = t.TripID
	}
	stopTimes := a.feed.ForTrips(dir, tripIDs)
	previousShapes := chain.Link(trips, stopTimes.StopTimes)

	log.Info("Assembling arrivals",
		"services", len(current),
		"previous_services", len(previous),
		"trips", len(trips),
		"trips_with_stop_times", stopTimes.Len(),
		"chained_trips", len(previousShapes))

	stops := a.feed.Stops(dir)
	codes := a.feed.StopCodes(dir)
	routes := a.feed.Routes(dir)

	result := make(models.StopArrivals)
	undefined := 0
	for i, trip := range trips {
		if i%500 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		sts := stopTimes.StopTimes(trip.TripID)
		if len(sts) == 0 {
			continue
		}
		tc := a.buildTripContext(trip, sts, stops, routes)
		tc.previousShape = previousShapes[trip.TripID]

		if _, ok := currentSet[trip.ServiceID]; ok {
			undefined += a.emit(result, tc, codes, currentDay)
		}
		if _, ok := previousSet[trip.ServiceID]; ok {
			undefined += a.emit(result, tc, codes, previousDay)
		}
	}
	if undefined > 0 {
		log.Warn("Dropped calls with unparsable departure time", "count", undefined)
	}

	for code, list := range result {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CallingSSM < list[j].CallingSSM
		})
		result[code] = list
	}
	return result, nil
}

func (a *Assembler) buildTripContext(trip models.Trip, sts []models.StopTime, stops map[string]models.Stop, routes map[string]models.Route) *tripContext {
	names := make([]string, len(sts))
	for i, st := range sts {
		if stop, ok := stops[st.StopID]; ok {
			names[i] = stop.StopName
		} else {
			names[i] = unknownStopName
		}
	}

	first, last := sts[0], sts[len(sts)-1]
	startingStop, hasStart := stops[first.StopID]
	terminusStop, hasTerminus := stops[last.StopID]

	tc := &tripContext{
		trip:         trip,
		stopTimes:    sts,
		line:         routes[trip.RouteID].RouteShortName,
		serviceID:    a.provider.FormatServiceID(trip.ServiceID),
		tripID:       a.provider.FormatTripID(trip.TripID),
		startingName: streets.NormaliseStopName(names[0]),
		startingTime: first.DepartureTime,
		terminusName: streets.NormaliseStopName(names[len(names)-1]),
		terminusTime: last.ArrivalTime,
		segments:     streets.Segment(names, a.provider.ExtractStreetName),
	}
	if hasStart {
		tc.startingCode = feedcache.NormalizeCode(startingStop.StopCode)
	}
	if hasTerminus {
		tc.terminusCode = feedcache.NormalizeCode(terminusStop.StopCode)
	}
	tc.route = a.provider.FormatRoute(trip.TripHeadsign, tc.terminusName)
	return tc
}

// emit appends the records of one trip for one pass and returns how many
// calls were dropped for lack of a usable departure time.
func (a *Assembler) emit(result models.StopArrivals, tc *tripContext, codes map[string]string, p pass) int {
	undefined := 0
	for i, st := range tc.stopTimes {
		code := codes[st.StopID]
		if code == "" {
			continue
		}

		departure, err := models.ParseGTFSTime(st.DepartureTime)
		if err != nil {
			undefined++
			continue
		}

		rec := models.ArrivalRecord{
			ServiceID:           tc.serviceID,
			TripID:              tc.tripID,
			Line:                tc.line,
			Route:               tc.route,
			ShapeID:             tc.trip.ShapeID,
			StopSequence:        st.StopSequence,
			ShapeDistTraveled:   st.ShapeDistTraveled,
			NextStreets:         tc.segments.NextStreets(i),
			StartingCode:        tc.startingCode,
			StartingName:        tc.startingName,
			TerminusCode:        tc.terminusCode,
			TerminusName:        tc.terminusName,
			PreviousTripShapeID: tc.previousShape,
		}

		switch p {
		case currentDay:
			rec.StartingTime = models.FormatClock(tc.startingTime)
			rec.CallingTime = departure.String()
			rec.TerminusTime = models.FormatClock(tc.terminusTime)
			rec.CallingSSM = departure.SinceMidnight()
		case previousDay:
			if !departure.IsNextDay() {
				continue
			}
			folded := departure.Normalize()
			rec.StartingTime = models.NormalizeClock(tc.startingTime)
			rec.CallingTime = folded.String()
			rec.TerminusTime = models.NormalizeClock(tc.terminusTime)
			rec.CallingSSM = folded.SinceMidnight()
		}

		result[code] = append(result[code], rec)
	}
	return undefined
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
