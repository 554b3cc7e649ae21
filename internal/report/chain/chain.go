package chain

import (
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/busurbano-data/pkg/gtfs-static/models"
)

// TripKey is what a structured trip id says about the trip: trips of the same
// line and shift are driven one after another, in Number order.
type TripKey struct {
	Line   string
	Shift  string
	Number int
}

// ParseTripID reads ids shaped like "VIGO_20241122_003001-12", whose last
// "_" part is a six character shift code (line + shift) and a trip number.
func ParseTripID(tripID string) (TripKey, bool) {
	parts := strings.Split(tripID, "_")
	if len(parts) < 3 {
		return TripKey{}, false
	}

	last := parts[len(parts)-1]
	if strings.Count(last, "-") != 1 {
		return TripKey{}, false
	}
	shiftCode, numStr, _ := strings.Cut(last, "-")
	if utf8.RuneCountInString(shiftCode) != 6 {
		return TripKey{}, false
	}
	number, err := strconv.Atoi(numStr)
	if err != nil {
		return TripKey{}, false
	}

	runes := []rune(shiftCode)
	return TripKey{
		Line:   string(runes[:3]),
		Shift:  string(runes[3:]),
		Number: number,
	}, true
}

type chainedTrip struct {
	trip      models.Trip
	number    int
	firstStop string
	lastStop  string
}

// StopTimesFunc returns the ordered stop times of a trip.
type StopTimesFunc func(tripID string) []models.StopTime

// Link maps each trip id to the shape id of the trip driven right before it
// by the same shift. A pair is linked when the trip numbers are consecutive,
// the earlier trip ends where the later one starts, and both have shapes.
// Trips with ids that do not follow the structure are left out.
func Link(trips []models.Trip, stopTimes StopTimesFunc) map[string]string {
	groups := make(map[string][]chainedTrip)
	var keys []string
	for _, trip := range trips {
		key, ok := ParseTripID(trip.TripID)
		if !ok {
			continue
		}
		sts := stopTimes(trip.TripID)
		if len(sts) < 2 {
			continue
		}

		shiftKey := key.Line + key.Shift
		if _, exists := groups[shiftKey]; !exists {
			keys = append(keys, shiftKey)
		}
		groups[shiftKey] = append(groups[shiftKey], chainedTrip{
			trip:      trip,
			number:    key.Number,
			firstStop: sts[0].StopID,
			lastStop:  sts[len(sts)-1].StopID,
		})
	}

	previous := make(map[string]string)
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, shiftKey := range keys {
		group := groups[shiftKey]
		g.Go(func() error {
			links := linkGroup(group)
			mu.Lock()
			for tripID, shapeID := range links {
				previous[tripID] = shapeID
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return previous
}

func linkGroup(group []chainedTrip) map[string]string {
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].number < group[j].number
	})

	links := make(map[string]string)
	for i := 1; i < len(group); i++ {
		prev, cur := group[i-1], group[i]
		if cur.number == prev.number+1 &&
			prev.lastStop == cur.firstStop &&
			prev.trip.ShapeID != "" &&
			cur.trip.ShapeID != "" {
			links[cur.trip.TripID] = prev.trip.ShapeID
		}
	}
	return links
}
