package feedcache

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/busurbano-data/pkg/gtfs-static/models"
)

// TripStopTimes is the result of a ForTrips query. Trips keep the order in
// which they were first requested. The stop-time slices are shared with the
// cache and must not be modified.
type TripStopTimes struct {
	order  []string
	byTrip map[string][]models.StopTime
}

// Len returns the number of trips that have stop times.
func (t *TripStopTimes) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// tripIDs returns the trips with stop times in request order.
func (t *TripStopTimes) tripIDs() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// StopTimes returns the ordered stop times of a trip, or nil.
func (t *TripStopTimes) StopTimes(tripID string) []models.StopTime {
	if t == nil {
		return nil
	}
	return t.byTrip[tripID]
}

type subsetKey struct {
	dir string
	n   int
	sum uint64
}

func newSubsetKey(dir string, tripIDs []string) subsetKey {
	unique := make(map[string]struct{}, len(tripIDs))
	for _, id := range tripIDs {
		unique[id] = struct{}{}
	}
	sorted := make([]string, 0, len(unique))
	for id := range unique {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	h := xxhash.New()
	for _, id := range sorted {
		_, _ = h.WriteString(id)
		_, _ = h.Write([]byte{0})
	}
	return subsetKey{dir: filepath.Clean(dir), n: len(sorted), sum: h.Sum64()}
}

// ForTrips returns the ordered stop times of the requested trips. Repeated
// queries for the same set of ids are served from an LRU cache.
func (c *Cache) ForTrips(dir string, tripIDs []string) *TripStopTimes {
	if len(tripIDs) == 0 {
		return &TripStopTimes{}
	}

	key := newSubsetKey(dir, tripIDs)
	if cached, err := c.subsets.Get(key); err == nil {
		return cached.(*TripStopTimes)
	}

	index := c.index(dir)
	result := &TripStopTimes{byTrip: make(map[string][]models.StopTime)}
	seen := make(map[string]struct{}, len(tripIDs))
	for _, id := range tripIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if sts := index[id]; len(sts) > 0 {
			result.order = append(result.order, id)
			result.byTrip[id] = sts
		}
	}

	if err := c.subsets.Set(key, result); err != nil {
		c.logger.Warn("Failed to cache stop time subset", "error", err)
	}
	return result
}

func (c *Cache) index(dir string) map[string][]models.StopTime {
	ft := c.entry(dir)
	ft.stopTimesOnce.Do(func() { c.buildIndex(dir, ft) })
	return ft.stopTimes
}

// buildIndex groups stop_times.txt by trip, ordered by stop_sequence. Of two
// rows sharing a stop_sequence within a trip only the first in file order is
// kept.
func (c *Cache) buildIndex(dir string, ft *feedTables) {
	byTrip := make(map[string][]models.StopTime)
	report := c.parser.StopTimes(dir, func(st models.StopTime) {
		byTrip[st.TripID] = append(byTrip[st.TripID], st)
	})

	duplicates := 0
	for tripID, sts := range byTrip {
		sort.SliceStable(sts, func(i, j int) bool {
			return sts[i].StopSequence < sts[j].StopSequence
		})

		kept := sts[:1]
		for _, st := range sts[1:] {
			if st.StopSequence == kept[len(kept)-1].StopSequence {
				duplicates++
				c.logger.Warn("Duplicate stop_sequence dropped", "trip_id", tripID, "stop_sequence", st.StopSequence, "stop_id", st.StopID)
				continue
			}
			kept = append(kept, st)
		}
		byTrip[tripID] = kept
	}
	report.Dropped += duplicates
	report.Kept -= duplicates

	ft.stopTimes = byTrip
	ft.stopTimesReport = report
	c.logger.Info("Loaded stop times", "dir", dir, "trips", len(byTrip), "rows", report.Kept)
}

// NormalizeCode keeps the digits of a stop code and drops leading zeros, so
// "P123" becomes "123" and "007" becomes "7". A code without digits
// normalizes to "".
func NormalizeCode(code string) string {
	var b strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
