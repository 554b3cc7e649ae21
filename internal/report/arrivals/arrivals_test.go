package arrivals

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/busurbano-data/internal/common/logger"
	"github.com/busurbano-data/internal/gtfs-static/calendar"
	"github.com/busurbano-data/internal/gtfs-static/feedcache"
	"github.com/busurbano-data/internal/gtfs-static/parser"
	"github.com/busurbano-data/internal/report/provider"
	"github.com/busurbano-data/pkg/gtfs-static/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	dayTrip1   = "VIGO_20250106_001002-5"
	dayTrip2   = "VIGO_20250106_001002-6"
	nightTrip  = "VIGO_20250106_009001-1"
	brokenTrip = "VIGO_20250106_009002-1"
)

var baseFeed = map[string]string{
	"stops.txt": "stop_id,stop_code,stop_name,stop_lat,stop_lon\n" +
		"S1,P001,Main St 1,42.23,-8.72\n" +
		"S2,2,Main St 2,42.24,-8.72\n" +
		"S3,3,Oak Ave 5,42.25,-8.72\n" +
		"S4,,Depot,42.26,-8.72\n",
	"routes.txt": "route_id,route_short_name\nR1,C1\n",
	"trips.txt": "route_id,service_id,trip_id,shape_id,trip_headsign\n" +
		"R1,VIGO_WD_X," + dayTrip1 + ",shpA,Centro\n" +
		"R1,VIGO_WD_X," + dayTrip2 + ",shpB,\n" +
		"R1,VIGO_NIGHT_X," + nightTrip + ",shpN,Nocturno\n" +
		"R1,VIGO_NIGHT_X," + brokenTrip + ",shpN,Nocturno\n",
	"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence,shape_dist_traveled\n" +
		dayTrip1 + ",08:00:00,08:00:00,S1,1,0\n" +
		dayTrip1 + ",08:05:00,08:05:00,S2,2,150.5\n" +
		dayTrip1 + ",08:10:00,08:10:00,S3,3,300\n" +
		dayTrip2 + ",08:20:00,08:20:00,S3,1,\n" +
		dayTrip2 + ",08:25:00,08:25:00,S2,2,\n" +
		dayTrip2 + ",08:30:00,08:30:00,S1,3,\n" +
		nightTrip + ",23:50:00,23:50:00,S1,1,\n" +
		nightTrip + ",24:15:00,24:15:00,S2,2,\n" +
		nightTrip + ",24:20:00,24:20:00,S4,3,\n" +
		nightTrip + ",25:30:00,25:30:00,S3,4,\n" +
		brokenTrip + ",23:00:00,garbage,S2,1,\n" +
		brokenTrip + ",23:10:00,23:10:00,S9,2,\n",
	"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
		"VIGO_WD_X,1,1,1,1,1,0,0,20250106,20250110\n",
	"calendar_dates.txt": "service_id,date,exception_type\n" +
		"VIGO_NIGHT_X,20250106,1\n",
}

var (
	monday  = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
)

func newAssembler(t *testing.T, kind provider.Kind, overrides map[string]string) (*Assembler, string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range baseFeed {
		if o, ok := overrides[name]; ok {
			content = o
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	log := logger.NewNop()
	p := parser.New(log)
	cache := feedcache.New(p, nil, log, 4)
	return New(cache, calendar.New(p, dir, log), kind, log), dir
}

func callingTimes(records []models.ArrivalRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.CallingTime
	}
	return out
}

func assertOrdered(t *testing.T, result models.StopArrivals) {
	t.Helper()
	for code, list := range result {
		for i := 1; i < len(list); i++ {
			assert.LessOrEqual(t, list[i-1].CallingSSM, list[i].CallingSSM, "stop %s index %d", code, i)
		}
	}
}

func TestAssembleIncludesPreviousDayNightCalls(t *testing.T) {
	a, dir := newAssembler(t, provider.Vitrasa, nil)

	result, err := a.Assemble(context.Background(), dir, tuesday)
	require.NoError(t, err)
	assertOrdered(t, result)

	assert.Equal(t, []string{"00:15:00", "08:05:00", "08:25:00"}, callingTimes(result["2"]))
	assert.Equal(t, []string{"01:30:00", "08:10:00", "08:20:00"}, callingTimes(result["3"]))
	assert.Equal(t, []string{"08:00:00", "08:30:00"}, callingTimes(result["1"]))
	assert.NotContains(t, result, "")
	assert.NotContains(t, result, "S4")

	night := result["2"][0]
	assert.Equal(t, 900, night.CallingSSM)
	assert.Equal(t, "23:50:00", night.StartingTime)
	assert.Equal(t, "01:30:00", night.TerminusTime)
	assert.Equal(t, "NIGHT", night.ServiceID)
	assert.Equal(t, "20250106_009001-1", night.TripID)

	night3 := result["3"][0]
	assert.Equal(t, 5400, night3.CallingSSM)
}

func TestAssembleCurrentDayKeepsExtendedClock(t *testing.T) {
	a, dir := newAssembler(t, provider.Vitrasa, nil)

	result, err := a.Assemble(context.Background(), dir, monday)
	require.NoError(t, err)
	assertOrdered(t, result)

	stop2 := result["2"]
	require.Len(t, stop2, 3)
	last := stop2[2]
	assert.Equal(t, "24:15:00", last.CallingTime)
	assert.Equal(t, 87300, last.CallingSSM)
	assert.Equal(t, "25:30:00", last.TerminusTime)
}

func TestAssembleNightTripActiveOnBothDays(t *testing.T) {
	a, dir := newAssembler(t, provider.Vitrasa, map[string]string{
		"calendar_dates.txt": "service_id,date,exception_type\n" +
			"VIGO_NIGHT_X,20250106,1\n" +
			"VIGO_NIGHT_X,20250107,1\n",
	})

	result, err := a.Assemble(context.Background(), dir, tuesday)
	require.NoError(t, err)
	assertOrdered(t, result)

	assert.Equal(t, []string{"00:15:00", "08:05:00", "08:25:00", "24:15:00"}, callingTimes(result["2"]))
}

func TestAssembleRecordFields(t *testing.T) {
	a, dir := newAssembler(t, provider.Vitrasa, nil)

	result, err := a.Assemble(context.Background(), dir, tuesday)
	require.NoError(t, err)

	first := result["2"][1]
	assert.Equal(t, "WD", first.ServiceID)
	assert.Equal(t, "20250106_001002-5", first.TripID)
	assert.Equal(t, "C1", first.Line)
	assert.Equal(t, "Centro", first.Route)
	assert.Equal(t, "shpA", first.ShapeID)
	assert.Equal(t, 2, first.StopSequence)
	require.NotNil(t, first.ShapeDistTraveled)
	assert.Equal(t, 150.5, *first.ShapeDistTraveled)
	assert.Equal(t, []string{"Oak Ave"}, first.NextStreets)
	assert.Equal(t, "1", first.StartingCode)
	assert.Equal(t, "Main St 1", first.StartingName)
	assert.Equal(t, "08:00:00", first.StartingTime)
	assert.Equal(t, 29100, first.CallingSSM)
	assert.Equal(t, "3", first.TerminusCode)
	assert.Equal(t, "Oak Ave 5", first.TerminusName)
	assert.Equal(t, "08:10:00", first.TerminusTime)
	assert.Equal(t, "", first.PreviousTripShapeID)

	second := result["2"][2]
	assert.Equal(t, "shpA", second.PreviousTripShapeID)
	assert.Equal(t, "", second.Route)
	assert.Nil(t, second.ShapeDistTraveled)
	assert.Equal(t, []string{"Main St"}, result["3"][2].NextStreets)
	assert.Equal(t, []string{}, result["1"][1].NextStreets)
}

func TestAssembleDropsUnparsableDeparture(t *testing.T) {
	a, dir := newAssembler(t, provider.Vitrasa, nil)

	result, err := a.Assemble(context.Background(), dir, monday)
	require.NoError(t, err)

	for _, rec := range result["2"] {
		assert.NotEqual(t, "garbage", rec.CallingTime)
	}
}

func TestAssembleUnknownStop(t *testing.T) {
	stopTimes := strings.Replace(baseFeed["stop_times.txt"], "garbage", "23:00:00", 1)
	a, dir := newAssembler(t, provider.Vitrasa, map[string]string{"stop_times.txt": stopTimes})

	result, err := a.Assemble(context.Background(), dir, monday)
	require.NoError(t, err)

	// brokenTrip ends at S9, which is not in stops.txt.
	var rec *models.ArrivalRecord
	for i := range result["2"] {
		if result["2"][i].TripID == "20250106_009002-1" {
			rec = &result["2"][i]
		}
	}
	require.NotNil(t, rec)
	assert.Equal(t, "Unknown Stop", rec.TerminusName)
	assert.Equal(t, "", rec.TerminusCode)
	assert.Equal(t, "23:10:00", rec.TerminusTime)
	assert.Equal(t, []string{"Unknown Stop"}, rec.NextStreets)
}

func TestAssembleDefaultProviderRouteFallback(t *testing.T) {
	a, dir := newAssembler(t, provider.Default, nil)

	result, err := a.Assemble(context.Background(), dir, tuesday)
	require.NoError(t, err)

	assert.Equal(t, "Main St 1", result["2"][2].Route)
}

func TestAssembleNoServices(t *testing.T) {
	a, dir := newAssembler(t, provider.Vitrasa, nil)

	result, err := a.Assemble(context.Background(), dir, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestAssembleCancelled(t *testing.T) {
	a, dir := newAssembler(t, provider.Vitrasa, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Assemble(ctx, dir, tuesday)
	assert.ErrorIs(t, err, context.Canceled)
}
