package parser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/busurbano-data/internal/common/logger"
	"github.com/busurbano-data/pkg/gtfs-static/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTable(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestReadTableMissingFile(t *testing.T) {
	p := New(logger.NewNop())
	called := false
	report := p.ReadTable(t.TempDir(), "stops.txt", TableOptions{}, func(Row) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.True(t, report.Missing)
	assert.False(t, report.Usable())
}

func TestReadTableMissingRequiredColumn(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "stop_times.txt", "trip_id,arrival_time,stop_id\nT1,08:00:00,S1\n")

	p := New(logger.NewNop())
	report := p.StopTimes(dir, func(models.StopTime) {
		t.Fatal("no rows expected")
	})

	assert.ElementsMatch(t, []string{"departure_time", "stop_sequence"}, report.MissingColumns)
	assert.Equal(t, 0, report.Rows)
}

func TestReadTableHandlesBOMAndDropsBadRows(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "stops.txt", "\ufeffstop_id,stop_code,stop_name,stop_desc,stop_lat,stop_lon\n"+
		"S1,P123, Main St 1 ,,42.1,-8.7\n"+
		"S2,,,Desc name,42.2,-8.6\n"+
		"S3,5,Broken,,not-a-number,-8.6\n"+
		",6,No id,,42.0,-8.0\n")

	p := New(logger.NewNop())
	stops, report := p.Stops(dir)

	require.Len(t, stops, 2)
	assert.Equal(t, "S1", stops[0].StopID)
	assert.Equal(t, "P123", stops[0].StopCode)
	assert.Equal(t, "Main St 1", stops[0].StopName)
	assert.InDelta(t, 42.1, stops[0].StopLat, 1e-9)
	assert.Equal(t, "Desc name", stops[1].StopName)

	assert.Equal(t, 4, report.Rows)
	assert.Equal(t, 2, report.Kept)
	assert.Equal(t, 2, report.Dropped)
	require.Len(t, report.Issues, 2)
	assert.Equal(t, 4, report.Issues[0].Line)
}

func TestStopTimes(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "stop_times.txt", "trip_id,arrival_time,departure_time,stop_id,stop_sequence,shape_dist_traveled\n"+
		"T1,08:00:00,08:00:00,S1,1,0\n"+
		"T1,08:05:00,08:05:00,S2,x,\n"+
		"T1,08:10:00,08:10:00,S3,3,\n"+
		"T1,08:15:00,08:15:00,S4,4,oops\n")

	p := New(logger.NewNop())
	var got []models.StopTime
	report := p.StopTimes(dir, func(st models.StopTime) { got = append(got, st) })

	require.Len(t, got, 3)
	require.NotNil(t, got[0].ShapeDistTraveled)
	assert.Equal(t, 0.0, *got[0].ShapeDistTraveled)
	assert.Nil(t, got[1].ShapeDistTraveled)
	assert.Nil(t, got[2].ShapeDistTraveled)
	assert.Equal(t, 3, got[1].StopSequence)
	assert.Equal(t, 1, report.Dropped)
}

func TestCalendars(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "calendar.txt", "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n"+
		"WD,1,1,1,1,1,0,0,20250101,20250131\n"+
		"BAD,1,1,1,1,1,1,1,2025-01-01,20250131\n")
	writeTable(t, dir, "calendar_dates.txt", "service_id,date,exception_type\n"+
		"WD,20250106,2\n"+
		"HOL,20250106,1\n"+
		"HOL,20250107,9\n")

	p := New(logger.NewNop())
	cals, report := p.Calendars(dir)
	require.Len(t, cals, 1)
	assert.Equal(t, 1, report.Dropped)
	assert.True(t, cals[0].Weekdays[time.Monday])
	assert.False(t, cals[0].Weekdays[time.Sunday])
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), cals[0].EndDate)

	dates, report := p.CalendarDates(dir)
	require.Len(t, dates, 2)
	assert.Equal(t, 1, report.Dropped)
	assert.Equal(t, models.ExceptionRemoved, dates[0].ExceptionType)
	assert.Equal(t, "HOL", dates[1].ServiceID)
}

func TestCalendarOptionalWhenAbsent(t *testing.T) {
	p := New(logger.NewNop())
	cals, report := p.Calendars(t.TempDir())
	assert.Empty(t, cals)
	assert.True(t, report.Missing)
}

func TestShapesPositionColumn(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "shapes.txt", "shape_id,shape_pt_lat,shape_pt_lon,shape_pt_position\n"+
		"A,42.0,-8.0,2\n"+
		"A,42.1,-8.1,\n"+
		"A,,-8.1,3\n")

	p := New(logger.NewNop())
	points, report := p.Shapes(dir)

	require.Len(t, points, 2)
	assert.Equal(t, 2, points[0].ShapePtSequence)
	assert.Equal(t, 0, points[1].ShapePtSequence)
	assert.Equal(t, 1, report.Dropped)
}
