package calendar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/busurbano-data/internal/common/logger"
	"github.com/busurbano-data/internal/gtfs-static/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T, files map[string]string) *Resolver {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	log := logger.NewNop()
	return New(parser.New(log), dir, log)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const calendarTxt = "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
	"WD,1,1,1,1,1,0,0,20250106,20250112\n" +
	"WE,0,0,0,0,0,1,1,20250106,20250112\n"

const calendarDatesTxt = "service_id,date,exception_type\n" +
	"WD,20250108,2\n" +
	"SPECIAL,20250108,1\n" +
	"SPECIAL,20250120,1\n"

func TestActiveServices(t *testing.T) {
	r := newResolver(t, map[string]string{
		"calendar.txt":       calendarTxt,
		"calendar_dates.txt": calendarDatesTxt,
	})

	tests := []struct {
		name string
		date time.Time
		want []string
	}{
		{"monday", date(2025, 1, 6), []string{"WD"}},
		{"saturday", date(2025, 1, 11), []string{"WE"}},
		{"removed and added", date(2025, 1, 8), []string{"SPECIAL"}},
		{"before range", date(2025, 1, 5), []string{}},
		{"added outside range", date(2025, 1, 20), []string{"SPECIAL"}},
		{"time of day ignored", time.Date(2025, 1, 7, 23, 59, 0, 0, time.UTC), []string{"WD"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ActiveServices(tt.date))
		})
	}
}

func TestValidDatesUnion(t *testing.T) {
	r := newResolver(t, map[string]string{
		"calendar.txt":       calendarTxt,
		"calendar_dates.txt": calendarDatesTxt,
	})

	dates := r.ValidDates(date(2030, 1, 1))
	require.Len(t, dates, 8)
	assert.Equal(t, date(2025, 1, 6), dates[0])
	assert.Equal(t, date(2025, 1, 12), dates[6])
	assert.Equal(t, date(2025, 1, 20), dates[7])
}

func TestValidDatesOnlyCalendarDates(t *testing.T) {
	r := newResolver(t, map[string]string{"calendar_dates.txt": calendarDatesTxt})

	dates := r.ValidDates(date(2030, 1, 1))
	assert.Equal(t, []time.Time{date(2025, 1, 8), date(2025, 1, 20)}, dates)
}

func TestValidDatesFallbackWeek(t *testing.T) {
	r := newResolver(t, map[string]string{
		"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n",
	})

	now := time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC)
	dates := r.ValidDates(now)
	require.Len(t, dates, 8)
	assert.Equal(t, date(2025, 3, 10), dates[0])
	assert.Equal(t, date(2025, 3, 17), dates[7])
}

func TestValidDatesNoCalendar(t *testing.T) {
	r := newResolver(t, nil)
	assert.Empty(t, r.ValidDates(time.Now()))
	assert.Empty(t, r.ActiveServices(time.Now()))
}
