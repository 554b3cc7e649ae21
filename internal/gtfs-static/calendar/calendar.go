package calendar

import (
	"sort"
	"sync"
	"time"

	"github.com/busurbano-data/internal/common/logger"
	"github.com/busurbano-data/internal/gtfs-static/parser"
	"github.com/busurbano-data/pkg/gtfs-static/models"
)

// fallbackDays is how many days past today are reported when calendar.txt
// exists but describes no usable range.
const fallbackDays = 7

// Resolver answers which services run on a date for one feed directory.
type Resolver struct {
	parser *parser.Parser
	dir    string
	logger logger.Logger

	once            sync.Once
	calendars       []models.Calendar
	calendarPresent bool
	exceptions      map[time.Time][]models.CalendarDate
}

func New(p *parser.Parser, dir string, log logger.Logger) *Resolver {
	return &Resolver{parser: p, dir: dir, logger: log}
}

// Day truncates t to its calendar date at UTC midnight, the form feed dates
// are parsed into.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r *Resolver) load() {
	r.once.Do(func() {
		var calReport parser.ParseReport
		r.calendars, calReport = r.parser.Calendars(r.dir)
		r.calendarPresent = !calReport.Missing

		dates, datesReport := r.parser.CalendarDates(r.dir)
		r.exceptions = make(map[time.Time][]models.CalendarDate)
		for _, cd := range dates {
			r.exceptions[cd.Date] = append(r.exceptions[cd.Date], cd)
		}

		if calReport.Missing && datesReport.Missing {
			r.logger.Error("Feed has neither calendar.txt nor calendar_dates.txt", "dir", r.dir)
		}
		r.logger.Info("Loaded service calendar", "calendars", len(r.calendars), "exceptions", len(dates))
	})
}

// ActiveServices returns the sorted ids of the services that run on date.
func (r *Resolver) ActiveServices(date time.Time) []string {
	r.load()
	day := Day(date)

	active := make(map[string]struct{})
	for _, cal := range r.calendars {
		if day.Before(cal.StartDate) || day.After(cal.EndDate) {
			continue
		}
		if cal.Weekdays[day.Weekday()] {
			active[cal.ServiceID] = struct{}{}
		}
	}
	for _, cd := range r.exceptions[day] {
		switch cd.ExceptionType {
		case models.ExceptionAdded:
			active[cd.ServiceID] = struct{}{}
		case models.ExceptionRemoved:
			delete(active, cd.ServiceID)
		}
	}

	ids := make([]string, 0, len(active))
	for id := range active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ValidDates returns every date the feed has schedules for, ascending: the
// span from the earliest calendar start to the latest calendar end, plus any
// date added through calendar_dates.txt. When calendar.txt exists but yields
// no span and nothing is added, the week starting at now is used instead.
func (r *Resolver) ValidDates(now time.Time) []time.Time {
	r.load()

	set := make(map[time.Time]struct{})

	var start, end time.Time
	for _, cal := range r.calendars {
		if cal.EndDate.Before(cal.StartDate) {
			r.logger.Warn("Calendar ends before it starts", "service_id", cal.ServiceID)
			continue
		}
		if start.IsZero() || cal.StartDate.Before(start) {
			start = cal.StartDate
		}
		if end.IsZero() || cal.EndDate.After(end) {
			end = cal.EndDate
		}
	}
	if !start.IsZero() {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			set[d] = struct{}{}
		}
	}

	for day, exceptions := range r.exceptions {
		for _, cd := range exceptions {
			if cd.ExceptionType == models.ExceptionAdded {
				set[day] = struct{}{}
				break
			}
		}
	}

	if len(set) == 0 && r.calendarPresent {
		today := Day(now)
		r.logger.Warn("No valid dates in calendar, falling back to the coming week", "from", today.Format("2006-01-02"))
		for i := 0; i <= fallbackDays; i++ {
			set[today.AddDate(0, 0, i)] = struct{}{}
		}
	}

	dates := make([]time.Time, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
