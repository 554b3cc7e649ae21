package parser

import (
	"fmt"
	"time"

	"github.com/busurbano-data/pkg/gtfs-static/models"
)

const gtfsDateLayout = "20060102"

// Stops reads stops.txt. The display name falls back to stop_desc when
// stop_name is blank.
func (p *Parser) Stops(dir string) ([]models.Stop, ParseReport) {
	var stops []models.Stop
	report := p.ReadTable(dir, "stops.txt", TableOptions{Required: []string{"stop_id"}}, func(row Row) error {
		stopID := row.String("stop_id")
		if stopID == "" {
			return fmt.Errorf("stop_id is empty")
		}
		lat, err := row.OptFloat("stop_lat")
		if err != nil {
			return err
		}
		lon, err := row.OptFloat("stop_lon")
		if err != nil {
			return err
		}

		stop := models.Stop{
			StopID:   stopID,
			StopCode: row.String("stop_code"),
			StopName: row.String("stop_name"),
		}
		if stop.StopName == "" {
			stop.StopName = row.String("stop_desc")
		}
		if lat != nil {
			stop.StopLat = *lat
		}
		if lon != nil {
			stop.StopLon = *lon
		}
		stop.HasLocation = lat != nil && lon != nil
		stops = append(stops, stop)
		return nil
	})
	return stops, report
}

func (p *Parser) Routes(dir string) ([]models.Route, ParseReport) {
	var routes []models.Route
	report := p.ReadTable(dir, "routes.txt", TableOptions{Required: []string{"route_id"}}, func(row Row) error {
		routeID := row.String("route_id")
		if routeID == "" {
			return fmt.Errorf("route_id is empty")
		}
		routes = append(routes, models.Route{
			RouteID:        routeID,
			RouteShortName: row.String("route_short_name"),
		})
		return nil
	})
	return routes, report
}

func (p *Parser) Trips(dir string) ([]models.Trip, ParseReport) {
	var trips []models.Trip
	opts := TableOptions{Required: []string{"route_id", "service_id", "trip_id"}}
	report := p.ReadTable(dir, "trips.txt", opts, func(row Row) error {
		tripID := row.String("trip_id")
		if tripID == "" {
			return fmt.Errorf("trip_id is empty")
		}
		trips = append(trips, models.Trip{
			TripID:       tripID,
			RouteID:      row.String("route_id"),
			ServiceID:    row.String("service_id"),
			ShapeID:      row.String("shape_id"),
			TripHeadsign: row.String("trip_headsign"),
		})
		return nil
	})
	return trips, report
}

// StopTimes streams stop_times.txt into fn. An unparsable stop_sequence drops
// the row; an unparsable distance only clears it.
func (p *Parser) StopTimes(dir string, fn func(models.StopTime)) ParseReport {
	opts := TableOptions{Required: []string{"trip_id", "arrival_time", "departure_time", "stop_id", "stop_sequence"}}
	warned := false
	return p.ReadTable(dir, "stop_times.txt", opts, func(row Row) error {
		if !warned {
			warned = true
			if !row.Has("shape_dist_traveled") {
				p.logger.Warn("Column shape_dist_traveled not found in stop_times.txt, distances will be absent")
			}
		}

		seq, err := row.Int("stop_sequence")
		if err != nil {
			return fmt.Errorf("trip %s: %w", row.String("trip_id"), err)
		}
		dist, err := row.OptFloat("shape_dist_traveled")
		if err != nil {
			dist = nil
		}

		fn(models.StopTime{
			TripID:            row.String("trip_id"),
			StopID:            row.String("stop_id"),
			StopSequence:      seq,
			ArrivalTime:       row.String("arrival_time"),
			DepartureTime:     row.String("departure_time"),
			ShapeDistTraveled: dist,
		})
		return nil
	})
}

var weekdayColumns = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

func (p *Parser) Calendars(dir string) ([]models.Calendar, ParseReport) {
	var calendars []models.Calendar
	required := append([]string{"service_id", "start_date", "end_date"}, weekdayColumns[:]...)
	opts := TableOptions{Required: required, Optional: true}
	report := p.ReadTable(dir, "calendar.txt", opts, func(row Row) error {
		startDate, err := time.Parse(gtfsDateLayout, row.String("start_date"))
		if err != nil {
			return fmt.Errorf("parsing start_date: %w", err)
		}
		endDate, err := time.Parse(gtfsDateLayout, row.String("end_date"))
		if err != nil {
			return fmt.Errorf("parsing end_date: %w", err)
		}

		cal := models.Calendar{
			ServiceID: row.String("service_id"),
			StartDate: startDate,
			EndDate:   endDate,
		}
		for day, col := range weekdayColumns {
			cal.Weekdays[day] = row.String(col) == "1"
		}
		calendars = append(calendars, cal)
		return nil
	})
	return calendars, report
}

func (p *Parser) CalendarDates(dir string) ([]models.CalendarDate, ParseReport) {
	var dates []models.CalendarDate
	opts := TableOptions{Required: []string{"service_id", "date", "exception_type"}, Optional: true}
	report := p.ReadTable(dir, "calendar_dates.txt", opts, func(row Row) error {
		date, err := time.Parse(gtfsDateLayout, row.String("date"))
		if err != nil {
			return fmt.Errorf("parsing date: %w", err)
		}
		exception, err := row.Int("exception_type")
		if err != nil {
			return err
		}
		if exception != models.ExceptionAdded && exception != models.ExceptionRemoved {
			return fmt.Errorf("unknown exception_type %d", exception)
		}
		dates = append(dates, models.CalendarDate{
			ServiceID:     row.String("service_id"),
			Date:          date,
			ExceptionType: exception,
		})
		return nil
	})
	return dates, report
}

// Shapes reads shapes.txt. The point position comes from shape_pt_sequence,
// or shape_pt_position for feeds that use that name; a missing position is 0.
func (p *Parser) Shapes(dir string) ([]models.ShapePoint, ParseReport) {
	var points []models.ShapePoint
	opts := TableOptions{Required: []string{"shape_id", "shape_pt_lat", "shape_pt_lon"}, Optional: true}
	report := p.ReadTable(dir, "shapes.txt", opts, func(row Row) error {
		lat, err := row.OptFloat("shape_pt_lat")
		if err != nil {
			return err
		}
		lon, err := row.OptFloat("shape_pt_lon")
		if err != nil {
			return err
		}
		if lat == nil || lon == nil {
			return fmt.Errorf("shape point without coordinates")
		}

		positionCol := "shape_pt_sequence"
		if row.Has("shape_pt_position") {
			positionCol = "shape_pt_position"
		}
		position, err := row.IntOr(positionCol, 0)
		if err != nil {
			return err
		}
		dist, err := row.OptFloat("shape_dist_traveled")
		if err != nil {
			return err
		}

		points = append(points, models.ShapePoint{
			ShapeID:           row.String("shape_id"),
			ShapePtLat:        *lat,
			ShapePtLon:        *lon,
			ShapePtSequence:   position,
			ShapeDistTraveled: dist,
		})
		return nil
	})
	return points, report
}
