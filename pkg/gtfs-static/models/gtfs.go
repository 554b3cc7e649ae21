package models

import (
	"time"
)

type Stop struct {
	StopID   string
	StopCode string
	StopName string
	StopLat  float64
	StopLon  float64

	// HasLocation is false when stops.txt left stop_lat or stop_lon blank.
	HasLocation bool

	// Projected coordinates (EPSG:25829), filled in by the feed cache.
	// Projected is false when the stop has no usable location.
	X         float64
	Y         float64
	Projected bool
}

type Route struct {
	RouteID        string
	RouteShortName string
}

type Trip struct {
	TripID       string
	RouteID      string
	ServiceID    string
	ShapeID      string
	TripHeadsign string
}

type StopTime struct {
	TripID            string
	StopID            string
	StopSequence      int
	ArrivalTime       string // Format: HH:MM:SS, hours may exceed 23
	DepartureTime     string // Format: HH:MM:SS, hours may exceed 23
	ShapeDistTraveled *float64
}

type Calendar struct {
	ServiceID string
	Weekdays  [7]bool // indexed by time.Weekday
	StartDate time.Time
	EndDate   time.Time
}

type CalendarDate struct {
	ServiceID     string
	Date          time.Time
	ExceptionType int
}

const (
	ExceptionAdded   = 1
	ExceptionRemoved = 2
)

type ShapePoint struct {
	ShapeID           string
	ShapePtLat        float64
	ShapePtLon        float64
	ShapePtSequence   int
	ShapeDistTraveled *float64
}
