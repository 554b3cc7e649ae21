package models

// ArrivalRecord is one scheduled call of a trip at a stop, as written to the
// per-stop report files.
type ArrivalRecord struct {
	ServiceID           string   `json:"service_id"`
	TripID              string   `json:"trip_id"`
	Line                string   `json:"line"`
	Route               string   `json:"route"`
	ShapeID             string   `json:"shape_id"`
	StopSequence        int      `json:"stop_sequence"`
	ShapeDistTraveled   *float64 `json:"shape_dist_traveled"`
	NextStreets         []string `json:"next_streets"`
	StartingCode        string   `json:"starting_code"`
	StartingName        string   `json:"starting_name"`
	StartingTime        string   `json:"starting_time"`
	CallingTime         string   `json:"calling_time"`
	CallingSSM          int      `json:"calling_ssm"`
	TerminusCode        string   `json:"terminus_code"`
	TerminusName        string   `json:"terminus_name"`
	TerminusTime        string   `json:"terminus_time"`
	PreviousTripShapeID string   `json:"previous_trip_shape_id"`
}

// StopArrivals groups the arrivals of one stop code for one date.
type StopArrivals map[string][]ArrivalRecord
