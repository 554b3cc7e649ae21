package writer

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/proto"

	"github.com/busurbano-data/pkg/gtfs-static/models"
)

//go:generate protoc --proto_path=../../.. --go_out=../../.. --go_opt=module=github.com/busurbano-data proto/stop_schedule.proto

// Point is a planar EPSG:25829 coordinate.
type Point struct {
	X float64
	Y float64
}

func (p Point) message() *Epsg25829 {
	return &Epsg25829{X: p.X, Y: p.Y}
}

// MarshalStopArrivals encodes a StopArrivals message.
func MarshalStopArrivals(stopCode string, location Point, arrivals []models.ArrivalRecord) ([]byte, error) {
	msg := &StopArrivals{
		StopId:   stopCode,
		Location: location.message(),
		Arrivals: make([]*StopArrivals_ScheduledArrival, 0, len(arrivals)),
	}
	for i := range arrivals {
		a, err := scheduledArrival(&arrivals[i])
		if err != nil {
			return nil, fmt.Errorf("trip %s: %w", arrivals[i].TripID, err)
		}
		msg.Arrivals = append(msg.Arrivals, a)
	}
	return proto.Marshal(msg)
}

// MarshalShape encodes a Shape message.
func MarshalShape(shapeID string, points []Point) ([]byte, error) {
	msg := &Shape{
		ShapeId: shapeID,
		Points:  make([]*Epsg25829, 0, len(points)),
	}
	for _, p := range points {
		msg.Points = append(msg.Points, p.message())
	}
	return proto.Marshal(msg)
}

func scheduledArrival(a *models.ArrivalRecord) (*StopArrivals_ScheduledArrival, error) {
	seq, err := toUint32("stop_sequence", a.StopSequence)
	if err != nil {
		return nil, err
	}
	ssm, err := toUint32("calling_ssm", a.CallingSSM)
	if err != nil {
		return nil, err
	}

	msg := &StopArrivals_ScheduledArrival{
		ServiceId:           a.ServiceID,
		TripId:              a.TripID,
		Line:                a.Line,
		Route:               a.Route,
		ShapeId:             a.ShapeID,
		StopSequence:        seq,
		NextStreets:         a.NextStreets,
		StartingCode:        a.StartingCode,
		StartingName:        a.StartingName,
		StartingTime:        a.StartingTime,
		CallingTime:         a.CallingTime,
		CallingSsm:          ssm,
		TerminusCode:        a.TerminusCode,
		TerminusName:        a.TerminusName,
		TerminusTime:        a.TerminusTime,
		PreviousTripShapeId: a.PreviousTripShapeID,
	}
	if a.ShapeDistTraveled != nil {
		msg.ShapeDistTraveled = *a.ShapeDistTraveled
	}
	return msg, nil
}

func toUint32(field string, v int) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("%s %d does not fit uint32", field, v)
	}
	return uint32(v), nil
}
