package writer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"
	"google.golang.org/protobuf/proto"

	"github.com/busurbano-data/internal/common/logger"
	"github.com/busurbano-data/pkg/gtfs-static/models"
)

func sampleArrival() models.ArrivalRecord {
	dist := 150.5
	return models.ArrivalRecord{
		ServiceID:           "WD",
		TripID:              "20250106_001002-5",
		Line:                "C1",
		Route:               "Centro",
		ShapeID:             "shpA",
		StopSequence:        2,
		ShapeDistTraveled:   &dist,
		NextStreets:         []string{"", "Oak Ave"},
		StartingCode:        "1",
		StartingName:        "Main St 1",
		StartingTime:        "08:00:00",
		CallingTime:         "08:05:00",
		CallingSSM:          29100,
		TerminusCode:        "3",
		TerminusName:        "Oak Ave 5",
		TerminusTime:        "08:10:00",
		PreviousTripShapeID: "",
	}
}

func TestMarshalStopArrivals(t *testing.T) {
	data, err := MarshalStopArrivals("2", Point{X: 522888.5, Y: 4676194.25}, []models.ArrivalRecord{sampleArrival()})
	require.NoError(t, err)

	var msg StopArrivals
	require.NoError(t, proto.Unmarshal(data, &msg))
	assert.Equal(t, "2", msg.GetStopId())
	assert.Equal(t, 522888.5, msg.GetLocation().GetX())
	assert.Equal(t, 4676194.25, msg.GetLocation().GetY())

	require.Len(t, msg.GetArrivals(), 1)
	a := msg.GetArrivals()[0]
	assert.Equal(t, "WD", a.GetServiceId())
	assert.Equal(t, "20250106_001002-5", a.GetTripId())
	assert.Equal(t, "Centro", a.GetRoute())
	assert.Equal(t, 150.5, a.GetShapeDistTraveled())
	assert.Equal(t, uint32(2), a.GetStopSequence())
	assert.Equal(t, uint32(29100), a.GetCallingSsm())
	assert.Equal(t, "08:10:00", a.GetTerminusTime())
	assert.Equal(t, []string{"", "Oak Ave"}, a.GetNextStreets())
	assert.Empty(t, a.GetPreviousTripShapeId())
}

func TestMarshalStopArrivalsWithoutDistance(t *testing.T) {
	rec := sampleArrival()
	rec.ShapeDistTraveled = nil
	data, err := MarshalStopArrivals("2", Point{}, []models.ArrivalRecord{rec})
	require.NoError(t, err)

	var msg StopArrivals
	require.NoError(t, proto.Unmarshal(data, &msg))
	assert.Zero(t, msg.GetArrivals()[0].GetShapeDistTraveled())
}

func TestMarshalRejectsNegativeCounters(t *testing.T) {
	rec := sampleArrival()
	rec.CallingSSM = -1
	_, err := MarshalStopArrivals("2", Point{}, []models.ArrivalRecord{rec})
	assert.ErrorContains(t, err, "calling_ssm")

	rec = sampleArrival()
	rec.StopSequence = -3
	_, err = MarshalStopArrivals("2", Point{}, []models.ArrivalRecord{rec})
	assert.ErrorContains(t, err, "stop_sequence")
}

func TestMarshalShape(t *testing.T) {
	data, err := MarshalShape("shpA", []Point{{1, 2}, {3, 4}})
	require.NoError(t, err)

	var msg Shape
	require.NoError(t, proto.Unmarshal(data, &msg))
	assert.Equal(t, "shpA", msg.GetShapeId())
	require.Len(t, msg.GetPoints(), 2)
	assert.Equal(t, 3.0, msg.GetPoints()[1].GetX())
	assert.Equal(t, 4.0, msg.GetPoints()[1].GetY())
}

func TestDateBatchCommit(t *testing.T) {
	out := t.TempDir()
	w := New(out, Options{JSON: true, Binary: true}, logger.NewNop())

	// A previous run's output for the same date is replaced.
	require.NoError(t, os.MkdirAll(filepath.Join(out, "2025-01-07"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "2025-01-07", "99.json"), []byte("[]"), 0o644))

	batch, err := w.BeginDate("2025-01-07")
	require.NoError(t, err)
	stop := &models.Stop{StopID: "S2", X: 1, Y: 2, Projected: true}
	require.NoError(t, batch.WriteStop("2", []models.ArrivalRecord{sampleArrival()}, stop))
	require.NoError(t, batch.WriteStop("3", []models.ArrivalRecord{sampleArrival()}, nil))
	require.NoError(t, batch.WriteStop("4", []models.ArrivalRecord{sampleArrival()}, &models.Stop{StopID: "S4"}))

	assert.NoFileExists(t, filepath.Join(out, "2025-01-07", "2.json"))
	require.NoError(t, batch.Commit())
	batch.Abort()

	assert.FileExists(t, filepath.Join(out, "2025-01-07", "2.json"))
	assert.FileExists(t, filepath.Join(out, "2025-01-07", "2.pb"))
	assert.FileExists(t, filepath.Join(out, "2025-01-07", "3.json"))
	assert.NoFileExists(t, filepath.Join(out, "2025-01-07", "3.pb"))
	assert.FileExists(t, filepath.Join(out, "2025-01-07", "4.json"))
	assert.NoFileExists(t, filepath.Join(out, "2025-01-07", "4.pb"))
	assert.NoFileExists(t, filepath.Join(out, "2025-01-07", "99.json"))
	assert.NoDirExists(t, filepath.Join(out, ".staging-2025-01-07"))

	raw, err := os.ReadFile(filepath.Join(out, "2025-01-07", "2.json"))
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, 150.5, decoded[0]["shape_dist_traveled"])
	assert.Equal(t, float64(29100), decoded[0]["calling_ssm"])
	assert.Equal(t, "", decoded[0]["previous_trip_shape_id"])
}

func TestDateBatchAbort(t *testing.T) {
	out := t.TempDir()
	w := New(out, Options{JSON: true}, logger.NewNop())

	batch, err := w.BeginDate("2025-01-08")
	require.NoError(t, err)
	require.NoError(t, batch.WriteStop("2", nil, nil))
	batch.Abort()

	assert.NoDirExists(t, filepath.Join(out, ".staging-2025-01-08"))
	assert.NoDirExists(t, filepath.Join(out, "2025-01-08"))
}

func TestNullDistanceInJSON(t *testing.T) {
	out := t.TempDir()
	w := New(out, Options{JSON: true}, logger.NewNop())

	batch, err := w.BeginDate("2025-01-09")
	require.NoError(t, err)
	rec := sampleArrival()
	rec.ShapeDistTraveled = nil
	require.NoError(t, batch.WriteStop("5", []models.ArrivalRecord{rec}, nil))
	require.NoError(t, batch.Commit())

	raw, err := os.ReadFile(filepath.Join(out, "2025-01-09", "5.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"shape_dist_traveled":null`)
}

func TestWriteIndex(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested")
	w := New(out, Options{JSON: true}, logger.NewNop())

	require.NoError(t, w.WriteIndex(Index{"2025-01-07": {"2": 3, "3": 1}, "2025-01-08": {}}))

	raw, err := os.ReadFile(filepath.Join(out, "index.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"2025-01-07":{"2":3,"3":1},"2025-01-08":{}}`, string(raw))
	assert.NoFileExists(t, filepath.Join(out, "index.json.tmp"))
}

func TestWriteShape(t *testing.T) {
	out := t.TempDir()
	w := New(out, Options{JSON: true, Binary: true}, logger.NewNop())

	geo := [][]float64{{42.23, -8.72}, {42.24, -8.71}}
	require.NoError(t, w.WriteShape("shpA", []Point{{10, 20}, {30, 40}}, geo))

	data, err := os.ReadFile(filepath.Join(out, "shapes", "shpA.pb"))
	require.NoError(t, err)
	var msg Shape
	require.NoError(t, proto.Unmarshal(data, &msg))
	assert.Len(t, msg.GetPoints(), 2)

	raw, err := os.ReadFile(filepath.Join(out, "shapes", "shpA.json"))
	require.NoError(t, err)
	var doc struct {
		ShapeID  string       `json:"shape_id"`
		Points   [][2]float64 `json:"points"`
		Polyline string       `json:"polyline"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, [][2]float64{{10, 20}, {30, 40}}, doc.Points)

	coords, _, err := polyline.DecodeCoords([]byte(doc.Polyline))
	require.NoError(t, err)
	require.Len(t, coords, 2)
	assert.InDelta(t, 42.24, coords[1][0], 1e-5)
	assert.InDelta(t, -8.71, coords[1][1], 1e-5)

	assert.Error(t, w.WriteShape("../escape", nil, nil))
}
