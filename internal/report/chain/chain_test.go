package chain

import (
	"testing"

	"github.com/busurbano-data/pkg/gtfs-static/models"
	"github.com/stretchr/testify/assert"
)

func TestParseTripID(t *testing.T) {
	tests := []struct {
		id   string
		want TripKey
		ok   bool
	}{
		{"VIGO_20241122_003001-12", TripKey{"003", "001", 12}, true},
		{"A_B_C_001002-5", TripKey{"001", "002", 5}, true},
		{"VIGO_003001-12", TripKey{}, false},
		{"VIGO_20241122_003001", TripKey{}, false},
		{"VIGO_20241122_0030011-12", TripKey{}, false},
		{"VIGO_20241122_003001-1-2", TripKey{}, false},
		{"VIGO_20241122_003001-x", TripKey{}, false},
		{"", TripKey{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := ParseTripID(tt.id)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func stopTimesOf(stops map[string][]string) StopTimesFunc {
	return func(tripID string) []models.StopTime {
		var out []models.StopTime
		for i, stopID := range stops[tripID] {
			out = append(out, models.StopTime{TripID: tripID, StopID: stopID, StopSequence: i + 1})
		}
		return out
	}
}

func TestLink(t *testing.T) {
	trips := []models.Trip{
		{TripID: "X_Y_001002-6", ShapeID: "shpB"},
		{TripID: "X_Y_001002-5", ShapeID: "shpA"},
	}
	stops := stopTimesOf(map[string][]string{
		"X_Y_001002-5": {"S0", "S1"},
		"X_Y_001002-6": {"S1", "S2"},
	})

	assert.Equal(t, map[string]string{"X_Y_001002-6": "shpA"}, Link(trips, stops))
}

func TestLinkNegative(t *testing.T) {
	base := map[string][]string{
		"X_Y_001002-5": {"S0", "S1"},
		"X_Y_001002-6": {"S1", "S2"},
	}

	tests := []struct {
		name  string
		trips []models.Trip
		stops map[string][]string
	}{
		{
			name: "numbers not consecutive",
			trips: []models.Trip{
				{TripID: "X_Y_001002-5", ShapeID: "shpA"},
				{TripID: "X_Y_001002-7", ShapeID: "shpB"},
			},
			stops: map[string][]string{
				"X_Y_001002-5": {"S0", "S1"},
				"X_Y_001002-7": {"S1", "S2"},
			},
		},
		{
			name: "terminus does not match start",
			trips: []models.Trip{
				{TripID: "X_Y_001002-5", ShapeID: "shpA"},
				{TripID: "X_Y_001002-6", ShapeID: "shpB"},
			},
			stops: map[string][]string{
				"X_Y_001002-5": {"S0", "S1"},
				"X_Y_001002-6": {"S9", "S2"},
			},
		},
		{
			name: "previous without shape",
			trips: []models.Trip{
				{TripID: "X_Y_001002-5"},
				{TripID: "X_Y_001002-6", ShapeID: "shpB"},
			},
			stops: base,
		},
		{
			name: "different shift",
			trips: []models.Trip{
				{TripID: "X_Y_001002-5", ShapeID: "shpA"},
				{TripID: "X_Y_001003-6", ShapeID: "shpB"},
			},
			stops: map[string][]string{
				"X_Y_001002-5": {"S0", "S1"},
				"X_Y_001003-6": {"S1", "S2"},
			},
		},
		{
			name: "single stop trip",
			trips: []models.Trip{
				{TripID: "X_Y_001002-5", ShapeID: "shpA"},
				{TripID: "X_Y_001002-6", ShapeID: "shpB"},
			},
			stops: map[string][]string{
				"X_Y_001002-5": {"S1"},
				"X_Y_001002-6": {"S1", "S2"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Link(tt.trips, stopTimesOf(tt.stops)))
		})
	}
}

func TestLinkLongShift(t *testing.T) {
	trips := []models.Trip{
		{TripID: "V_D_010001-1", ShapeID: "out"},
		{TripID: "V_D_010001-2", ShapeID: "back"},
		{TripID: "V_D_010001-3", ShapeID: "out"},
		{TripID: "V_D_020001-1", ShapeID: "other"},
	}
	stops := stopTimesOf(map[string][]string{
		"V_D_010001-1": {"A", "B"},
		"V_D_010001-2": {"B", "A"},
		"V_D_010001-3": {"A", "B"},
		"V_D_020001-1": {"B", "C"},
	})

	assert.Equal(t, map[string]string{
		"V_D_010001-2": "out",
		"V_D_010001-3": "back",
	}, Link(trips, stops))
}
