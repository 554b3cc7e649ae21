package streets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStreetName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Rúa de Urzaiz, 45", "Rúa Urzaiz"},
		{"Avenida de Castrelos 120", "Avenida Castrelos"},
		{`"Praza de España"`, "Praza España"},
		{"“Gran Vía” - Fronte", "Gran Vía"},
		{"Rúa Sanjurjo Badía S/N", "Rúa Sanjurjo Badía"},
		{"Travesía de Vigo (Hospital)", "Travesía Vigo"},
		{"Estrada de Miraflores 33", "Estrada Miraflores"},
		{"Rúa da Salguera Entrada, 2", "Rúa da Salgueira"},
		{"FORA DE SERVIZO.G.B.", ""},
		{"Rúa Riós  Baixo", "Rúa Ríos"},
		{"Porta do Sol", "Porta Sol"},
		{"Policarpo Sanz", "Policarpo Sanz"},
		{"  Colón  ", "Colón"},
		{"Main St 1", "Main St"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, GetStreetName(tt.in))
		})
	}
}

func TestGetStreetNameMatchIsCaseInsensitiveButReplaceIsLiteral(t *testing.T) {
	// " DE " contains " de " case-insensitively, so that entry is selected,
	// but the literal replacement finds nothing to replace.
	assert.Equal(t, "RÚA DE ROSALÍA", GetStreetName("RÚA DE ROSALÍA"))
}

func TestNormaliseStopName(t *testing.T) {
	assert.Equal(t, "Urzaiz, 45", NormaliseStopName(`"Urzaiz  45"`))
	assert.Equal(t, "Colón", NormaliseStopName("  Colón "))
	assert.Equal(t, "", NormaliseStopName(""))
}

func TestSegment(t *testing.T) {
	s := Segment([]string{"Main St 1", "Main St 2", "Oak Ave 5"}, GetStreetName)

	assert.Equal(t, []string{"Main St", "Oak Ave"}, s.segmentStreets())
	assert.Equal(t, []string{"Oak Ave"}, s.NextStreets(0))
	assert.Equal(t, []string{"Oak Ave"}, s.NextStreets(1))
	assert.Equal(t, []string{}, s.NextStreets(2))
}

func TestSegmentNonAdjacentRepeats(t *testing.T) {
	s := Segment([]string{"A 1", "B 1", "A 2", "C 1"}, GetStreetName)

	assert.Equal(t, []string{"A", "B", "A", "C"}, s.segmentStreets())
	assert.Equal(t, []string{"B", "A", "C"}, s.NextStreets(0))
	assert.Equal(t, []string{"A", "C"}, s.NextStreets(1))
	assert.Equal(t, []string{"C"}, s.NextStreets(2))
}

func TestSegmentKeepsEmptyStreets(t *testing.T) {
	s := Segment([]string{"A 1", "FORA DE SERVIZO.G.B.", "B 1"}, GetStreetName)
	assert.Equal(t, []string{"", "B"}, s.NextStreets(0))
}

func TestSegmentMemoizesCanonicalization(t *testing.T) {
	calls := 0
	canon := func(name string) string {
		calls++
		return strings.ToUpper(name)
	}
	Segment([]string{"a", "a", "b", "a"}, canon)
	assert.Equal(t, 2, calls)
}

func TestNextStreetsReturnsCopy(t *testing.T) {
	s := Segment([]string{"A 1", "B 1", "C 1"}, GetStreetName)

	first := s.NextStreets(0)
	require.Len(t, first, 2)
	first[0] = "mutated"

	assert.Equal(t, []string{"B", "C"}, s.NextStreets(0))
	assert.Equal(t, []string{}, s.NextStreets(99))
}

func TestSegmentEmpty(t *testing.T) {
	s := Segment(nil, GetStreetName)
	assert.Empty(t, s.segmentStreets())
	assert.Equal(t, []string{}, s.NextStreets(0))
}
