package streets

import (
	"regexp"
	"strings"
)

var (
	quotationMarks = strings.NewReplacer(`"`, "", "“", "", "”", "")

	// Everything before the first separator that starts the house number or
	// a qualifier: a comma, a double space, " - ", " <digit>", " S/N" or " (".
	beforeStopCharacters = regexp.MustCompile(`(?i)^(.*?)(?:,|\s\s|\s-\s| \d| S/N|\s\()`)
)

type replacement struct {
	old, new string
}

// nameReplacements is applied in order; only the first entry found in a name
// is used.
var nameReplacements = []replacement{
	{"Rúa da Salguera Entrada", "Rúa da Salgueira"},
	{"Rúa da Salgueira Entrada", "Rúa da Salgueira"},
	{"Estrada de Miraflores", "Estrada Miraflores"},
	{"FORA DE SERVIZO.G.B.", ""},
	{"Praza de Fernando O Católico", ""},
	{"Rúa da Travesía de Vigo", "Travesía de Vigo"},
	{" de ", " "},
	{" do ", " "},
	{" da ", " "},
	{" das ", " "},
	{"Riós", "Ríos"},
}

// GetStreetName extracts the street a stop is on from its display name,
// e.g. "Rúa de Urzaiz, 45" becomes "Rúa Urzaiz".
func GetStreetName(name string) string {
	name = strings.TrimSpace(quotationMarks.Replace(name))

	street := name
	if m := beforeStopCharacters.FindStringSubmatch(name); m != nil {
		street = m[1]
	}

	lower := strings.ToLower(street)
	for _, r := range nameReplacements {
		if strings.Contains(lower, strings.ToLower(r.old)) {
			return strings.TrimSpace(strings.ReplaceAll(street, r.old, r.new))
		}
	}
	return street
}

// NormaliseStopName cleans a stop name for display.
func NormaliseStopName(name string) string {
	name = strings.TrimSpace(quotationMarks.Replace(name))
	return strings.ReplaceAll(name, "  ", ", ")
}
