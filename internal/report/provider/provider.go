package provider

import (
	"fmt"
	"strings"

	"github.com/busurbano-data/internal/report/streets"
)

// Kind selects the operator-specific formatting rules applied to a feed.
type Kind int

const (
	Vitrasa Kind = iota
	Renfe
	Default
)

var kindNames = map[Kind]string{
	Vitrasa: "vitrasa",
	Renfe:   "renfe",
	Default: "default",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Parse maps a provider name, case-insensitively, to its Kind.
func Parse(name string) (Kind, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == lower {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown provider %q (available: vitrasa, renfe, default)", name)
}

var enye = strings.NewReplacer("NY", "Ñ", "ny", "ñ")

// FormatServiceID shortens underscore-separated service ids to their second
// part.
func (k Kind) FormatServiceID(serviceID string) string {
	if k == Renfe {
		return serviceID
	}
	parts := strings.Split(serviceID, "_")
	if len(parts) >= 2 {
		return parts[1]
	}
	return serviceID
}

// FormatTripID keeps the second and third underscore-separated parts of a
// trip id.
func (k Kind) FormatTripID(tripID string) string {
	if k == Renfe {
		return tripID
	}
	parts := strings.Split(tripID, "_")
	if len(parts) >= 3 {
		return strings.Join(parts[1:3], "_")
	}
	return tripID
}

// FormatRoute returns the text shown as the trip's route. Everything but
// Vitrasa falls back to the terminus name when the feed has no headsign.
func (k Kind) FormatRoute(route, terminusName string) string {
	switch k {
	case Vitrasa:
		return route
	case Renfe:
		if route == "" {
			route = terminusName
		}
		return enye.Replace(route)
	default:
		if route == "" {
			return terminusName
		}
		return route
	}
}

// ExtractStreetName returns the street a stop is on. Rail stations keep
// their full name.
func (k Kind) ExtractStreetName(stopName string) string {
	if k == Renfe {
		return enye.Replace(stopName)
	}
	return streets.GetStreetName(stopName)
}
