package geo

import (
	"errors"
	"fmt"
	"math"

	UTM "github.com/im7mortal/UTM"
)

// Zone29 is the UTM zone of EPSG:25829 (ETRS89 / UTM zone 29N).
const Zone29 = 29

// MaxCentralOffset bounds the longitude distance, in degrees, from the
// zone's central meridian. The series below loses metre accuracy well
// before this, but stays monotonic.
const MaxCentralOffset = 30.0

// ErrOutsideZone is returned for coordinates too far from the zone's central
// meridian to be projected.
var ErrOutsideZone = errors.New("coordinate outside projection range")

// Projector turns geographic coordinates into planar ones.
type Projector interface {
	Project(lat, lon float64) (x, y float64, err error)
}

const (
	scale         = 0.9996
	falseEasting  = 500000.0
	semiMajorAxis = 6378137.0
	eccSquared    = 0.00669438
)

var (
	eccPrimeSquared = eccSquared / (1 - eccSquared)

	m1 = 1 - eccSquared/4 - 3*eccSquared*eccSquared/64 - 5*eccSquared*eccSquared*eccSquared/256
	m2 = 3*eccSquared/8 + 3*eccSquared*eccSquared/32 + 45*eccSquared*eccSquared*eccSquared/1024
	m3 = 15*eccSquared*eccSquared/256 + 45*eccSquared*eccSquared*eccSquared/1024
	m4 = 35 * eccSquared * eccSquared * eccSquared / 3072
)

// UTMProjector projects WGS84 coordinates into one fixed northern UTM zone,
// whatever zone the point naturally falls in. The GRS80 ellipsoid of ETRS89
// differs from WGS84 by well under a millimetre, so the result is used as
// EPSG:25829 directly.
type UTMProjector struct {
	Zone int
}

func NewEPSG25829() *UTMProjector {
	return &UTMProjector{Zone: Zone29}
}

// CentralMeridian returns the central longitude of the projector's zone.
func (p *UTMProjector) CentralMeridian() float64 {
	return float64((p.Zone-1)*6 - 180 + 3)
}

// Project uses the same transverse Mercator series as UTM.FromLatLon, with
// the central meridian pinned to the configured zone.
func (p *UTMProjector) Project(lat, lon float64) (float64, float64, error) {
	if err := UTM.ValidateLatLone(lat, lon); err != nil {
		return 0, 0, fmt.Errorf("projecting (%f, %f): %w", lat, lon, err)
	}
	offset := lon - p.CentralMeridian()
	if math.Abs(offset) > MaxCentralOffset {
		return 0, 0, fmt.Errorf("%w: (%f, %f) is %.1f degrees from zone %d", ErrOutsideZone, lat, lon, offset, p.Zone)
	}

	latRad := lat * math.Pi / 180
	sinLat, cosLat := math.Sin(latRad), math.Cos(latRad)
	tan2 := (sinLat / cosLat) * (sinLat / cosLat)
	tan4 := tan2 * tan2

	n := semiMajorAxis / math.Sqrt(1-eccSquared*sinLat*sinLat)
	c := eccPrimeSquared * cosLat * cosLat
	a := cosLat * offset * math.Pi / 180
	a2 := a * a
	a3 := a2 * a
	a4 := a3 * a
	a5 := a4 * a
	a6 := a5 * a

	m := semiMajorAxis * (m1*latRad -
		m2*math.Sin(2*latRad) +
		m3*math.Sin(4*latRad) -
		m4*math.Sin(6*latRad))

	x := scale*n*(a+
		a3/6*(1-tan2+c)+
		a5/120*(5-18*tan2+tan4+72*c-58*eccPrimeSquared)) + falseEasting
	y := scale * (m + n*(sinLat/cosLat)*(a2/2+
		a4/24*(5-tan2+9*c+4*c*c)+
		a6/720*(61-58*tan2+tan4+600*c-330*eccPrimeSquared)))
	return x, y, nil
}
