// Package geo answers whether a coordinate lies inside a circular zone.
package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by Distance.
const EarthRadiusMeters = 6371000

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidRadius     = errors.New("geofence radius must be positive")
)

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Validate rejects latitudes outside [-90, 90] and longitudes outside [-180, 180].
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinate, c.Lat, c.Lon)
	}
	return nil
}

// Zone is a circle around Center.
type Zone struct {
	Center       Coordinate
	RadiusMeters int
}

// NewZone validates center and radius.
func NewZone(center Coordinate, radiusMeters int) (Zone, error) {
	if err := center.Validate(); err != nil {
		return Zone{}, err
	}
	if radiusMeters <= 0 {
		return Zone{}, ErrInvalidRadius
	}
	return Zone{Center: center, RadiusMeters: radiusMeters}, nil
}

// Distance returns the great-circle distance in meters using the Haversine formula.
func Distance(a, b Coordinate) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	if a == b {
		return 0, nil
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	// rounding can push h a hair outside [0, 1] for antipodal points
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c, nil
}

// IsEligible reports whether user is within zone. The boundary is inclusive.
func IsEligible(user Coordinate, zone Zone) (bool, error) {
	d, err := Distance(user, zone.Center)
	if err != nil {
		return false, err
	}
	return d <= float64(zone.RadiusMeters), nil
}

// Check returns eligibility together with the measured distance.
func Check(user Coordinate, zone Zone) (bool, float64, error) {
	d, err := Distance(user, zone.Center)
	if err != nil {
		return false, 0, err
	}
	return d <= float64(zone.RadiusMeters), d, nil
}
