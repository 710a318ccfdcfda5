package geo

import (
	"fmt"
	"math"
)

// Coordinate is a point on the globe in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both components are finite and within range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude)
}

// Location holds a coordinate plus whatever place metadata the source knew.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
}

// Coordinate returns the location's coordinate.
func (l Location) Coordinate() Coordinate {
	return Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Label renders "City, Country", or whichever half is known.
func (l Location) Label() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.City != "":
		return l.City
	default:
		return l.Country
	}
}

// Jakarta city centre, used whenever the real position cannot be obtained.
var (
	FallbackCoordinate = Coordinate{Latitude: -6.1751, Longitude: 106.8650}
	FallbackLocation   = Location{
		Latitude:  FallbackCoordinate.Latitude,
		Longitude: FallbackCoordinate.Longitude,
		City:      "Jakarta",
		Country:   "Indonesia",
		Timezone:  "Asia/Jakarta",
	}
)

const (
	FallbackLabel = "Jakarta, Indonesia"

	// GenericLabel and GenericCountry replace a failed reverse geocode.
	GenericLabel   = "Lokasi Saat Ini"
	GenericCountry = "Indonesia"
)
