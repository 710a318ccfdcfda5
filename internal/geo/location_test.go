package geo

import (
	"math"
	"testing"
)

func TestCoordinate_Valid(t *testing.T) {
	tests := []struct {
		name string
		c    Coordinate
		want bool
	}{
		{"jakarta", FallbackCoordinate, true},
		{"poles and antimeridian", Coordinate{90, -180}, true},
		{"south pole", Coordinate{-90, 180}, true},
		{"latitude too high", Coordinate{90.01, 0}, false},
		{"longitude too low", Coordinate{0, -180.5}, false},
		{"NaN latitude", Coordinate{math.NaN(), 0}, false},
		{"infinite longitude", Coordinate{0, math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Valid(); got != tt.want {
				t.Errorf("Valid(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestFallbackCoordinate(t *testing.T) {
	if FallbackCoordinate.Latitude != -6.1751 || FallbackCoordinate.Longitude != 106.8650 {
		t.Errorf("FallbackCoordinate = %v, want -6.1751, 106.8650", FallbackCoordinate)
	}
	if FallbackLocation.Coordinate() != FallbackCoordinate {
		t.Errorf("FallbackLocation.Coordinate() = %v, want %v", FallbackLocation.Coordinate(), FallbackCoordinate)
	}
	if FallbackLocation.Label() != FallbackLabel {
		t.Errorf("FallbackLocation.Label() = %q, want %q", FallbackLocation.Label(), FallbackLabel)
	}
}

func TestLocation_Label(t *testing.T) {
	tests := []struct {
		loc  Location
		want string
	}{
		{Location{City: "Surabaya", Country: "Indonesia"}, "Surabaya, Indonesia"},
		{Location{City: "Surabaya"}, "Surabaya"},
		{Location{Country: "Indonesia"}, "Indonesia"},
		{Location{}, ""},
	}
	for _, tt := range tests {
		if got := tt.loc.Label(); got != tt.want {
			t.Errorf("Label(%+v) = %q, want %q", tt.loc, got, tt.want)
		}
	}
}
