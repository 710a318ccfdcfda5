package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrReverseGeocode marks a failed place-name lookup. It is cosmetic only.
var ErrReverseGeocode = errors.New("reverse geocoding failed")

var nominatimURL = "https://nominatim.openstreetmap.org"

type nominatimResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Hamlet  string `json:"hamlet"`
		County  string `json:"county"`
		Country string `json:"country"`
	} `json:"address"`
}

// ReverseGeocoder turns coordinates into "City, Country" labels using Nominatim.
type ReverseGeocoder struct {
	httpClient *http.Client
	BaseURL    string
}

// NewReverseGeocoder creates a geocoder pointed at the public Nominatim instance.
func NewReverseGeocoder() *ReverseGeocoder {
	return &ReverseGeocoder{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		BaseURL:    nominatimURL,
	}
}

// Lookup returns the place for c. Any failure wraps ErrReverseGeocode.
func (g *ReverseGeocoder) Lookup(ctx context.Context, c Coordinate) (city, country string, err error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(c.Latitude, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(c.Longitude, 'f', 6, 64))
	params.Set("zoom", "10")
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrReverseGeocode, err)
	}
	// Nominatim's usage policy requires an identifying agent.
	req.Header.Set("User-Agent", "jadwal-sholat")
	req.Header.Set("Accept-Language", "id")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrReverseGeocode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%w: status %d", ErrReverseGeocode, resp.StatusCode)
	}

	var result nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrReverseGeocode, err)
	}

	a := result.Address
	city = firstNonEmpty(a.City, a.Town, a.Village, a.Hamlet, a.County)
	if city == "" && a.Country == "" {
		return "", "", fmt.Errorf("%w: empty address", ErrReverseGeocode)
	}
	return city, a.Country, nil
}

// Label looks up c and formats it, substituting generic text for missing parts.
func (g *ReverseGeocoder) Label(ctx context.Context, c Coordinate) (string, error) {
	city, country, err := g.Lookup(ctx, c)
	if err != nil {
		return "", err
	}
	if city == "" {
		city = GenericLabel
	}
	if country == "" {
		country = GenericCountry
	}
	return city + ", " + country, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
