package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
}

// geoAPIURL is the geolocation API endpoint. It is a variable (not a constant)
// so that tests can override it with an httptest server URL.
var geoAPIURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"

// IPDetector locates the machine from its public IP address via ip-api.com.
// This is a free service that requires no API key; accuracy is city level at best.
type IPDetector struct {
	httpClient *http.Client
	URL        string
}

// NewIPDetector creates a detector pointed at ip-api.com.
func NewIPDetector() *IPDetector {
	return &IPDetector{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		URL:        geoAPIURL,
	}
}

// Detect performs one lookup. It does not retry.
func (d *IPDetector) Detect(ctx context.Context) (*Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geolocation request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if result.Status != "success" {
		return nil, fmt.Errorf("geolocation failed: %s", result.Message)
	}

	loc := &Location{
		Latitude:  result.Lat,
		Longitude: result.Lon,
		City:      result.City,
		Country:   result.Country,
		Timezone:  result.Timezone,
	}
	if !loc.Coordinate().Valid() {
		return nil, fmt.Errorf("geolocation returned invalid coordinate %s", loc.Coordinate())
	}
	return loc, nil
}
