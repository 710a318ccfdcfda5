package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIPDetector_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ipAPIResponse{
			Status:   "success",
			Lat:      -6.9147,
			Lon:      107.6098,
			City:     "Bandung",
			Country:  "Indonesia",
			Timezone: "Asia/Jakarta",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	// Override the package-level URL for testing.
	origURL := geoAPIURL
	geoAPIURL = server.URL
	defer func() { geoAPIURL = origURL }()

	loc, err := NewIPDetector().Detect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Latitude != -6.9147 {
		t.Errorf("Latitude = %v, want %v", loc.Latitude, -6.9147)
	}
	if loc.Longitude != 107.6098 {
		t.Errorf("Longitude = %v, want %v", loc.Longitude, 107.6098)
	}
	if loc.Label() != "Bandung, Indonesia" {
		t.Errorf("Label() = %q, want %q", loc.Label(), "Bandung, Indonesia")
	}
	if loc.Timezone != "Asia/Jakarta" {
		t.Errorf("Timezone = %q, want %q", loc.Timezone, "Asia/Jakarta")
	}
}

func TestIPDetector_APIFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ipAPIResponse{
			Status:  "fail",
			Message: "reserved range",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	origURL := geoAPIURL
	geoAPIURL = server.URL
	defer func() { geoAPIURL = origURL }()

	_, err := NewIPDetector().Detect(context.Background())
	if err == nil {
		t.Fatal("expected error for failed status, got nil")
	}
	if !strings.Contains(err.Error(), "reserved range") {
		t.Errorf("error should contain message, got: %v", err)
	}
}

func TestIPDetector_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	origURL := geoAPIURL
	geoAPIURL = server.URL
	defer func() { geoAPIURL = origURL }()

	_, err := NewIPDetector().Detect(context.Background())
	if err == nil {
		t.Fatal("expected error for HTTP 500, got nil")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should mention 500, got: %v", err)
	}
}

func TestIPDetector_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	origURL := geoAPIURL
	geoAPIURL = server.URL
	defer func() { geoAPIURL = origURL }()

	_, err := NewIPDetector().Detect(context.Background())
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("error should mention decode, got: %v", err)
	}
}

func TestIPDetector_ConnectionRefused(t *testing.T) {
	origURL := geoAPIURL
	geoAPIURL = "http://127.0.0.1:1" // nothing listening
	defer func() { geoAPIURL = origURL }()

	_, err := NewIPDetector().Detect(context.Background())
	if err == nil {
		t.Fatal("expected error for connection refused, got nil")
	}
}

func TestIPDetector_InvalidCoordinate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ipAPIResponse{Status: "success", Lat: 123, Lon: 10})
	}))
	defer server.Close()

	d := NewIPDetector()
	d.URL = server.URL

	if _, err := d.Detect(context.Background()); err == nil {
		t.Fatal("expected error for latitude 123, got nil")
	}
}

func TestIPDetector_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ipAPIResponse{Status: "success"})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewIPDetector()
	d.URL = server.URL
	if _, err := d.Detect(ctx); err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}
