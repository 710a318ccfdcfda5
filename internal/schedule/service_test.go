package schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/api"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/geo"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/prayer"
)

// Location denied and the proxy unreachable: the user still gets a locally
// calculated Jakarta schedule with the estimate disclaimer.
func TestRefresh_DeniedLocationAndDeadServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	est := NewEstimator(api.NewProxyClient(server.URL), nil)
	est.RetryDelay = time.Millisecond
	svc := &Service{
		Resolver:  &geo.Resolver{Denied: true},
		Estimator: est,
	}

	snap := svc.Refresh(context.Background(), testDate)

	assert.True(t, snap.Resolution.Fallback)
	assert.Equal(t, geo.FallbackCoordinate, snap.Resolution.Location.Coordinate())
	assert.Equal(t, geo.FallbackLabel, snap.Resolution.Label)
	assert.NotEmpty(t, snap.Resolution.Reason)
	assert.Equal(t, prayer.ProvenanceCalculated, snap.Result.Set.Provenance)
	assert.Contains(t, snap.Result.Disclaimer, "perhitungan lokal")
	assert.Equal(t, "Asia/Jakarta", snap.Timezone, "fallback location carries Jakarta's zone")

	_, err := uuid.Parse(snap.ID)
	assert.NoError(t, err)
}

func TestRefresh_IndependentChains(t *testing.T) {
	svc := &Service{
		Resolver:  &geo.Resolver{Denied: true},
		Estimator: &Estimator{},
	}

	a := svc.Refresh(context.Background(), testDate)
	b := svc.Refresh(context.Background(), testDate)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Result.Set, b.Result.Set)
}

func TestRefresh_TimezoneOverride(t *testing.T) {
	svc := &Service{
		Resolver:  &geo.Resolver{Denied: true},
		Estimator: &Estimator{},
		Timezone:  "Asia/Makassar",
	}

	snap := svc.Refresh(context.Background(), testDate)

	assert.Equal(t, "Asia/Makassar", snap.Timezone)
	assert.Equal(t, "Asia/Makassar", snap.Location().String())
}

func TestSnapshot_NextUsesScheduleZone(t *testing.T) {
	svc := &Service{
		Resolver:  &geo.Resolver{Denied: true},
		Estimator: &Estimator{},
	}
	snap := svc.Refresh(context.Background(), testDate)
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 12:00 UTC is 19:00 in Jakarta, so Isha (after 19:00) is next.
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	next := snap.Next(now)

	assert.Equal(t, prayer.SelectNext(snap.Result.Set, now.In(jakarta)), next)
}

func TestPickTimezone(t *testing.T) {
	name, loc := pickTimezone("", "Not/AZone", "Asia/Jayapura")
	assert.Equal(t, "Asia/Jayapura", name)
	assert.Equal(t, "Asia/Jayapura", loc.String())

	name, loc = pickTimezone("", "")
	assert.Equal(t, time.Local.String(), name)
	assert.Equal(t, time.Local, loc)
}

// 18:00 UTC on the 19th is already the 20th in Jakarta.
func TestRefresh_DateFollowsScheduleZone(t *testing.T) {
	svc := &Service{
		Resolver:  &geo.Resolver{Denied: true},
		Estimator: &Estimator{},
	}

	snap := svc.Refresh(context.Background(), time.Date(2026, 10, 19, 18, 0, 0, 0, time.UTC))

	require.Equal(t, "Asia/Jakarta", snap.Timezone)
	y, m, d := snap.Result.Set.Date.Date()
	assert.Equal(t, 2026, y)
	assert.Equal(t, time.October, m)
	assert.Equal(t, 20, d)
}

// zoneFetcher reports a fixed zone and records the requested days.
type zoneFetcher struct {
	zone string
	days []int
}

func (f *zoneFetcher) FetchTimings(ctx context.Context, date time.Time, lat, lon float64, method int) (*api.Response, error) {
	f.days = append(f.days, date.Day())
	resp := okResponse()
	resp.Data.Meta.Timezone = f.zone
	return resp, nil
}

func TestRefresh_ServerZoneMovesDate(t *testing.T) {
	coord := geo.Coordinate{Latitude: 40.7128, Longitude: -74.006}
	f := &zoneFetcher{zone: "America/New_York"}
	svc := &Service{
		Resolver:  &geo.Resolver{Explicit: &coord},
		Estimator: fastEstimator(f, nil),
	}

	// 02:00 UTC on the 19th is still the evening of the 18th in New York.
	snap := svc.Refresh(context.Background(), time.Date(2026, 10, 19, 2, 0, 0, 0, time.UTC))

	assert.Equal(t, "America/New_York", snap.Timezone)
	assert.Equal(t, 18, snap.Result.Set.Date.Day())
	assert.Equal(t, 18, f.days[len(f.days)-1])
}

func TestRefreshDate_KeepsCalendarDate(t *testing.T) {
	svc := &Service{
		Resolver:  &geo.Resolver{Denied: true},
		Estimator: &Estimator{},
	}

	snap := svc.RefreshDate(context.Background(), time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 25, snap.Result.Set.Date.Day())
}
