package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/display"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/geo"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/prayer"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/schedule"
)

func fallbackSnapshot(date time.Time) schedule.Snapshot {
	return schedule.Snapshot{
		Resolution: geo.Resolution{
			Location: geo.FallbackLocation,
			Label:    geo.FallbackLabel,
			Source:   geo.SourceFallback,
			Fallback: true,
			Reason:   geo.Reason(geo.ErrPermissionDenied),
		},
		Result: schedule.Result{
			Set:        prayer.OfflineDefault(date),
			Disclaimer: schedule.DisclaimerOffline,
		},
		Timezone: "Local",
	}
}

func TestPrintTodayRich(t *testing.T) {
	defer display.SetEnabled(display.Enabled())
	display.SetEnabled(false)

	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.Local)
	snap := fallbackSnapshot(now)
	next := prayer.SelectNext(snap.Result.Set, now)

	var buf bytes.Buffer
	printTodayRich(&buf, snap, next, now, prayer.DefaultDisplayNames, false)
	out := buf.String()

	for _, want := range []string{
		"Jakarta, Indonesia",
		snap.Resolution.Reason,
		"Senin, 19 Oktober 2026",
		"Subuh",
		"Terbit",
		"berikutnya dalam",
		"jadwal default offline",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Tengah Malam") {
		t.Error("Midnight is not a default display entry")
	}
}

func TestPrintTodayRich_TomorrowMarker(t *testing.T) {
	defer display.SetEnabled(display.Enabled())
	display.SetEnabled(false)

	now := time.Date(2026, 10, 19, 23, 30, 0, 0, time.Local)
	snap := fallbackSnapshot(now)
	next := prayer.SelectNext(snap.Result.Set, now)

	var buf bytes.Buffer
	printTodayRich(&buf, snap, next, now, prayer.DefaultDisplayNames, false)
	if !strings.Contains(buf.String(), "(besok)") {
		t.Errorf("after Isha the next prayer should be marked tomorrow:\n%s", buf.String())
	}
}

func TestPrintTodayJSON(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.Local)
	snap := fallbackSnapshot(now)
	next := prayer.SelectNext(snap.Result.Set, now)

	var buf bytes.Buffer
	if err := printTodayJSON(&buf, snap, next, now, []prayer.Name{prayer.Fajr, prayer.Isha}, true); err != nil {
		t.Fatalf("printTodayJSON: %v", err)
	}

	var got todayJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Provenance != prayer.ProvenanceOffline {
		t.Errorf("provenance = %q", got.Provenance)
	}
	if len(got.Timings) != 2 {
		t.Errorf("timings = %v, want fajr and isha only", got.Timings)
	}
	if !strings.HasSuffix(got.Timings["isha"], "PM") {
		t.Errorf("isha = %q, want 12-hour clock", got.Timings["isha"])
	}
	if got.Date.Gregorian != "2026-10-19" {
		t.Errorf("gregorian = %q", got.Date.Gregorian)
	}
	if got.Next.Prayer != strings.ToLower(string(next.Name)) {
		t.Errorf("next = %+v", got.Next)
	}
	if !got.Location.Fallback || got.Location.Latitude != geo.FallbackCoordinate.Latitude {
		t.Errorf("location = %+v", got.Location)
	}
}

func TestFormatGregorianDate(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC), "Sabtu, 28 Februari 2026"},
		{time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC), "Minggu, 18 Oktober 2026"},
		{time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), "Jumat, 1 Januari 2027"},
	}
	for _, tt := range tests {
		if got := formatGregorianDate(tt.date); got != tt.want {
			t.Errorf("formatGregorianDate(%s) = %q, want %q", tt.date.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"Subuh", 7, "Subuh  "},
		{"Maghrib", 7, "Maghrib"},
		{"Isya", 4, "Isya"},
		{"A", 10, "A         "},
	}

	for _, tt := range tests {
		got := padRight(tt.s, tt.width)
		if got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}

func TestCalculateDays(t *testing.T) {
	start := time.Date(2026, 12, 30, 0, 0, 0, 0, time.UTC)
	rows := calculateDays(geo.FallbackCoordinate, start, 3)

	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[2].Date.Year() != 2027 || rows[2].Date.Day() != 1 {
		t.Errorf("third row = %s, want 2027-01-01", rows[2].Date.Format("2006-01-02"))
	}
	for _, r := range rows {
		if r.Set.Provenance != prayer.ProvenanceCalculated {
			t.Errorf("%s provenance = %q", r.Date.Format("2006-01-02"), r.Set.Provenance)
		}
		if err := r.Set.Validate(); err != nil {
			t.Errorf("%s: %v", r.Date.Format("2006-01-02"), err)
		}
	}
}
