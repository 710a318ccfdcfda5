package prayer

import (
	"testing"
	"time"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/api"
)

// ---------------------------------------------------------------------------
// parseClock
// ---------------------------------------------------------------------------

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantH   int
		wantM   int
		wantErr bool
	}{
		{"simple HH:MM", "15:02", 15, 2, false},
		{"midnight", "00:00", 0, 0, false},
		{"with timezone suffix", "04:35 (WIB)", 4, 35, false},
		{"with spaces and suffix", "  05:17  (WITA) ", 5, 17, false},
		{"invalid format", "bad", 0, 0, true},
		{"empty string", "", 0, 0, true},
		{"missing minute", "15:", 0, 0, true},
		{"non-numeric", "ab:cd", 0, 0, true},
		{"hour out of range", "24:10", 0, 0, true},
		{"minute out of range", "10:60", 0, 0, true},
		{"trailing garbage", "04:15xyz", 0, 0, true},
		{"single digits", "4:5", 0, 0, true},
		{"single digit hour", "4:35", 0, 0, true},
		{"signed minute", "04:+5", 0, 0, true},
		{"extra field", "04:15:00", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m, err := parseClock(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseClock(%q) expected error, got nil", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseClock(%q) unexpected error: %v", tt.raw, err)
			}
			if h != tt.wantH || m != tt.wantM {
				t.Errorf("parseClock(%q) = %02d:%02d, want %02d:%02d", tt.raw, h, m, tt.wantH, tt.wantM)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// FromTimings
// ---------------------------------------------------------------------------

func sampleTimings() api.Timings {
	return api.Timings{
		Fajr:     "04:35",
		Sunrise:  "05:52",
		Dhuhr:    "11:58",
		Asr:      "15:20",
		Sunset:   "17:58",
		Maghrib:  "17:58",
		Isha:     "19:08",
		Imsak:    "04:25",
		Midnight: "23:58",
	}
}

func TestFromTimings(t *testing.T) {
	date := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	set, err := FromTimings(sampleTimings(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Provenance != ProvenanceRemote {
		t.Errorf("Provenance = %q, want %q", set.Provenance, ProvenanceRemote)
	}
	if set.Fajr != "04:35" || set.Isha != "19:08" || set.Midnight != "23:58" {
		t.Errorf("unexpected set: %+v", set)
	}
}

func TestFromTimings_TimezoneSuffix(t *testing.T) {
	timings := sampleTimings()
	timings.Fajr = "04:35 (WIB)"
	timings.Isha = "19:08 (WIB)"

	set, err := FromTimings(timings, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Fajr != "04:35" || set.Isha != "19:08" {
		t.Errorf("suffix not stripped: Fajr=%q Isha=%q", set.Fajr, set.Isha)
	}
}

func TestFromTimings_MissingOptionalFields(t *testing.T) {
	timings := sampleTimings()
	timings.Sunset = ""
	timings.Midnight = ""

	set, err := FromTimings(timings, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Sunset != set.Maghrib {
		t.Errorf("Sunset = %q, want Maghrib %q", set.Sunset, set.Maghrib)
	}
	if set.Midnight != "00:00" {
		t.Errorf("Midnight = %q, want 00:00", set.Midnight)
	}
}

func TestFromTimings_RejectsGarbage(t *testing.T) {
	for _, raw := range []string{"soon", "15:02xyz", "3:5"} {
		timings := sampleTimings()
		timings.Asr = raw

		if _, err := FromTimings(timings, time.Now()); err == nil {
			t.Errorf("expected error for Asr %q, got nil", raw)
		}
	}
}

// ---------------------------------------------------------------------------
// Names
// ---------------------------------------------------------------------------

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want Name
	}{
		{"Fajr", Fajr},
		{"fajr", Fajr},
		{"Subuh", Fajr},
		{"isya", Isha},
		{" Dzuhur ", Dhuhr},
		{"tengah malam", Midnight},
	}
	for _, tt := range tests {
		got, err := ParseName(tt.in)
		if err != nil {
			t.Errorf("ParseName(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParseName("Tahajjud"); err == nil {
		t.Error("ParseName(Tahajjud) expected error")
	}
}

func TestNameTables_Complete(t *testing.T) {
	for _, name := range AllNames {
		if _, ok := Localized[name]; !ok {
			t.Errorf("Localized missing entry for %q", name)
		}
		if _, ok := ShortNames[name]; !ok {
			t.Errorf("ShortNames missing entry for %q", name)
		}
	}
}

func TestTimeSet_Validate(t *testing.T) {
	set := Calculate(-6.1751, 106.8650, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	if err := set.Validate(); err != nil {
		t.Fatalf("calculated set should validate: %v", err)
	}

	broken := set
	broken.Asr = "3:05"
	if err := broken.Validate(); err == nil {
		t.Error("expected error for unpadded hour")
	}

	broken = set
	broken.Isha = ""
	if err := broken.Validate(); err == nil {
		t.Error("expected error for empty Isha")
	}
}
