package prayer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/api"
)

// Name identifies a prayer or an informational solar event.
type Name string

const (
	Fajr     Name = "Fajr"
	Sunrise  Name = "Sunrise"
	Dhuhr    Name = "Dhuhr"
	Asr      Name = "Asr"
	Sunset   Name = "Sunset"
	Maghrib  Name = "Maghrib"
	Isha     Name = "Isha"
	Midnight Name = "Midnight"
)

// AllNames lists every entry of a TimeSet in display order.
var AllNames = []Name{Fajr, Sunrise, Dhuhr, Asr, Sunset, Maghrib, Isha, Midnight}

// CoreNames are the five obligatory prayers, the only candidates for "next".
var CoreNames = []Name{Fajr, Dhuhr, Asr, Maghrib, Isha}

// DefaultDisplayNames are shown by today/list unless the user picks others.
var DefaultDisplayNames = []Name{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// Localized maps names to the Indonesian labels shown to users.
var Localized = map[Name]string{
	Fajr:     "Subuh",
	Sunrise:  "Terbit",
	Dhuhr:    "Dzuhur",
	Asr:      "Ashar",
	Sunset:   "Terbenam",
	Maghrib:  "Maghrib",
	Isha:     "Isya",
	Midnight: "Tengah Malam",
}

// ShortNames maps names to the abbreviations used by compact formats.
var ShortNames = map[Name]string{
	Fajr:     "S",
	Sunrise:  "T",
	Dhuhr:    "D",
	Asr:      "A",
	Sunset:   "Tb",
	Maghrib:  "M",
	Isha:     "I",
	Midnight: "TM",
}

// ParseName accepts either the canonical or the Indonesian name, case-insensitively.
func ParseName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	for _, n := range AllNames {
		if strings.EqualFold(string(n), s) || strings.EqualFold(Localized[n], s) {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown prayer name %q", s)
}

// Provenance records which tier produced a TimeSet.
type Provenance string

const (
	ProvenanceRemote     Provenance = "remote"
	ProvenanceCalculated Provenance = "calculated"
	ProvenanceOffline    Provenance = "offline-default"
)

// TimeSet is one day's schedule. Every field is a zero-padded 24-hour HH:MM.
// A set is always replaced as a whole, never patched field by field.
type TimeSet struct {
	Date       time.Time  `json:"-"`
	Provenance Provenance `json:"provenance"`
	Fajr       string     `json:"fajr"`
	Sunrise    string     `json:"sunrise"`
	Dhuhr      string     `json:"dhuhr"`
	Asr        string     `json:"asr"`
	Sunset     string     `json:"sunset"`
	Maghrib    string     `json:"maghrib"`
	Isha       string     `json:"isha"`
	Midnight   string     `json:"midnight"`
}

// Get returns the clock time for name, or "" for an unknown name.
func (s TimeSet) Get(name Name) string {
	switch name {
	case Fajr:
		return s.Fajr
	case Sunrise:
		return s.Sunrise
	case Dhuhr:
		return s.Dhuhr
	case Asr:
		return s.Asr
	case Sunset:
		return s.Sunset
	case Maghrib:
		return s.Maghrib
	case Isha:
		return s.Isha
	case Midnight:
		return s.Midnight
	}
	return ""
}

// Validate checks that every entry is a well-formed HH:MM.
func (s TimeSet) Validate() error {
	for _, name := range AllNames {
		raw := s.Get(name)
		if len(raw) != 5 {
			return fmt.Errorf("%s: malformed time %q", name, raw)
		}
		if _, _, err := parseClock(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// FromTimings converts remote timings into a set tagged remote.
// Timezone suffixes such as "04:35 (WIB)" are stripped; anything that does not
// parse as a clock time rejects the whole response.
func FromTimings(t api.Timings, date time.Time) (TimeSet, error) {
	set := TimeSet{Date: date, Provenance: ProvenanceRemote}
	fields := []struct {
		name Name
		raw  string
		dst  *string
	}{
		{Fajr, t.Fajr, &set.Fajr},
		{Sunrise, t.Sunrise, &set.Sunrise},
		{Dhuhr, t.Dhuhr, &set.Dhuhr},
		{Asr, t.Asr, &set.Asr},
		{Sunset, t.Sunset, &set.Sunset},
		{Maghrib, t.Maghrib, &set.Maghrib},
		{Isha, t.Isha, &set.Isha},
		{Midnight, t.Midnight, &set.Midnight},
	}
	for _, f := range fields {
		// Sunset and Midnight are informational; the proxy may omit them.
		if f.raw == "" && (f.name == Sunset || f.name == Midnight) {
			continue
		}
		h, m, err := parseClock(f.raw)
		if err != nil {
			return TimeSet{}, fmt.Errorf("invalid %s time %q: %w", f.name, f.raw, err)
		}
		*f.dst = fmt.Sprintf("%02d:%02d", h, m)
	}
	if set.Sunset == "" {
		set.Sunset = set.Maghrib
	}
	if set.Midnight == "" {
		set.Midnight = "00:00"
	}
	return set, nil
}

// parseClock parses "15:02" or "15:02 (WIB)" into hour and minute. Both parts
// must be exactly two digits.
func parseClock(raw string) (int, int, error) {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, 0, fmt.Errorf("invalid time format: %q", raw)
	}

	hour, err := strconv.Atoi(hh)
	if err != nil || hh[0] == '+' || hh[0] == '-' {
		return 0, 0, fmt.Errorf("invalid hour in %q", raw)
	}
	min, err := strconv.Atoi(mm)
	if err != nil || mm[0] == '+' || mm[0] == '-' {
		return 0, 0, fmt.Errorf("invalid minute in %q", raw)
	}
	if hour > 23 || min > 59 {
		return 0, 0, fmt.Errorf("time out of range: %q", raw)
	}

	return hour, min, nil
}
