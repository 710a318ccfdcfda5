package prayer

import (
	"fmt"
	"math"
	"time"
)

// Baseline clock times (decimal hours) at the equator on an equinox.
const (
	baseFajr    = 5.0
	baseDhuhr   = 12.0
	baseAsr     = 15.25
	baseMaghrib = 18.0
	baseIsha    = 19.5

	// seasonalAmplitude is the swing, in hours, applied at the poles.
	seasonalAmplitude = 3.0

	sunriseAfterFajr     = 1.5
	sunsetBeforeMaghrib  = 0.5
	meridianWidthDegrees = 15.0
)

// Calculate estimates the day's schedule from coordinates and date.
//
// It is a seasonal heuristic, not a solar-position model: a sine over the day
// of year, scaled by distance from the equator, widens or narrows the gap
// between Fajr and Maghrib/Isha, and the offset from the nearest 15° meridian
// shifts every time uniformly. The result is deterministic and tagged
// calculated.
func Calculate(lat, lon float64, date time.Time) TimeSet {
	seasonal := math.Sin(2*math.Pi*float64(date.YearDay())/365 - math.Pi/2)
	if lat < 0 {
		seasonal = -seasonal
	}
	adjustment := seasonal * (math.Abs(lat) / 90) * seasonalAmplitude
	lonCorrection := floorMod(lon, meridianWidthDegrees) / meridianWidthDegrees

	return newSet(date, ProvenanceCalculated,
		baseFajr-adjustment/2+lonCorrection,
		baseDhuhr+lonCorrection,
		baseAsr+lonCorrection,
		baseMaghrib+adjustment/2+lonCorrection,
		baseIsha+adjustment/2+lonCorrection,
	)
}

// newSet formats the five core times and derives the auxiliary entries.
func newSet(date time.Time, p Provenance, fajr, dhuhr, asr, maghrib, isha float64) TimeSet {
	return TimeSet{
		Date:       date,
		Provenance: p,
		Fajr:       formatHours(fajr),
		Sunrise:    formatHours(fajr + sunriseAfterFajr),
		Dhuhr:      formatHours(dhuhr),
		Asr:        formatHours(asr),
		Sunset:     formatHours(maghrib - sunsetBeforeMaghrib),
		Maghrib:    formatHours(maghrib),
		Isha:       formatHours(isha),
		Midnight:   "00:00",
	}
}

// formatHours wraps h into [0,24) and renders it as HH:MM, rounded to the minute.
func formatHours(h float64) string {
	h = floorMod(h, 24)
	mins := int(math.Round(h*60)) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// floorMod is x mod m with the sign of m, so -5 mod 15 is 10.
func floorMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}
