package prayer

import "time"

// offlineQuarter holds rough Jakarta-area times in minutes after midnight.
type offlineQuarter struct {
	fajr, dhuhr, asr, maghrib, isha int
}

// offlineTable is indexed by quarter: Jan–Mar, Apr–Jun, Jul–Sep, Oct–Dec.
var offlineTable = [4]offlineQuarter{
	{fajr: 4*60 + 30, dhuhr: 12*60 + 5, asr: 15*60 + 25, maghrib: 18*60 + 15, isha: 19*60 + 30},
	{fajr: 4*60 + 35, dhuhr: 11*60 + 55, asr: 15*60 + 15, maghrib: 17*60 + 50, isha: 19 * 60},
	{fajr: 4*60 + 40, dhuhr: 11*60 + 58, asr: 15*60 + 20, maghrib: 17*60 + 55, isha: 19*60 + 5},
	{fajr: 4*60 + 15, dhuhr: 11*60 + 45, asr: 15*60 + 5, maghrib: 17*60 + 55, isha: 19*60 + 5},
}

// OfflineDefault returns the static schedule for the quarter containing date.
// Coordinates play no part; this is the last tier when nothing else works.
func OfflineDefault(date time.Time) TimeSet {
	q := offlineTable[(int(date.Month())-1)/3]
	return newSet(date, ProvenanceOffline,
		minutesToHours(q.fajr),
		minutesToHours(q.dhuhr),
		minutesToHours(q.asr),
		minutesToHours(q.maghrib),
		minutesToHours(q.isha),
	)
}

func minutesToHours(m int) float64 {
	return float64(m) / 60
}
