package prayer

import (
	"fmt"
	"time"
)

// Next describes the upcoming prayer relative to a moment.
type Next struct {
	Name             Name   `json:"name"`
	LocalizedName    string `json:"localized_name"`
	Time             string `json:"time"`
	SecondsRemaining int    `json:"seconds_remaining"`
	// Tomorrow is set when every prayer of the set has passed and Fajr wrapped.
	Tomorrow bool `json:"tomorrow"`
}

// SelectNext picks the first core prayer whose HH:MM is strictly after the
// wall-clock HH:MM of now. Zero-padded 24-hour strings compare correctly as
// strings. After Isha it wraps to the following day's Fajr.
func SelectNext(set TimeSet, now time.Time) Next {
	current := now.Format("15:04")
	for _, name := range CoreNames {
		if t := set.Get(name); t > current {
			return newNext(name, t, now, false)
		}
	}
	return newNext(Fajr, set.Fajr, now, true)
}

func newNext(name Name, clock string, now time.Time, tomorrow bool) Next {
	return Next{
		Name:             name,
		LocalizedName:    Localized[name],
		Time:             clock,
		SecondsRemaining: secondsUntil(clock, now),
		Tomorrow:         tomorrow,
	}
}

// secondsUntil builds today's datetime for clock and rolls it to tomorrow when
// it is not after now.
func secondsUntil(clock string, now time.Time) int {
	h, m, err := parseClock(clock)
	if err != nil {
		return 0
	}
	target := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return int(target.Sub(now) / time.Second)
}

// Remaining returns the countdown as a duration.
func (n Next) Remaining() time.Duration {
	return time.Duration(n.SecondsRemaining) * time.Second
}

// FormatCountdown renders seconds as zero-padded HH:MM:SS.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// FormatRemaining formats a duration as "Xj Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dj %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
