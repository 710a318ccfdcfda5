package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Format constants for display modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name          string // Canonical name, e.g. "Asr"
	LocalizedName string // Indonesian name, e.g. "Ashar"
	ShortName     string // Abbreviation, e.g. "A"
	Time          string // Clock time, e.g. "15:02" or "3:02 PM"
	Countdown     string // HH:MM:SS until the prayer
	Remaining     string // Compact remaining time, e.g. "2j 15m"
	Hours         int
	Minutes       int
	Seconds       int
}

// FormatOutput renders next according to mode. twelveHour switches the clock
// to "3:04 PM".
//
// A mode containing "{{" is a Go template over FormatData, e.g.
// "{{.LocalizedName}} {{.Countdown}}" -> "Ashar 02:15:00".
func FormatOutput(next Next, mode string, twelveHour bool) string {
	d := next.Remaining()
	countdown := FormatCountdown(next.SecondsRemaining)
	timeStr := DisplayClock(next.Time, twelveHour)
	name := next.LocalizedName
	short := ShortNames[next.Name]

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			Name:          string(next.Name),
			LocalizedName: name,
			ShortName:     short,
			Time:          timeStr,
			Countdown:     countdown,
			Remaining:     FormatRemaining(d),
			Hours:         int(d.Hours()),
			Minutes:       int(d.Minutes()) % 60,
			Seconds:       next.SecondsRemaining % 60,
		})
	}

	switch mode {
	case FormatTimeRemaining:
		return countdown
	case FormatNextPrayerTime:
		return timeStr
	case FormatNameAndTime:
		return fmt.Sprintf("%s %s", name, timeStr)
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", name, countdown)
	case FormatShortNameAndTime:
		return fmt.Sprintf("%s %s", short, timeStr)
	case FormatShortNameAndRemain:
		return fmt.Sprintf("%s %s", short, countdown)
	case FormatFull:
		return fmt.Sprintf("%s %s (-%s)", name, timeStr, countdown)
	default:
		return fmt.Sprintf("%s %s", name, timeStr)
	}
}

// DisplayClock converts a 24-hour HH:MM to 12-hour form when asked.
func DisplayClock(clock string, twelveHour bool) string {
	if !twelveHour {
		return clock
	}
	h, m, err := parseClock(clock)
	if err != nil {
		return clock
	}
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, period)
}

// formatCustom executes a user-provided Go template string against the FormatData.
func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}
