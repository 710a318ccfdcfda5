package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/display"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/prayer"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/schedule"
)

const noteWidth = 60

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's prayer times",
		Long:  "Show today's schedule, the next prayer with its countdown, and where the times came from.",
		Args:  cobra.NoArgs,
		RunE:  runToday,
	}
}

func runToday(cmd *cobra.Command, args []string) error {
	// Get merged config (CLI flags > config file > defaults).
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	names := displayNames(cfg, prayer.DefaultDisplayNames)

	snap := newService(cmd, cfg).Refresh(cmd.Context(), time.Now())

	// Re-anchor "now" to the schedule's timezone.
	now := time.Now().In(snap.Location())
	next := snap.Next(now)

	if FlagJSON {
		return printTodayJSON(cmd.OutOrStdout(), snap, next, now, names, twelveHour(cfg))
	}
	printTodayRich(cmd.OutOrStdout(), snap, next, now, names, twelveHour(cfg))
	return nil
}

// printTodayRich renders the colored terminal output for today's prayer schedule.
func printTodayRich(w io.Writer, snap schedule.Snapshot, next prayer.Next, now time.Time, names []prayer.Name, twelve bool) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Jadwal Sholat"))
	fmt.Fprintln(w)

	// Location and date info.
	fmt.Fprintf(w, "  %s\n", snap.Resolution.Label)
	if snap.Resolution.Fallback && snap.Resolution.Reason != "" {
		fmt.Fprintf(w, "  %s\n", display.Yellow(snap.Resolution.Reason))
	}
	fmt.Fprintf(w, "  %s\n", display.Gray(snap.Timezone))
	fmt.Fprintf(w, "  %s\n", formatGregorianDate(now))
	if snap.Result.Hijri != "" {
		fmt.Fprintf(w, "  %s\n", snap.Result.Hijri)
	}
	fmt.Fprintln(w)

	// Find the max prayer name length for alignment.
	maxNameLen := 0
	for _, n := range names {
		if l := len(prayer.Localized[n]); l > maxNameLen {
			maxNameLen = l
		}
	}

	current := now.Format("15:04")
	for _, n := range names {
		clock := snap.Result.Set.Get(n)
		if clock == "" {
			continue
		}
		line := fmt.Sprintf("  %s  %s", padRight(prayer.Localized[n], maxNameLen), prayer.DisplayClock(clock, twelve))

		switch {
		case n == next.Name:
			// Next prayer: accent color + countdown.
			suffix := "  <- berikutnya dalam " + prayer.FormatCountdown(next.SecondsRemaining)
			if next.Tomorrow {
				suffix += " (besok)"
			}
			fmt.Fprintln(w, display.Accent(line)+display.Accent(suffix))
		case clock <= current:
			// Passed: dimmed.
			fmt.Fprintln(w, display.Dim(line))
		default:
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w)

	if snap.Result.Disclaimer != "" {
		for _, l := range strings.Split(display.Note(snap.Result.Disclaimer, noteWidth), "\n") {
			fmt.Fprintf(w, "  %s\n", l)
		}
		fmt.Fprintln(w)
	}
}

// formatGregorianDate renders now as e.g. "Senin, 19 Oktober 2026".
func formatGregorianDate(now time.Time) string {
	return fmt.Sprintf("%s, %d %s %d", hari[now.Weekday()], now.Day(), bulan[now.Month()-1], now.Year())
}

var hari = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

var bulan = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// padRight pads a string to the given width with spaces.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location   todayJSONLocation `json:"location"`
	Date       todayJSONDate     `json:"date"`
	Provenance prayer.Provenance `json:"provenance"`
	Timings    map[string]string `json:"timings"`
	Next       todayJSONNext     `json:"next"`
	Disclaimer string            `json:"disclaimer"`
}

type todayJSONLocation struct {
	Label     string  `json:"label"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Fallback  bool    `json:"fallback"`
	Reason    string  `json:"reason,omitempty"`
}

type todayJSONDate struct {
	Gregorian string `json:"gregorian"`
	Hijri     string `json:"hijri,omitempty"`
}

type todayJSONNext struct {
	Prayer        string `json:"prayer"`
	LocalizedName string `json:"localized_name"`
	Time          string `json:"time"`
	Countdown     string `json:"countdown"`
	Tomorrow      bool   `json:"tomorrow"`
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(w io.Writer, snap schedule.Snapshot, next prayer.Next, now time.Time, names []prayer.Name, twelve bool) error {
	timings := make(map[string]string)
	for _, n := range names {
		if clock := snap.Result.Set.Get(n); clock != "" {
			timings[strings.ToLower(string(n))] = prayer.DisplayClock(clock, twelve)
		}
	}

	loc := snap.Resolution.Location
	out := todayJSON{
		Location: todayJSONLocation{
			Label:     snap.Resolution.Label,
			Timezone:  snap.Timezone,
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			Fallback:  snap.Resolution.Fallback,
			Reason:    snap.Resolution.Reason,
		},
		Date: todayJSONDate{
			Gregorian: now.Format("2006-01-02"),
			Hijri:     snap.Result.Hijri,
		},
		Provenance: snap.Result.Set.Provenance,
		Timings:    timings,
		Next: todayJSONNext{
			Prayer:        strings.ToLower(string(next.Name)),
			LocalizedName: next.LocalizedName,
			Time:          prayer.DisplayClock(next.Time, twelve),
			Countdown:     prayer.FormatCountdown(next.SecondsRemaining),
			Tomorrow:      next.Tomorrow,
		},
		Disclaimer: snap.Result.Disclaimer,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
