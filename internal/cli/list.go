package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/display"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/geo"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/prayer"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/schedule"
)

const maxListDays = 366

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show calculated prayer times for multiple days",
		Long:  "Display a grid of locally calculated prayer times for N days (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show calculated prayer times for the next 7 days",
		Long:  "Alias for 'list 7'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show calculated prayer times for the next 30 days",
		Long:  "Alias for 'list 30'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// dayRow is one calculated day.
type dayRow struct {
	Date time.Time
	Set  prayer.TimeSet
}

// runList is the handler for the list subcommand. Future days are never
// fetched; every row comes from the local calculator.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	days := defaultDays
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > maxListDays {
			return fmt.Errorf("invalid number of days: %q (must be between 1 and %d)", args[0], maxListDays)
		}
		days = n
	}

	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	names := displayNames(cfg, prayer.DefaultDisplayNames)

	res := newService(cmd, cfg).Resolver.Resolve(cmd.Context())
	tz := cfg.Timezone
	if tz == "" {
		tz = res.Location.Timezone
	}
	start := today(tz)
	rows := calculateDays(res.Location.Coordinate(), start, days)

	if FlagJSON {
		return printListJSON(cmd.OutOrStdout(), res, rows, names, twelveHour(cfg))
	}
	printListRich(cmd.OutOrStdout(), res, rows, names, twelveHour(cfg))
	return nil
}

func calculateDays(c geo.Coordinate, start time.Time, days int) []dayRow {
	rows := make([]dayRow, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		rows = append(rows, dayRow{Date: d, Set: prayer.Calculate(c.Latitude, c.Longitude, d)})
	}
	return rows
}

func printListRich(w io.Writer, res geo.Resolution, rows []dayRow, names []prayer.Name, twelve bool) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(fmt.Sprintf("Jadwal Sholat, %d Hari", len(rows))))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", res.Label)
	if res.Fallback && res.Reason != "" {
		fmt.Fprintf(w, "  %s\n", display.Yellow(res.Reason))
	}
	fmt.Fprintln(w)

	headers := []string{"Tanggal"}
	for _, n := range names {
		headers = append(headers, prayer.Localized[n])
	}
	tbl := display.NewTable(headers)

	for i, r := range rows {
		row := []string{fmt.Sprintf("%s %02d/%02d", hari[r.Date.Weekday()][:3], r.Date.Day(), int(r.Date.Month()))}
		for _, n := range names {
			row = append(row, prayer.DisplayClock(r.Set.Get(n), twelve))
		}
		tbl.AddRow(row)
		if i == 0 {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	for _, l := range strings.Split(display.Note(schedule.DisclaimerCalculated, noteWidth), "\n") {
		fmt.Fprintf(w, "  %s\n", l)
	}
	fmt.Fprintln(w)
}

// listJSONOutput is the JSON structure for the list command.
type listJSONOutput struct {
	Location   listJSONLocation `json:"location"`
	Days       []listJSONDay    `json:"days"`
	Disclaimer string           `json:"disclaimer"`
}

type listJSONLocation struct {
	Label     string  `json:"label"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Fallback  bool    `json:"fallback"`
}

type listJSONDay struct {
	Date    string            `json:"date"`
	Timings map[string]string `json:"timings"`
}

func printListJSON(w io.Writer, res geo.Resolution, rows []dayRow, names []prayer.Name, twelve bool) error {
	out := listJSONOutput{
		Location: listJSONLocation{
			Label:     res.Label,
			Latitude:  res.Location.Latitude,
			Longitude: res.Location.Longitude,
			Fallback:  res.Fallback,
		},
		Disclaimer: schedule.DisclaimerCalculated,
	}

	for _, r := range rows {
		timings := make(map[string]string)
		for _, n := range names {
			timings[strings.ToLower(string(n))] = prayer.DisplayClock(r.Set.Get(n), twelve)
		}
		out.Days = append(out.Days, listJSONDay{
			Date:    r.Date.Format("2006-01-02"),
			Timings: timings,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
