package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/config"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/logging"
)

// Global flags shared across all subcommands.
var (
	FlagLatitude   float64
	FlagLongitude  float64
	FlagMethod     int
	FlagJSON       bool
	FlagCacheDir   string
	FlagTimeFormat string
	FlagTimezone   string
	FlagProxyURL   string
	FlagNoLocation bool
	FlagLogLevel   string
)

// loadedConfig holds the config loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// NewRootCmd creates the root command for the jadwal-sholat CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jadwal-sholat",
		Short: "Perkiraan jadwal sholat",
		Long: "Estimate today's prayer times for your location.\n\n" +
			"Times come from the prayer-times server when reachable, otherwise from a\n" +
			"local estimate, and as a last resort from a built-in table.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg
			return attachLogger(cmd, cfg, zerolog.WarnLevel)
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude")
	pf.IntVar(&FlagMethod, "method", config.DefaultMethod, "Calculation method sent to the server (0-23)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/jadwal-sholat/)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagTimezone, "timezone", "", "IANA time zone for the schedule, e.g. Asia/Makassar")
	pf.StringVar(&FlagProxyURL, "proxy-url", "", "Prayer-times server base URL, e.g. http://localhost:8080/api")
	pf.BoolVar(&FlagNoLocation, "no-location", false, "Do not detect the current location (use Jakarta)")
	pf.StringVar(&FlagLogLevel, "log-level", "", "Log level: debug, info, warn or error")

	// Register subcommands.
	rootCmd.AddCommand(newTodayCmd())
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newWidgetCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newMethodsCmd())

	return rootCmd
}

// PrintVersion prints the version string in the expected format.
func PrintVersion(version string) string {
	return fmt.Sprintf("jadwal-sholat %s\n", version)
}

// attachLogger puts a zerolog logger on the command's context so every
// package below can reach it through zerolog.Ctx.
func attachLogger(cmd *cobra.Command, cfg *config.Config, def zerolog.Level) error {
	raw := cfg.LogLevel
	if flagWasSet(cmd.Flags(), cmd.Root().PersistentFlags(), "log-level") {
		raw = FlagLogLevel
	}
	level, err := logging.ParseLevel(raw, def)
	if err != nil {
		return err
	}
	logger := logging.ForTerminal(level)
	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
// Flag values get the same range checks as the config file.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := loadedConfig
	if cfg == nil {
		empty := config.Config{}
		cfg = &empty
	}

	defaults := config.Defaults()

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if flagWasSet(flags, root, "latitude") {
		cfg.Latitude = FlagLatitude
	}
	if flagWasSet(flags, root, "longitude") {
		cfg.Longitude = FlagLongitude
	}
	if flagWasSet(flags, root, "method") {
		cfg.Method = &FlagMethod
	} else if cfg.Method == nil {
		cfg.Method = defaults.Method
	}
	if flagWasSet(flags, root, "cache-dir") {
		cfg.CacheDir = FlagCacheDir
	}
	if flagWasSet(flags, root, "timezone") {
		cfg.Timezone = FlagTimezone
	}
	if flagWasSet(flags, root, "proxy-url") {
		cfg.ProxyURL = FlagProxyURL
	}
	if flagWasSet(flags, root, "no-location") && FlagNoLocation {
		cfg.Location = "deny"
	}

	// Time format: CLI flag > config > default ("24h").
	if flagWasSet(flags, root, "time-format") {
		cfg.TimeFormat = FlagTimeFormat
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}
