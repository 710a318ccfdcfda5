package cli

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/api"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/cache"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/config"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/geo"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/prayer"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/schedule"
)

// retryDelay is the pause between remote attempts; tests shorten it.
var retryDelay = schedule.DefaultRetryDelay

// newService wires resolver and estimator from the merged config. The file
// cache is optional: when it cannot be created the chain runs without it.
func newService(cmd *cobra.Command, cfg *config.Config) *schedule.Service {
	log := zerolog.Ctx(cmd.Context())

	var (
		fixes   geo.FixStore
		timings cache.Store
	)
	if store, err := cache.New(cfg.CacheDir); err != nil {
		log.Warn().Err(err).Msg("cache disabled")
	} else {
		fixes, timings = store, store
	}

	var fetcher schedule.Fetcher = api.NewClient()
	if cfg.ProxyURL != "" {
		fetcher = api.NewProxyClient(cfg.ProxyURL)
	}

	resolver := geo.NewResolver(fixes)
	resolver.Denied = cfg.LocationDenied()
	if cfg.HasCoordinate() {
		resolver.Explicit = &geo.Coordinate{Latitude: cfg.Latitude, Longitude: cfg.Longitude}
	}

	est := schedule.NewEstimator(fetcher, timings)
	est.Method = cfg.MethodOrDefault(config.DefaultMethod)
	est.RetryDelay = retryDelay

	return &schedule.Service{Resolver: resolver, Estimator: est, Timezone: cfg.Timezone}
}

// displayNames returns the configured prayers or def.
func displayNames(cfg *config.Config, def []prayer.Name) []prayer.Name {
	names, err := cfg.PrayerNames(def)
	if err != nil {
		return def
	}
	return names
}

func twelveHour(cfg *config.Config) bool {
	return cfg.TimeFormat == "12h"
}

const dayLayout = "2006-01-02"

// today returns the current date in the schedule's zone once known, else local.
func today(tz string) time.Time {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return time.Now().In(loc)
		}
	}
	return time.Now()
}
