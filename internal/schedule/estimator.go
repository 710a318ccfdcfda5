// Package schedule obtains a day's prayer times through the remote, calculated
// and offline tiers, and ties the result to a resolved location.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/api"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/cache"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/geo"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/prayer"
)

const (
	DefaultAttempts   = 3
	DefaultRetryDelay = 2 * time.Second
	DefaultMethod     = 11
)

// ErrRemoteFetch wraps the last error once every remote attempt has failed.
var ErrRemoteFetch = errors.New("remote prayer times unavailable")

// Disclaimers attached to degraded results.
const (
	DisclaimerCalculated = "Waktu sholat berdasarkan perhitungan lokal dan bersifat perkiraan. Selisih beberapa menit dari jadwal resmi mungkin terjadi."
	DisclaimerOffline    = "Menggunakan jadwal default offline (wilayah Jakarta). Waktu mungkin tidak akurat untuk lokasi Anda."
)

// RemoteDisclaimer names the calculation method the server used.
func RemoteDisclaimer(method int) string {
	return fmt.Sprintf("Jadwal dari server (metode %d).", method)
}

// Fetcher performs one remote request. Both api.Client and api.ProxyClient satisfy it.
type Fetcher interface {
	FetchTimings(ctx context.Context, date time.Time, lat, lon float64, method int) (*api.Response, error)
}

var (
	_ Fetcher = (*api.Client)(nil)
	_ Fetcher = (*api.ProxyClient)(nil)
)

// Result is a complete schedule plus how it was obtained.
type Result struct {
	Set        prayer.TimeSet `json:"times"`
	Disclaimer string         `json:"disclaimer"`
	// Attempts counts remote requests made; a cache hit makes none.
	Attempts  int    `json:"attempts"`
	RemoteErr error  `json:"-"`
	Timezone  string `json:"timezone,omitempty"`
	Hijri     string `json:"hijri,omitempty"`
}

// Estimator runs the three-tier cascade. The zero value skips the remote tier.
type Estimator struct {
	Fetcher Fetcher
	Cache   cache.Store
	Method  int

	Attempts   int
	RetryDelay time.Duration
}

// NewEstimator returns an estimator with the default retry policy and method.
func NewEstimator(f Fetcher, c cache.Store) *Estimator {
	return &Estimator{
		Fetcher:    f,
		Cache:      c,
		Method:     DefaultMethod,
		Attempts:   DefaultAttempts,
		RetryDelay: DefaultRetryDelay,
	}
}

// Estimate always returns a complete set.
func (e *Estimator) Estimate(ctx context.Context, date time.Time, c geo.Coordinate) Result {
	log := zerolog.Ctx(ctx)

	res, err := e.remote(ctx, date, c)
	if err == nil {
		log.Debug().Str("tier", string(prayer.ProvenanceRemote)).Int("attempts", res.Attempts).Msg("prayer times ready")
		return res
	}
	if e.Fetcher != nil {
		log.Warn().Err(err).Int("attempts", res.Attempts).Msg("remote prayer times failed, calculating locally")
	}

	set, cerr := calculate(c, date)
	if cerr == nil {
		log.Debug().Str("tier", string(prayer.ProvenanceCalculated)).Msg("prayer times ready")
		return Result{Set: set, Disclaimer: DisclaimerCalculated, Attempts: res.Attempts, RemoteErr: err}
	}
	log.Warn().Err(cerr).Msg("local calculation failed, using offline table")

	return Result{
		Set:        prayer.OfflineDefault(date),
		Disclaimer: DisclaimerOffline,
		Attempts:   res.Attempts,
		RemoteErr:  err,
	}
}

// remote consults the cache, then makes up to Attempts sequential requests.
func (e *Estimator) remote(ctx context.Context, date time.Time, c geo.Coordinate) (Result, error) {
	if e.Fetcher == nil {
		return Result{}, fmt.Errorf("%w: no fetcher configured", ErrRemoteFetch)
	}
	log := zerolog.Ctx(ctx)
	key := cache.Key{Date: date, Latitude: c.Latitude, Longitude: c.Longitude, Method: e.Method}

	if e.Cache != nil {
		entry, err := e.Cache.Load(ctx, key)
		if err != nil {
			log.Debug().Err(err).Msg("cache lookup failed")
		}
		if entry != nil {
			if set, err := prayer.FromTimings(entry.Timings, date); err == nil {
				return Result{
					Set:        set,
					Disclaimer: RemoteDisclaimer(e.Method),
					Timezone:   entry.Meta.Timezone,
					Hijri:      entry.Day.Hijri.Format(),
				}, nil
			}
		}
	}

	attempts := e.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	n := 0
	for n < attempts {
		if n > 0 {
			log.Info().Err(lastErr).Int("attempt", n).Msgf("remote fetch failed, retrying in %s", e.RetryDelay)
			if err := sleep(ctx, e.RetryDelay); err != nil {
				lastErr = err
				break
			}
		}
		n++

		resp, err := e.Fetcher.FetchTimings(ctx, date, c.Latitude, c.Longitude, e.Method)
		if err != nil {
			lastErr = err
			continue
		}
		set, err := prayer.FromTimings(resp.Data.Timings, date)
		if err != nil {
			lastErr = err
			continue
		}

		if e.Cache != nil {
			if err := e.Cache.Save(ctx, key, resp); err != nil {
				log.Debug().Err(err).Msg("failed to cache prayer times")
			}
		}
		return Result{
			Set:        set,
			Disclaimer: RemoteDisclaimer(e.Method),
			Attempts:   n,
			Timezone:   resp.Data.Meta.Timezone,
			Hijri:      resp.Data.Date.Hijri.Format(),
		}, nil
	}

	return Result{Attempts: n}, fmt.Errorf("%w after %d attempts: %w", ErrRemoteFetch, n, lastErr)
}

func calculate(c geo.Coordinate, date time.Time) (prayer.TimeSet, error) {
	if !c.Valid() {
		return prayer.TimeSet{}, fmt.Errorf("invalid coordinate %s", c)
	}
	set := prayer.Calculate(c.Latitude, c.Longitude, date)
	if err := set.Validate(); err != nil {
		return prayer.TimeSet{}, err
	}
	return set, nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
