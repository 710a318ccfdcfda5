package geo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
)

// Failure classes for position lookup. Resolve never returns these; it records
// them on the Resolution and falls back to Jakarta.
var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("location request timed out")
	ErrUnsupported         = errors.New("geolocation unsupported")
)

const (
	DefaultMaxAge  = 5 * time.Minute
	DefaultTimeout = 10 * time.Second
)

// Reasons shown to the user when the fallback location is used.
var reasons = map[error]string{
	ErrPermissionDenied:    "Izin lokasi ditolak. Menggunakan lokasi default Jakarta.",
	ErrPositionUnavailable: "Lokasi tidak tersedia. Menggunakan lokasi default Jakarta.",
	ErrTimeout:             "Permintaan lokasi melebihi batas waktu. Menggunakan lokasi default Jakarta.",
	ErrUnsupported:         "Perangkat tidak mendukung geolokasi. Menggunakan lokasi default Jakarta.",
}

// Reason returns the Indonesian explanation for a failure class, or "" if err
// is not one of them.
func Reason(err error) string {
	for class, text := range reasons {
		if errors.Is(err, class) {
			return text
		}
	}
	return ""
}

// Source records where a resolved location came from.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceCache    Source = "cache"
	SourceDetected Source = "detected"
	SourceFallback Source = "fallback"
)

// Detector finds the current position.
type Detector interface {
	Detect(ctx context.Context) (*Location, error)
}

// Labeler produces a display name for a coordinate.
type Labeler interface {
	Label(ctx context.Context, c Coordinate) (string, error)
}

// FixStore caches the last detected position.
type FixStore interface {
	LoadGeo(maxAge time.Duration) *Location
	SaveGeo(loc *Location) error
}

// Resolution is the outcome of one Resolve call.
type Resolution struct {
	Location Location `json:"location"`
	Label    string   `json:"label"`
	Source   Source   `json:"source"`
	Fallback bool     `json:"fallback"`
	Reason   string   `json:"reason,omitempty"`
	Err      error    `json:"-"`
}

// Resolver picks a coordinate: explicit, then a recent cached fix, then detection.
// Any detection failure yields the Jakarta fallback.
type Resolver struct {
	// Explicit, when set, short-circuits detection.
	Explicit *Coordinate
	// Denied mirrors a user refusing the location permission.
	Denied bool

	Detector Detector
	Labeler  Labeler
	Store    FixStore

	MaxAge  time.Duration
	Timeout time.Duration
}

// NewResolver returns a resolver backed by IP detection and Nominatim labels.
func NewResolver(store FixStore) *Resolver {
	return &Resolver{
		Detector: NewIPDetector(),
		Labeler:  NewReverseGeocoder(),
		Store:    store,
		MaxAge:   DefaultMaxAge,
		Timeout:  DefaultTimeout,
	}
}

// Resolve always returns a usable location.
func (r *Resolver) Resolve(ctx context.Context) Resolution {
	log := zerolog.Ctx(ctx)

	if r.Explicit != nil {
		loc := Location{Latitude: r.Explicit.Latitude, Longitude: r.Explicit.Longitude}
		return Resolution{Location: loc, Label: r.label(ctx, loc), Source: SourceExplicit}
	}

	loc, source, err := r.locate(ctx)
	if err != nil {
		res := Resolution{
			Location: FallbackLocation,
			Label:    FallbackLabel,
			Source:   SourceFallback,
			Fallback: true,
			Reason:   Reason(err),
			Err:      err,
		}
		log.Warn().Err(err).Str("reason", res.Reason).Msg("using fallback location")
		return res
	}

	if source == SourceDetected && r.Store != nil {
		if err := r.Store.SaveGeo(loc); err != nil {
			log.Debug().Err(err).Msg("failed to cache location")
		}
	}

	return Resolution{Location: *loc, Label: r.label(ctx, *loc), Source: source}
}

func (r *Resolver) cached() *Location {
	if r.Store == nil {
		return nil
	}
	maxAge := r.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return r.Store.LoadGeo(maxAge)
}

// locate returns a cached or freshly detected location, or a classified error.
func (r *Resolver) locate(ctx context.Context) (*Location, Source, error) {
	if r.Denied {
		return nil, SourceFallback, ErrPermissionDenied
	}
	if loc := r.cached(); loc != nil {
		return loc, SourceCache, nil
	}
	if r.Detector == nil {
		return nil, SourceFallback, ErrUnsupported
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	loc, err := r.Detector.Detect(dctx)
	if err != nil {
		if isTimeout(err) || errors.Is(dctx.Err(), context.DeadlineExceeded) {
			return nil, SourceFallback, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, SourceFallback, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	return loc, SourceDetected, nil
}

func (r *Resolver) label(ctx context.Context, loc Location) string {
	if r.Labeler == nil {
		return genericLabel(loc)
	}
	label, err := r.Labeler.Label(ctx, loc.Coordinate())
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("reverse geocode failed")
		return genericLabel(loc)
	}
	return label
}

func genericLabel(loc Location) string {
	country := loc.Country
	if country == "" {
		country = GenericCountry
	}
	return GenericLabel + ", " + country
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
