package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/geo"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/prayer"
)

// Resolver supplies the location for a refresh. *geo.Resolver satisfies it.
type Resolver interface {
	Resolve(ctx context.Context) geo.Resolution
}

var _ Resolver = (*geo.Resolver)(nil)

// Snapshot is the output of one refresh chain.
type Snapshot struct {
	ID          string         `json:"id"`
	Resolution  geo.Resolution `json:"location"`
	Result      Result         `json:"schedule"`
	Timezone    string         `json:"timezone"`
	RefreshedAt time.Time      `json:"refreshed_at"`

	loc *time.Location
}

// Location returns the time zone the schedule's clock times are expressed in.
func (s Snapshot) Location() *time.Location {
	if s.loc == nil {
		return time.Local
	}
	return s.loc
}

// Next selects the upcoming prayer for now, read in the schedule's time zone.
func (s Snapshot) Next(now time.Time) prayer.Next {
	return prayer.SelectNext(s.Result.Set, now.In(s.Location()))
}

// Service runs refresh chains: resolve, estimate, snapshot.
type Service struct {
	Resolver  Resolver
	Estimator *Estimator
	// Timezone overrides whatever the location or server reports.
	Timezone string
}

// Refresh runs one independent chain for the day now falls on in the
// schedule's time zone. Concurrent calls do not share state.
func (s *Service) Refresh(ctx context.Context, now time.Time) Snapshot {
	id, logger := s.chain(ctx)
	ctx = logger.WithContext(ctx)

	res := s.Resolver.Resolve(ctx)
	_, dayLoc := pickTimezone(s.Timezone, res.Location.Timezone)
	date := now.In(dayLoc)
	result := s.Estimator.Estimate(ctx, date, res.Location.Coordinate())

	// The server may report a zone the location did not carry.
	name, loc := pickTimezone(s.Timezone, result.Timezone, res.Location.Timezone)
	if local := now.In(loc); !sameDay(date, local) {
		logger.Debug().Str("timezone", name).Msg("schedule zone is on another day, estimating again")
		date = local
		result = s.Estimator.Estimate(ctx, date, res.Location.Coordinate())
	}
	return s.snapshot(logger, id, res, result, name, loc)
}

// RefreshDate runs one chain for an explicit calendar date.
func (s *Service) RefreshDate(ctx context.Context, date time.Time) Snapshot {
	id, logger := s.chain(ctx)
	ctx = logger.WithContext(ctx)

	res := s.Resolver.Resolve(ctx)
	result := s.Estimator.Estimate(ctx, date, res.Location.Coordinate())
	name, loc := pickTimezone(s.Timezone, result.Timezone, res.Location.Timezone)
	return s.snapshot(logger, id, res, result, name, loc)
}

func (s *Service) chain(ctx context.Context) (string, zerolog.Logger) {
	id := uuid.NewString()
	return id, zerolog.Ctx(ctx).With().Str("chain", id).Logger()
}

func (s *Service) snapshot(logger zerolog.Logger, id string, res geo.Resolution, result Result, name string, loc *time.Location) Snapshot {
	logger.Debug().
		Str("tier", string(result.Set.Provenance)).
		Str("label", res.Label).
		Bool("fallback", res.Fallback).
		Str("timezone", name).
		Msg("refresh complete")

	return Snapshot{
		ID:          id,
		Resolution:  res,
		Result:      result,
		Timezone:    name,
		RefreshedAt: time.Now(),
		loc:         loc,
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// pickTimezone returns the first candidate that loads, else the local zone.
func pickTimezone(candidates ...string) (string, *time.Location) {
	for _, name := range candidates {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return name, loc
		}
	}
	return time.Local.String(), time.Local
}
