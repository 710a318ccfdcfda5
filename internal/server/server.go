// Package server exposes the same-origin prayer-times proxy and a full
// estimate endpoint over HTTP.
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/api"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/cache"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/geo"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/prayer"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/schedule"
)

// Error is returned by handlers and rendered as an Al Adhan style envelope.
type Error struct {
	Code    int
	Message string
}

// HandlerFunc returns a body to send with 200, or an Error.
type HandlerFunc func(c *gin.Context) (any, *Error)

// ResolveEndpoint adapts a HandlerFunc to gin.
func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := h(c)
		if err != nil {
			c.JSON(err.Code, gin.H{
				"code":   err.Code,
				"status": http.StatusText(err.Code),
				"data":   err.Message,
			})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// Pinger reports cache health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the handlers' dependencies.
type Server struct {
	Upstream  schedule.Fetcher
	Cache     cache.Store
	Estimator *schedule.Estimator
	Logger    zerolog.Logger
	Now       func() time.Time
}

// New wires a server whose estimate endpoint shares the proxy's upstream and cache.
func New(upstream schedule.Fetcher, store cache.Store, logger zerolog.Logger) *Server {
	return &Server{
		Upstream:  upstream,
		Cache:     store,
		Estimator: schedule.NewEstimator(upstream, store),
		Logger:    logger,
		Now:       time.Now,
	}
}

// Router builds the gin engine with CORS and request logging.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.Logger))
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods:    []string{"GET", "OPTIONS", "HEAD"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	grp := r.Group("/api")
	grp.GET("/prayer-times", ResolveEndpoint(s.prayerTimes))
	grp.GET("/prayer-times/estimate", ResolveEndpoint(s.estimate))
	grp.GET("/healthz", ResolveEndpoint(s.health))
	return r
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type query struct {
	date    time.Time
	coord   geo.Coordinate
	method  int
	hasLoc  bool
	hasDate bool
}

// parseQuery reads date (D-M-YYYY, default today), latitude, longitude and method.
func (s *Server) parseQuery(c *gin.Context, requireCoord bool) (query, *Error) {
	q := query{date: s.Now(), method: schedule.DefaultMethod}

	if raw := c.Query("date"); raw != "" {
		d, err := api.ParseProxyDate(raw)
		if err != nil {
			return q, &Error{http.StatusBadRequest, err.Error()}
		}
		q.date = d
		q.hasDate = true
	}

	latRaw, lonRaw := c.Query("latitude"), c.Query("longitude")
	switch {
	case latRaw == "" && lonRaw == "":
		if requireCoord {
			return q, &Error{http.StatusBadRequest, "latitude and longitude are required"}
		}
	case latRaw == "" || lonRaw == "":
		return q, &Error{http.StatusBadRequest, "latitude and longitude must be given together"}
	default:
		lat, err1 := strconv.ParseFloat(latRaw, 64)
		lon, err2 := strconv.ParseFloat(lonRaw, 64)
		q.coord = geo.Coordinate{Latitude: lat, Longitude: lon}
		if err1 != nil || err2 != nil || !q.coord.Valid() {
			return q, &Error{http.StatusBadRequest, "invalid latitude or longitude"}
		}
		q.hasLoc = true
	}

	if raw := c.Query("method"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 0 || m > 23 {
			return q, &Error{http.StatusBadRequest, "invalid method"}
		}
		q.method = m
	}
	return q, nil
}

// prayerTimes proxies one day's timings, serving from the cache when possible.
func (s *Server) prayerTimes(c *gin.Context) (any, *Error) {
	q, qerr := s.parseQuery(c, true)
	if qerr != nil {
		return nil, qerr
	}
	ctx := c.Request.Context()
	log := zerolog.Ctx(ctx)
	key := cache.Key{Date: q.date, Latitude: q.coord.Latitude, Longitude: q.coord.Longitude, Method: q.method}

	if s.Cache != nil {
		entry, err := s.Cache.Load(ctx, key)
		if err != nil {
			log.Warn().Err(err).Msg("cache lookup failed")
		}
		if entry != nil {
			c.Header("X-Cache", "HIT")
			return entry.Response(), nil
		}
	}

	resp, err := s.Upstream.FetchTimings(ctx, q.date, q.coord.Latitude, q.coord.Longitude, q.method)
	if err != nil {
		log.Error().Err(err).Msg("upstream fetch failed")
		return nil, &Error{http.StatusBadGateway, "upstream prayer times unavailable"}
	}

	if s.Cache != nil {
		if err := s.Cache.Save(ctx, key, resp); err != nil {
			log.Warn().Err(err).Msg("cache save failed")
		}
	}
	c.Header("X-Cache", "MISS")
	return resp, nil
}

// EstimateResponse is the body of GET /api/prayer-times/estimate.
type EstimateResponse struct {
	Location geo.Resolution  `json:"location"`
	Schedule schedule.Result `json:"schedule"`
	Next     prayer.Next     `json:"next"`
	Timezone string          `json:"timezone"`
}

// estimate runs the full cascade; it never fails for a well-formed request.
func (s *Server) estimate(c *gin.Context) (any, *Error) {
	q, qerr := s.parseQuery(c, false)
	if qerr != nil {
		return nil, qerr
	}

	// The server cannot see the caller's position, so an omitted coordinate
	// resolves to the fallback.
	resolver := &geo.Resolver{}
	if q.hasLoc {
		resolver.Explicit = &q.coord
	}

	est := *s.Estimator
	est.Method = q.method
	svc := &schedule.Service{Resolver: resolver, Estimator: &est, Timezone: c.Query("timezone")}

	var snap schedule.Snapshot
	if q.hasDate {
		snap = svc.RefreshDate(c.Request.Context(), q.date)
	} else {
		snap = svc.Refresh(c.Request.Context(), q.date)
	}
	return EstimateResponse{
		Location: snap.Resolution,
		Schedule: snap.Result,
		Next:     snap.Next(s.Now()),
		Timezone: snap.Timezone,
	}, nil
}

func (s *Server) health(c *gin.Context) (any, *Error) {
	status := gin.H{"status": "ok", "cache": "disabled"}
	if p, ok := s.Cache.(Pinger); ok {
		if err := p.Ping(c.Request.Context()); err != nil {
			return nil, &Error{http.StatusServiceUnavailable, "cache unreachable: " + err.Error()}
		}
		status["cache"] = "ok"
	} else if s.Cache != nil {
		status["cache"] = "ok"
	}
	return status, nil
}
