package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/api"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/geo"
)

const (
	timingsCacheFile = "timings_%s.json" // keyed by hash
	geoCacheFile     = "geolocation.json"
)

// Key identifies one day's remote timings.
type Key struct {
	Date      time.Time
	Latitude  float64
	Longitude float64
	Method    int
}

// Day returns the key's date as YYYY-MM-DD.
func (k Key) Day() string {
	return k.Date.Format("2006-01-02")
}

// Hash builds a deterministic identifier from the parameters that affect prayer times.
func (k Key) Hash() string {
	raw := fmt.Sprintf("%s|%.6f|%.6f|%d", k.Day(), k.Latitude, k.Longitude, k.Method)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8])
}

// Entry stores a day's remote timings along with metadata for validation.
type Entry struct {
	Date    string       `json:"date"` // YYYY-MM-DD
	Method  int          `json:"method"`
	Timings api.Timings  `json:"timings"`
	Meta    api.Meta     `json:"meta"`
	Day     api.DateInfo `json:"day"`
}

// Response rebuilds the success envelope the entry was saved from.
func (e *Entry) Response() *api.Response {
	return &api.Response{
		Code:   200,
		Status: "OK",
		Data:   api.Data{Timings: e.Timings, Date: e.Day, Meta: e.Meta},
	}
}

// NewEntry captures resp under k.
func NewEntry(k Key, resp *api.Response) Entry {
	return Entry{
		Date:    k.Day(),
		Method:  k.Method,
		Timings: resp.Data.Timings,
		Meta:    resp.Data.Meta,
		Day:     resp.Data.Date,
	}
}

// Store caches remote timings. A miss is (nil, nil).
type Store interface {
	Load(ctx context.Context, k Key) (*Entry, error)
	Save(ctx context.Context, k Key, resp *api.Response) error
}

var (
	_ Store        = (*FileStore)(nil)
	_ Store        = (*RedisStore)(nil)
	_ geo.FixStore = (*FileStore)(nil)
)

// FileStore keeps cache entries as JSON files in one directory.
type FileStore struct {
	dir string
}

// New creates a FileStore rooted at the given directory.
// If dir is empty, it defaults to ~/.cache/jadwal-sholat/.
func New(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".cache", "jadwal-sholat")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &FileStore{dir: dir}, nil
}

// Dir returns the directory entries are written to.
func (c *FileStore) Dir() string {
	return c.dir
}

func (c *FileStore) timingsPath(k Key) string {
	return filepath.Join(c.dir, fmt.Sprintf(timingsCacheFile, k.Hash()))
}

// Load reads cached timings for k. Missing, unreadable and stale files are misses.
func (c *FileStore) Load(_ context.Context, k Key) (*Entry, error) {
	data, err := os.ReadFile(c.timingsPath(k))
	if err != nil {
		return nil, nil
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, nil
	}

	// A file left over from another day is useless.
	if entry.Date != k.Day() {
		return nil, nil
	}

	return &entry, nil
}

// Save writes timings for k.
func (c *FileStore) Save(_ context.Context, k Key, resp *api.Response) error {
	data, err := json.Marshal(NewEntry(k, resp))
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := os.WriteFile(c.timingsPath(k), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// geoEntry stores a detected location with a timestamp.
type geoEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// LoadGeo returns the cached location if it is younger than maxAge.
func (c *FileStore) LoadGeo(maxAge time.Duration) *geo.Location {
	data, err := os.ReadFile(filepath.Join(c.dir, geoCacheFile))
	if err != nil {
		return nil
	}

	var entry geoEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}

	if time.Since(entry.CachedAt) > maxAge {
		return nil
	}

	return &entry.Location
}

// SaveGeo writes a detected location to the cache.
func (c *FileStore) SaveGeo(loc *geo.Location) error {
	data, err := json.Marshal(geoEntry{Location: *loc, CachedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to marshal geo cache: %w", err)
	}

	if err := os.WriteFile(filepath.Join(c.dir, geoCacheFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write geo cache: %w", err)
	}

	return nil
}

// Clear removes every cache file.
func (c *FileStore) Clear() error {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", m, err)
		}
	}
	return nil
}
