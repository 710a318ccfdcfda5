// Package config provides persistent configuration for jadwal-sholat.
//
// Configuration is stored as JSON at ~/.config/jadwal-sholat/config.json
// (XDG-compliant) and read through viper so that JADWAL_* environment
// variables override it. The merge priority is: CLI flags > environment >
// config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/prayer"
)

const (
	configDirName  = "jadwal-sholat"
	configFileName = "config.json"
	envPrefix      = "JADWAL"

	DefaultMethod    = 11
	DefaultMQTTTopic = "jadwal-sholat/next"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"latitude", "longitude",
	"method",
	"time_format",
	"prayers",
	"cache_dir",
	"proxy_url",
	"location",
	"timezone",
	"log_level",
	"mqtt_broker", "mqtt_topic",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or auto-detect).
type Config struct {
	Latitude   float64 `json:"latitude,omitempty" mapstructure:"latitude"`
	Longitude  float64 `json:"longitude,omitempty" mapstructure:"longitude"`
	Method     *int    `json:"method,omitempty" mapstructure:"method"`           // pointer so we can distinguish "not set" from 0
	TimeFormat string  `json:"time_format,omitempty" mapstructure:"time_format"` // "12h" or "24h"
	Prayers    string  `json:"prayers,omitempty" mapstructure:"prayers"`         // comma-separated list
	CacheDir   string  `json:"cache_dir,omitempty" mapstructure:"cache_dir"`
	ProxyURL   string  `json:"proxy_url,omitempty" mapstructure:"proxy_url"`
	Location   string  `json:"location,omitempty" mapstructure:"location"` // "allow" or "deny"
	Timezone   string  `json:"timezone,omitempty" mapstructure:"timezone"`
	LogLevel   string  `json:"log_level,omitempty" mapstructure:"log_level"`
	MQTTBroker string  `json:"mqtt_broker,omitempty" mapstructure:"mqtt_broker"`
	MQTTTopic  string  `json:"mqtt_topic,omitempty" mapstructure:"mqtt_topic"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	method := DefaultMethod
	return Config{
		Method:     &method,
		TimeFormat: "24h",
		Location:   "allow",
		MQTTTopic:  DefaultMQTTTopic,
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file and environment.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path, then applies JADWAL_*
// environment variables on top. A missing file is not an error; an invalid
// file or an out-of-range value is.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	for _, key := range ValidKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path. Only the struct is
// written, so environment overrides never leak into the file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "latitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q: must be a number", value)
		}
		if err := checkLatitude(v); err != nil {
			return err
		}
		c.Latitude = v
	case "longitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q: must be a number", value)
		}
		if err := checkLongitude(v); err != nil {
			return err
		}
		c.Longitude = v
	case "method":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid method %q: must be an integer", value)
		}
		if err := checkMethod(v); err != nil {
			return err
		}
		c.Method = &v
	case "time_format":
		if err := checkTimeFormat(value); err != nil {
			return err
		}
		c.TimeFormat = value
	case "prayers":
		if err := checkPrayers(value); err != nil {
			return err
		}
		c.Prayers = value
	case "cache_dir":
		c.CacheDir = value
	case "proxy_url":
		if value != "" && !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("invalid proxy_url %q: must start with http:// or https://", value)
		}
		c.ProxyURL = strings.TrimRight(value, "/")
	case "location":
		if err := checkLocation(value); err != nil {
			return err
		}
		c.Location = value
	case "timezone":
		c.Timezone = value
	case "log_level":
		if err := checkLogLevel(value); err != nil {
			return err
		}
		c.LogLevel = value
	case "mqtt_broker":
		c.MQTTBroker = value
	case "mqtt_topic":
		c.MQTTTopic = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "latitude":
		if c.Latitude == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.Latitude, 'f', -1, 64), nil
	case "longitude":
		if c.Longitude == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.Longitude, 'f', -1, 64), nil
	case "method":
		if c.Method == nil {
			return "", nil
		}
		return strconv.Itoa(*c.Method), nil
	case "time_format":
		return c.TimeFormat, nil
	case "prayers":
		return c.Prayers, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "proxy_url":
		return c.ProxyURL, nil
	case "location":
		return c.Location, nil
	case "timezone":
		return c.Timezone, nil
	case "log_level":
		return c.LogLevel, nil
	case "mqtt_broker":
		return c.MQTTBroker, nil
	case "mqtt_topic":
		return c.MQTTTopic, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Validate checks values that may have arrived from the file or environment
// without passing through Set.
func (c *Config) Validate() error {
	if err := checkLatitude(c.Latitude); err != nil {
		return err
	}
	if err := checkLongitude(c.Longitude); err != nil {
		return err
	}
	if c.Method != nil {
		if err := checkMethod(*c.Method); err != nil {
			return err
		}
	}
	if c.TimeFormat != "" {
		if err := checkTimeFormat(c.TimeFormat); err != nil {
			return err
		}
	}
	if c.Prayers != "" {
		if err := checkPrayers(c.Prayers); err != nil {
			return err
		}
	}
	if c.Location != "" {
		if err := checkLocation(c.Location); err != nil {
			return err
		}
	}
	if c.LogLevel != "" {
		if err := checkLogLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

func checkLatitude(v float64) error {
	if v < -90 || v > 90 {
		return fmt.Errorf("invalid latitude %v: must be between -90 and 90", v)
	}
	return nil
}

func checkLongitude(v float64) error {
	if v < -180 || v > 180 {
		return fmt.Errorf("invalid longitude %v: must be between -180 and 180", v)
	}
	return nil
}

func checkMethod(v int) error {
	if v < 0 || v > 23 {
		return fmt.Errorf("invalid method %d: must be between 0 and 23", v)
	}
	return nil
}

func checkTimeFormat(v string) error {
	if v != "12h" && v != "24h" {
		return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", v)
	}
	return nil
}

func checkPrayers(v string) error {
	for _, n := range strings.Split(v, ",") {
		if _, err := prayer.ParseName(n); err != nil {
			return fmt.Errorf("invalid prayer name %q in prayers list", strings.TrimSpace(n))
		}
	}
	return nil
}

func checkLocation(v string) error {
	if v != "allow" && v != "deny" {
		return fmt.Errorf("invalid location %q: must be \"allow\" or \"deny\"", v)
	}
	return nil
}

func checkLogLevel(v string) error {
	switch v {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid log_level %q: must be debug, info, warn or error", v)
}

// HasCoordinate reports whether latitude or longitude was configured.
func (c *Config) HasCoordinate() bool {
	return c.Latitude != 0 || c.Longitude != 0
}

// MethodOrDefault returns the method value, falling back to the given default.
func (c *Config) MethodOrDefault(def int) int {
	if c.Method != nil {
		return *c.Method
	}
	return def
}

// PrayerNames parses the prayers list, or returns def when none is configured.
func (c *Config) PrayerNames(def []prayer.Name) ([]prayer.Name, error) {
	if c.Prayers == "" {
		return def, nil
	}
	var names []prayer.Name
	for _, raw := range strings.Split(c.Prayers, ",") {
		n, err := prayer.ParseName(raw)
		if err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, nil
}

// LocationDenied reports whether the user refused location detection.
func (c *Config) LocationDenied() bool {
	return c.Location == "deny"
}

// TopicOrDefault returns the MQTT topic, falling back to DefaultMQTTTopic.
func (c *Config) TopicOrDefault() string {
	if c.MQTTTopic != "" {
		return c.MQTTTopic
	}
	return DefaultMQTTTopic
}
