// Package config loads application settings from an ancestree.toml file.
//
// Every section is optional: absent values fall back to defaults, so an
// empty or missing file yields a fully working configuration. Explicit
// values are validated and rejected when out of range, because a silently
// corrected setting is harder to debug than a startup error.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ancestree/ancestree/pkg/errors"
	"github.com/ancestree/ancestree/pkg/layout"
)

// DefaultFilename is the settings file looked up in the working directory.
const DefaultFilename = "ancestree.toml"

// Settings is the root of the TOML file.
type Settings struct {
	Layout LayoutSettings `toml:"layout"`
	Cache  CacheSettings  `toml:"cache"`
	Server ServerSettings `toml:"server"`
}

// LayoutSettings overrides the spacing constants. Zero means "use default".
type LayoutSettings struct {
	BoxWidth          float64 `toml:"box_width"`
	BoxHeight         float64 `toml:"box_height"`
	HorizontalGap     float64 `toml:"horizontal_gap"`
	VerticalGap       float64 `toml:"vertical_gap"`
	MarriageMarkerGap float64 `toml:"marriage_marker_gap"`
	MarkerSize        float64 `toml:"marker_size"`
}

// CacheSettings selects the cache backend.
type CacheSettings struct {
	// Backend is "file", "redis", "mongo", or "none". Empty means "file".
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Empty means a per-user default.
	Dir string `toml:"dir"`

	// URL is the redis:// or mongodb:// connection string for the shared
	// backends.
	URL string `toml:"url"`

	// Database and Collection name the MongoDB cache location.
	Database   string `toml:"database"`
	Collection string `toml:"collection"`

	// TTLHours bounds entry lifetime. Zero means no expiration.
	TTLHours int `toml:"ttl_hours"`
}

// ServerSettings configures serve mode.
type ServerSettings struct {
	// Addr is the listen address, host:port. Empty means ":8080".
	Addr string `toml:"addr"`

	// RequestTimeoutSeconds bounds one request. Zero means 60.
	RequestTimeoutSeconds int `toml:"request_timeout_seconds"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	var s Settings
	s.setDefaults()
	return s
}

// Load reads and validates a settings file.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}

	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	s.setDefaults()
	return s, nil
}

// LoadOrDefault loads path when it exists and falls back to defaults when it
// does not. Parse and validation failures are still errors.
func LoadOrDefault(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Spacing converts the layout section to engine spacing, applying defaults
// for unset values.
func (s Settings) Spacing() layout.Spacing {
	sp := layout.DefaultSpacing()
	if v := s.Layout.BoxWidth; v > 0 {
		sp.BoxWidth = v
	}
	if v := s.Layout.BoxHeight; v > 0 {
		sp.BoxHeight = v
	}
	if v := s.Layout.HorizontalGap; v > 0 {
		sp.HorizontalGap = v
	}
	if v := s.Layout.VerticalGap; v > 0 {
		sp.VerticalGap = v
	}
	if v := s.Layout.MarriageMarkerGap; v > 0 {
		sp.MarriageMarkerGap = v
	}
	if v := s.Layout.MarkerSize; v > 0 {
		sp.MarkerSize = v
	}
	return sp
}

func (s *Settings) validate() error {
	for name, v := range map[string]float64{
		"box_width":           s.Layout.BoxWidth,
		"box_height":          s.Layout.BoxHeight,
		"horizontal_gap":      s.Layout.HorizontalGap,
		"vertical_gap":        s.Layout.VerticalGap,
		"marriage_marker_gap": s.Layout.MarriageMarkerGap,
		"marker_size":         s.Layout.MarkerSize,
	} {
		if v < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "layout.%s must not be negative", name)
		}
	}

	switch s.Cache.Backend {
	case "", "file", "none":
	case "redis", "mongo":
		if s.Cache.URL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.url is required for the %s backend", s.Cache.Backend)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache.backend %q", s.Cache.Backend)
	}

	if s.Cache.TTLHours < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl_hours must not be negative")
	}
	if s.Server.RequestTimeoutSeconds < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.request_timeout_seconds must not be negative")
	}
	return nil
}

func (s *Settings) setDefaults() {
	if s.Cache.Backend == "" {
		s.Cache.Backend = "file"
	}
	if s.Cache.Database == "" {
		s.Cache.Database = "ancestree"
	}
	if s.Cache.Collection == "" {
		s.Cache.Collection = "cache"
	}
	if s.Server.Addr == "" {
		s.Server.Addr = ":8080"
	}
	if s.Server.RequestTimeoutSeconds == 0 {
		s.Server.RequestTimeoutSeconds = 60
	}
}
