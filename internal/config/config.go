// Package config loads analysis settings from defaults, an optional YAML
// file, environment variables, and command-line flags, in increasing order of
// precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/dpup/brunnels/internal/clients/overpass"
)

// Config is the fully resolved application configuration.
type Config struct {
	// BufferMeters is the corridor half-width used for containment testing.
	BufferMeters float64 `koanf:"buffer_meters"`

	// ToleranceDegrees is the alignment filter tolerance. Zero disables the
	// filter.
	ToleranceDegrees float64 `koanf:"tolerance_degrees"`

	// BBoxMarginMeters widens the route's bounding box before querying for
	// candidates, so crossings just past the route ends are still considered.
	BBoxMarginMeters float64 `koanf:"bbox_margin_meters"`

	// Kinds restricts analysis to the named crossing kinds.
	Kinds []string `koanf:"kinds"`

	Overpass OverpassConfig `koanf:"overpass"`
	Output   OutputConfig   `koanf:"output"`

	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

// OverpassConfig controls the candidate source API client.
type OverpassConfig struct {
	Endpoint   string        `koanf:"endpoint"`
	Timeout    time.Duration `koanf:"timeout"`
	CacheTTL   time.Duration `koanf:"cache_ttl"`
	MaxRetries int           `koanf:"max_retries"`
}

// OutputConfig names the optional output files. Empty paths disable that
// output; the text listing is always written to stdout.
type OutputConfig struct {
	GeoJSON string `koanf:"geojson"`
	KML     string `koanf:"kml"`
}

// Load resolves configuration with precedence flags > env vars > config file
// > defaults. When cfgFile is empty, brunnels.yaml or brunnels.yml in the
// working directory is used if present.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"buffer_meters":        3.0,
		"tolerance_degrees":    20.0,
		"bbox_margin_meters":   100.0,
		"kinds":                []string{"bridge", "tunnel"},
		"overpass.endpoint":    overpass.DefaultEndpoint,
		"overpass.timeout":     30 * time.Second,
		"overpass.cache_ttl":   15 * time.Minute,
		"overpass.max_retries": 3,
		"verbose":              false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// BRUNNELS_OVERPASS__ENDPOINT -> overpass.endpoint
	if err := k.Load(env.Provider("BRUNNELS_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "BRUNNELS_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the pipeline or the API client cannot run with.
func (c *Config) Validate() error {
	if c.BufferMeters <= 0 {
		return fmt.Errorf("buffer_meters must be positive, got %v", c.BufferMeters)
	}
	if c.ToleranceDegrees < 0 {
		return fmt.Errorf("tolerance_degrees must not be negative, got %v", c.ToleranceDegrees)
	}
	if c.BBoxMarginMeters < 0 {
		return fmt.Errorf("bbox_margin_meters must not be negative, got %v", c.BBoxMarginMeters)
	}
	if len(c.Kinds) == 0 {
		return fmt.Errorf("kinds must name at least one of bridge, tunnel")
	}
	for _, kind := range c.Kinds {
		if kind != "bridge" && kind != "tunnel" {
			return fmt.Errorf("unknown crossing kind %q", kind)
		}
	}
	if c.Overpass.Endpoint == "" {
		return fmt.Errorf("overpass.endpoint must not be empty")
	}
	if c.Overpass.Timeout <= 0 {
		return fmt.Errorf("overpass.timeout must be positive, got %v", c.Overpass.Timeout)
	}
	if c.Overpass.MaxRetries < 0 {
		return fmt.Errorf("overpass.max_retries must not be negative, got %v", c.Overpass.MaxRetries)
	}
	return nil
}

// flagKey maps kebab-case flag names onto config keys. Flags address the
// commonly tuned top-level and Overpass settings.
func flagKey(name string) string {
	switch name {
	case "buffer":
		return "buffer_meters"
	case "tolerance":
		return "tolerance_degrees"
	case "bbox-margin":
		return "bbox_margin_meters"
	case "overpass-endpoint":
		return "overpass.endpoint"
	case "geojson":
		return "output.geojson"
	case "kml":
		return "output.kml"
	default:
		return strings.ReplaceAll(name, "-", "_")
	}
}

// findConfigFile returns the explicit path, else the first of brunnels.yaml
// or brunnels.yml that exists, else empty.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"brunnels.yaml", "brunnels.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}
