// Command brunnels identifies the bridges and tunnels a route actually
// travels over. It reads a GPX or encoded polyline route file, fetches
// crossing candidates near the route from the Overpass API, runs the
// selection pipeline, and writes a text listing plus optional GeoJSON and KML
// files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dpup/brunnels/internal/cache"
	"github.com/dpup/brunnels/internal/clients/overpass"
	"github.com/dpup/brunnels/internal/config"
	"github.com/dpup/brunnels/internal/lib/brunnel"
	"github.com/dpup/brunnels/internal/lib/route"
	"github.com/dpup/brunnels/internal/render"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "brunnels <route-file>",
		Short: "Find the bridges and tunnels along a route",
		Long: `Brunnels reads a route from a GPX file (or an encoded polyline file), looks
up nearby bridge and tunnel ways, and reports which of them the route
actually crosses.`,
		Version:      version,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd, cfg, args[0])
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (default brunnels.yaml)")
	cmd.Flags().Float64("buffer", 3, "corridor half-width in meters")
	cmd.Flags().Float64("tolerance", 20, "alignment tolerance in degrees, 0 disables the filter")
	cmd.Flags().Float64("bbox-margin", 100, "candidate search margin around the route in meters")
	cmd.Flags().StringSlice("kinds", []string{"bridge", "tunnel"}, "crossing kinds to analyze")
	cmd.Flags().String("overpass-endpoint", overpass.DefaultEndpoint, "Overpass interpreter URL")
	cmd.Flags().String("geojson", "", "write a GeoJSON document to this path")
	cmd.Flags().String("kml", "", "write a KML document to this path")
	cmd.Flags().BoolP("verbose", "v", false, "enable debug logging")

	return cmd
}

func run(cmd *cobra.Command, cfg *config.Config, routePath string) error {
	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	r, err := loadRoute(routePath)
	if err != nil {
		return err
	}
	logger.Info("route loaded",
		zap.String("file", routePath),
		zap.Int("points", len(r.Points())),
		zap.Float64("length_m", r.Length()))

	client := overpass.NewClient(
		overpass.WithEndpoint(cfg.Overpass.Endpoint),
		overpass.WithTimeout(cfg.Overpass.Timeout),
		overpass.WithMaxRetries(cfg.Overpass.MaxRetries),
		overpass.WithCache(cache.New(), cfg.Overpass.CacheTTL),
		overpass.WithLogger(logger),
	)

	region := r.Region().Expand(cfg.BBoxMarginMeters)
	candidates, err := client.QueryCrossings(cmd.Context(), region)
	if err != nil {
		return fmt.Errorf("failed to fetch crossing candidates: %w", err)
	}
	candidates = filterKinds(candidates, cfg.Kinds)

	analyzer, err := brunnel.NewAnalyzer(brunnel.Config{
		BufferMeters:     cfg.BufferMeters,
		ToleranceDegrees: cfg.ToleranceDegrees,
	}, brunnel.WithLogger(logger))
	if err != nil {
		return err
	}

	res, err := analyzer.Analyze(r, candidates)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	render.Listing(cmd.OutOrStdout(), r, res)

	if cfg.Output.GeoJSON != "" {
		data, err := render.GeoJSON(r, res)
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfg.Output.GeoJSON, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", cfg.Output.GeoJSON, err)
		}
		logger.Info("wrote GeoJSON", zap.String("path", cfg.Output.GeoJSON))
	}

	if cfg.Output.KML != "" {
		f, err := os.Create(cfg.Output.KML)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", cfg.Output.KML, err)
		}
		defer f.Close()
		if err := render.KML(f, r, res); err != nil {
			return err
		}
		logger.Info("wrote KML", zap.String("path", cfg.Output.KML))
	}

	return nil
}

// loadRoute picks the parser by file extension: .gpx is parsed as GPX,
// anything else is treated as an encoded polyline.
func loadRoute(path string) (*route.Route, error) {
	var points []route.Point
	var err error
	if strings.EqualFold(filepath.Ext(path), ".gpx") {
		points, err = route.ParseGPXFile(path)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read route file: %w", err)
		}
		points, err = route.ParsePolyline(strings.TrimSpace(string(data)))
	}
	if err != nil {
		return nil, err
	}
	return route.New(points)
}

// filterKinds keeps candidates whose kind is named in kinds.
func filterKinds(candidates []*brunnel.Brunnel, kinds []string) []*brunnel.Brunnel {
	wanted := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		wanted[k] = true
	}
	out := candidates[:0]
	for _, b := range candidates {
		if wanted[b.Kind.String()] {
			out = append(out, b)
		}
	}
	return out
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
