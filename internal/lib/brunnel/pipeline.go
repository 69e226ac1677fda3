package brunnel

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/dpup/brunnels/internal/lib/route"
)

// ErrInvalidConfig indicates analysis configuration that fails validation
// before any candidate is processed.
var ErrInvalidConfig = errors.New("invalid analysis configuration")

// Config holds the caller-supplied analysis parameters.
type Config struct {
	// BufferMeters is the corridor half-width around the route used for
	// containment testing.
	BufferMeters float64

	// ToleranceDegrees is the maximum angular divergence between a crossing
	// segment and the route's local direction. Zero disables the alignment
	// filter entirely.
	ToleranceDegrees float64
}

// DefaultConfig returns the standard analysis parameters: a 3m corridor and a
// 20 degree alignment tolerance.
func DefaultConfig() Config {
	return Config{BufferMeters: 3, ToleranceDegrees: 20}
}

// Validate fails fast on parameters the pipeline cannot run with.
func (c Config) Validate() error {
	if c.BufferMeters <= 0 {
		return fmt.Errorf("%w: buffer must be positive, got %v", ErrInvalidConfig, c.BufferMeters)
	}
	if c.ToleranceDegrees < 0 {
		return fmt.Errorf("%w: tolerance must not be negative, got %v", ErrInvalidConfig, c.ToleranceDegrees)
	}
	return nil
}

// Analyzer runs the five-stage selection pipeline over a route and a
// candidate set. An Analyzer is stateless between runs; each invocation owns
// its route and candidates and may run concurrently with other invocations
// on distinct data.
type Analyzer struct {
	cfg    Config
	logger *zap.Logger
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithLogger injects a structured event logger. The pipeline stays pure
// computation; the logger only observes stage outcomes.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer validates the configuration and builds an Analyzer.
func NewAnalyzer(cfg Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Analyzer{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Result carries the full candidate list with all analysis fields populated.
// Excluded candidates remain in the list so consumers can display them
// distinctly.
type Result struct {
	Brunnels []*Brunnel
}

// Analyze runs the pipeline stages in their fixed order: containment, span
// projection, compound detection, alignment filtering, overlap resolution.
// Candidates are mutated in place; re-running on the same inputs produces
// identical verdicts.
func (a *Analyzer) Analyze(r *route.Route, candidates []*Brunnel) (*Result, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: route is required", route.ErrInvalidRoute)
	}

	for i, b := range candidates {
		b.index = i
		b.Span = nil
		b.Reason = ExclusionNone
		b.Compound = nil
		b.Overlap = nil
	}

	a.filterContained(r, candidates)
	a.projectSpans(r, candidates)
	a.detectCompounds(candidates)
	a.filterAligned(r, candidates)
	a.resolveOverlaps(r, candidates)

	a.logger.Info("analysis complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("included", countIncluded(candidates)))

	return &Result{Brunnels: candidates}, nil
}

// Representatives returns one entry per compound group or standalone
// candidate, sorted by span start ascending with input order as the
// tie-break. Excluded representatives are retained; callers filter as needed.
func (res *Result) Representatives() []*Brunnel {
	var reps []*Brunnel
	for _, b := range res.Brunnels {
		if b.Span != nil && b.IsRepresentative() {
			reps = append(reps, b)
		}
	}
	sort.SliceStable(reps, func(i, j int) bool {
		return reps[i].Span.Start < reps[j].Span.Start
	})
	return reps
}

// Included returns the candidates that survived every stage.
func (res *Result) Included() []*Brunnel {
	var out []*Brunnel
	for _, b := range res.Brunnels {
		if b.Included() {
			out = append(out, b)
		}
	}
	return out
}

func countIncluded(bs []*Brunnel) int {
	n := 0
	for _, b := range bs {
		if b.Included() {
			n++
		}
	}
	return n
}
