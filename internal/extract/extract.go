// Package extract defines the contract between the aggregation engine and
// the per-axis statistic extractors. Extractors are black boxes: each one
// turns the full match list into a shape of per-player numbers plus the
// sample counts the gating rules need. A failing extractor reports
// Unavailable instead of erroring the whole run.
package extract

import "github.com/lupercal/wolfstats/internal/model"

// Shape is the fixed output of one extractor: per-player stat values and
// per-player sample counts keyed by gate name.
type Shape struct {
	// Stats maps player name -> stat name -> raw value.
	Stats map[string]map[string]float64
	// Samples maps player name -> sample key -> observation count.
	// The aggregation engine checks these against the per-stat gates.
	Samples map[string]map[string]int
}

// NewShape returns an empty Shape with both maps allocated.
func NewShape() *Shape {
	return &Shape{
		Stats:   make(map[string]map[string]float64),
		Samples: make(map[string]map[string]int),
	}
}

// SetStat records a stat value for a player.
func (s *Shape) SetStat(player, stat string, v float64) {
	m := s.Stats[player]
	if m == nil {
		m = make(map[string]float64)
		s.Stats[player] = m
	}
	m[stat] = v
}

// AddSample increments a sample counter for a player.
func (s *Shape) AddSample(player, key string, n int) {
	m := s.Samples[player]
	if m == nil {
		m = make(map[string]int)
		s.Samples[player] = m
	}
	m[key] += n
}

// Result is the outcome of running one extractor. Exactly one of the two
// constructors produces it: Ok carries a shape, Unavailable carries the
// reason the axis has no data this run.
type Result struct {
	shape  *Shape
	reason string
}

// Ok wraps a successfully extracted shape.
func Ok(shape *Shape) Result { return Result{shape: shape} }

// Unavailable marks the extractor's whole contribution as absent.
func Unavailable(reason string) Result { return Result{reason: reason} }

// Shape returns the extracted shape and whether it is present.
func (r Result) Shape() (*Shape, bool) { return r.shape, r.shape != nil }

// Reason returns why the axis is unavailable; empty for an Ok result.
func (r Result) Reason() string { return r.reason }

// Func computes one gameplay axis from the full match list.
type Func func(matches []model.Match) Result

// Extractor is a named axis extractor.
type Extractor struct {
	Name string
	Run  Func
}

// Registry is the ordered set of extractors an aggregation run invokes.
type Registry struct {
	extractors []Extractor
}

// NewRegistry builds a registry from the given extractors, keeping order.
func NewRegistry(extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// All returns the registered extractors in registration order.
func (r *Registry) All() []Extractor { return r.extractors }

// Default returns the registry of built-in extractors: the core win-rate
// axis plus the survival axis. External axis extractors (deaths, voting,
// hunting, looting, zones, transformations) register alongside these.
func Default() *Registry {
	return NewRegistry(
		Extractor{Name: "core", Run: Core},
		Extractor{Name: "survival", Run: Survival},
	)
}
