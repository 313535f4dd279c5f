// Package chart holds the mutable state of a single chart (its series,
// range override, baseline and style) and turns it into drawing primitives
// on demand.
//
// A Chart is safe for concurrent use: setters and Render are serialized by
// an internal mutex, so a render always sees a consistent series/range/style.
package chart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/seenimoa/stockgraph/internal/geometry"
	"github.com/seenimoa/stockgraph/pkg/models"
)

// ErrInvalidArgument is returned by the paired-series setters when their
// input cannot form open/close entries. The chart is left unchanged.
var ErrInvalidArgument = errors.New("invalid argument")

// Chart is one chart of a fixed kind.
type Chart struct {
	mu sync.Mutex

	kind     models.Kind
	style    Style
	values   []float64
	pairs    []models.OpenClose
	override geometry.Override
	baseline float64
	rng      geometry.Range
}

// New creates an empty chart of the given kind. The style is normalized.
func New(kind models.Kind, style Style) *Chart {
	c := &Chart{kind: kind, style: style.Normalize()}
	c.recompute()
	return c
}

// Kind returns the chart kind.
func (c *Chart) Kind() models.Kind {
	return c.kind
}

// Style returns the current (normalized) style.
func (c *Chart) Style() Style {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.style
}

// Range returns the range computed after the last mutation.
func (c *Chart) Range() geometry.Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng
}

// Baseline returns the delta-bar baseline.
func (c *Chart) Baseline() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.baseline
}

// Len returns the number of entries the chart will draw.
func (c *Chart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kind == models.KindOpenClose {
		return len(c.pairs)
	}
	return len(c.values)
}

// Values returns a copy of the value series.
func (c *Chart) Values() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]float64(nil), c.values...)
}

// Pairs returns a copy of the open/close series.
func (c *Chart) Pairs() []models.OpenClose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.OpenClose(nil), c.pairs...)
}

// SetSeries replaces the value series used by line, bar and delta charts.
// Open/close charts ignore it.
func (c *Chart) SetSeries(values []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append([]float64(nil), values...)
	c.recompute()
}

// SetPairedSeries builds open/close entries from two parallel slices. The
// slices must have equal length; otherwise ErrInvalidArgument is returned
// and the previous series stays in effect.
func (c *Chart) SetPairedSeries(opens, closes []float64) error {
	if len(opens) != len(closes) {
		return fmt.Errorf("%w: %d opens but %d closes", ErrInvalidArgument, len(opens), len(closes))
	}
	pairs := make([]models.OpenClose, len(opens))
	for i := range opens {
		pairs[i] = models.OpenClose{Open: opens[i], Close: closes[i]}
	}
	c.setPairs(pairs)
	return nil
}

// SetFlatPairedSeries builds open/close entries from a flat
// [open0, close0, open1, close1, ...] slice. An odd length returns
// ErrInvalidArgument and leaves the previous series in effect.
func (c *Chart) SetFlatPairedSeries(flat []float64) error {
	if len(flat)%2 != 0 {
		return fmt.Errorf("%w: flat series has odd length %d", ErrInvalidArgument, len(flat))
	}
	pairs := make([]models.OpenClose, len(flat)/2)
	for i := range pairs {
		pairs[i] = models.OpenClose{Open: flat[2*i], Close: flat[2*i+1]}
	}
	c.setPairs(pairs)
	return nil
}

func (c *Chart) setPairs(pairs []models.OpenClose) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pairs = pairs
	c.recompute()
}

// SetRangeOverride sets optional range bounds for line and bar charts. A
// nil bound falls back to the data. Delta and open/close charts keep their
// own range policies and ignore the override.
func (c *Chart) SetRangeOverride(min, max *float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.override = geometry.Override{Min: copyPtr(min), Max: copyPtr(max)}
	c.recompute()
}

// SetBaseline sets the delta-bar baseline.
func (c *Chart) SetBaseline(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseline = v
	c.recompute()
}

// SetStyle replaces the style after normalizing it.
func (c *Chart) SetStyle(s Style) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.style = s.Normalize()
	c.recompute()
}

// recompute refreshes the cached range. Callers hold c.mu.
func (c *Chart) recompute() {
	switch c.kind {
	case models.KindDelta:
		c.rng = geometry.DeltaRange(c.values, c.baseline, c.style.VerticalPaddingRatio)
	case models.KindOpenClose:
		c.rng = geometry.OpenCloseRange(c.pairs)
	default:
		c.rng = geometry.LineRange(c.values, c.override)
	}
}

func copyPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
