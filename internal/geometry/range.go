package geometry

import (
	"math"

	"github.com/seenimoa/stockgraph/pkg/models"
)

// Range is the value span mapped onto the vertical axis. Max > Min always
// holds for ranges produced by this package.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max - Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// Override holds optional user-supplied range bounds. A nil bound keeps the
// data-derived value.
type Override struct {
	Min *float64
	Max *float64
}

// LineRange derives the range for line and simple-bar charts. Each non-nil
// override bound replaces only its own data-derived counterpart.
func LineRange(values []float64, o Override) Range {
	r := Range{Min: 0, Max: 1}
	if len(values) > 0 {
		r = valuesRange(values)
	}
	if o.Min != nil {
		r.Min = *o.Min
	}
	if o.Max != nil {
		r.Max = *o.Max
	}
	return ensureSpan(r)
}

// DeltaRange derives the range for delta-bar charts. The baseline is always
// inside the range and both bounds are pushed outward by span*paddingRatio.
func DeltaRange(values []float64, baseline, paddingRatio float64) Range {
	if len(values) == 0 {
		return Range{Min: -1, Max: 1}
	}
	r := valuesRange(values)
	r.Min = math.Min(r.Min, baseline)
	r.Max = math.Max(r.Max, baseline)
	pad := r.Span() * paddingRatio
	r.Min -= pad
	r.Max += pad
	return ensureSpan(r)
}

// OpenCloseRange derives the range for open/close bar charts from the lowest
// bar low and the highest bar high.
func OpenCloseRange(pairs []models.OpenClose) Range {
	if len(pairs) == 0 {
		return Range{Min: 0, Max: 1}
	}
	r := Range{Min: pairs[0].Low(), Max: pairs[0].High()}
	for _, p := range pairs[1:] {
		r.Min = math.Min(r.Min, p.Low())
		r.Max = math.Max(r.Max, p.High())
	}
	return ensureSpan(r)
}

func valuesRange(values []float64) Range {
	r := Range{Min: values[0], Max: values[0]}
	for _, v := range values[1:] {
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	return r
}

// ensureSpan bumps a collapsed or inverted range to Min+1 so normalization
// never divides by zero.
func ensureSpan(r Range) Range {
	if !(r.Max > r.Min) {
		r.Max = r.Min + 1
	}
	return r
}
