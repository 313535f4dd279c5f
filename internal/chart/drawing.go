package chart

import (
	"github.com/seenimoa/stockgraph/internal/geometry"
	"github.com/seenimoa/stockgraph/pkg/models"
)

// Paint describes how a primitive is colored.
type Paint struct {
	Color   string  `json:"color"`
	Width   float64 `json:"width,omitempty"`     // stroke width; zero for fills
	Opacity float64 `json:"opacity"`            // 0-1
	FadeToY float64 `json:"fade_to_y,omitempty"` // when set, opacity fades to zero at this Y
}

// Shape is a path with its paint.
type Shape struct {
	Path  geometry.Path `json:"path"`
	Paint Paint         `json:"paint"`
}

// BarShape is one bar rectangle with its polarity and paint.
type BarShape struct {
	Rect     geometry.Rect   `json:"rect"`
	Polarity models.Polarity `json:"polarity"`
	Radius   float64         `json:"radius"`
	Paint    Paint           `json:"paint"`
}

// Drawing is the full set of primitives for one render pass. A drawing with
// no stroke, fill or bars shows only the background.
type Drawing struct {
	Kind       models.Kind    `json:"kind"`
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	Background string         `json:"background"`
	Range      geometry.Range `json:"range"`
	Fill       *Shape         `json:"fill,omitempty"`
	Stroke     *Shape         `json:"stroke,omitempty"`
	Bars       []BarShape     `json:"bars,omitempty"`
}

// Blank reports whether the drawing has nothing but a background.
func (d Drawing) Blank() bool {
	return d.Fill == nil && d.Stroke == nil && len(d.Bars) == 0
}
