// Package geometry maps numeric series to screen-space chart geometry.
//
// It is the pure core of stockgraph: value ranges, point and bar placement,
// and stroke/fill path construction. Nothing here knows about colors or any
// rendering surface, and every function is deterministic over its inputs.
//
// Screen coordinates follow the usual raster convention: the origin is the
// top-left corner and Y grows downward.
package geometry

// Point is a screen-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a screen-space rectangle.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width returns Right - Left.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Box is the container geometry is laid out in: its size and the pixel
// inset kept clear on every side.
type Box struct {
	Width   float64
	Height  float64
	Padding float64
}

// UsableWidth is the width left after padding both sides.
func (b Box) UsableWidth() float64 { return b.Width - 2*b.Padding }

// UsableHeight is the height left after padding top and bottom.
func (b Box) UsableHeight() float64 { return b.Height - 2*b.Padding }

// Bottom is the Y coordinate of the bottom edge of the plotted region.
func (b Box) Bottom() float64 { return b.Height - b.Padding }
