package geometry

// Normalize maps v into [0,1] over r. Values outside r fall outside [0,1].
func Normalize(v float64, r Range) float64 {
	return (v - r.Min) / r.Span()
}

// ValueY returns the screen Y for v. Larger values sit higher on screen.
func ValueY(v float64, r Range, b Box) float64 {
	return b.Padding + b.UsableHeight()*(1-Normalize(v, r))
}

// MapPoints places one point per value, spread evenly across the usable
// width from the left padding to the right padding. Fewer than two values
// produce no geometry.
func MapPoints(values []float64, r Range, b Box) []Point {
	n := len(values)
	if n < 2 {
		return nil
	}
	step := b.UsableWidth() / float64(n-1)
	points := make([]Point, n)
	for i, v := range values {
		points[i] = Point{
			X: b.Padding + step*float64(i),
			Y: ValueY(v, r, b),
		}
	}
	return points
}

// BarSpacing is the horizontal slot width given to each of count bars.
func BarSpacing(count int, b Box) float64 {
	if count <= 0 {
		return 0
	}
	return b.UsableWidth() / float64(count)
}

// MapBar returns the rectangle for bar index out of count, spanning the
// values low..high. The bar is centered in its slot and is
// spacing*widthRatio wide.
func MapBar(index, count int, b Box, widthRatio, low, high float64, r Range) Rect {
	spacing := BarSpacing(count, b)
	center := b.Padding + spacing*float64(index) + spacing/2
	half := spacing * widthRatio / 2
	top, bottom := ValueY(high, r, b), ValueY(low, r, b)
	if top > bottom {
		top, bottom = bottom, top
	}
	return Rect{
		Left:   center - half,
		Top:    top,
		Right:  center + half,
		Bottom: bottom,
	}
}

// CornerRadius returns the corner radius to draw rect with. Rounding only
// applies when the bar is taller than two radii; shorter bars are drawn as
// plain rectangles.
func CornerRadius(rect Rect, radius float64) float64 {
	if radius <= 0 || rect.Height() <= 2*radius {
		return 0
	}
	return radius
}
