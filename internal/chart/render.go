package chart

import (
	"github.com/seenimoa/stockgraph/internal/geometry"
	"github.com/seenimoa/stockgraph/pkg/models"
)

// Render lays the chart out in a width×height canvas and returns the
// primitives to draw. Geometry is rebuilt on every call.
func (c *Chart) Render(width, height float64) Drawing {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := Drawing{
		Kind:       c.kind,
		Width:      width,
		Height:     height,
		Background: c.style.BackgroundColor,
		Range:      c.rng,
	}
	box := geometry.Box{Width: width, Height: height, Padding: c.style.Padding}
	if box.UsableWidth() <= 0 || box.UsableHeight() <= 0 {
		return d
	}

	switch c.kind {
	case models.KindLine:
		c.renderLine(&d, box)
	case models.KindBar:
		c.renderBars(&d, box, len(c.values), func(i int) (float64, float64, models.Polarity) {
			return c.rng.Min, c.values[i], models.Positive
		})
	case models.KindDelta:
		c.renderBars(&d, box, len(c.values), func(i int) (float64, float64, models.Polarity) {
			v := c.values[i]
			if v < c.baseline {
				return v, c.baseline, models.Negative
			}
			return c.baseline, v, models.Positive
		})
	case models.KindOpenClose:
		c.renderBars(&d, box, len(c.pairs), func(i int) (float64, float64, models.Polarity) {
			p := c.pairs[i]
			return p.Low(), p.High(), p.Polarity()
		})
	}
	return d
}

func (c *Chart) renderLine(d *Drawing, box geometry.Box) {
	points := geometry.MapPoints(c.values, c.rng, box)
	if len(points) < 2 {
		return
	}
	anchor := box.Bottom()
	stroke, fill := geometry.BuildPaths(points, c.style.LineMode, c.style.CurveSmoothness, anchor)

	if c.style.GradientEnabled {
		d.Fill = &Shape{
			Path: fill,
			Paint: Paint{
				Color:   c.style.GradientColor,
				Opacity: c.style.GradientOpacity(),
				FadeToY: anchor,
			},
		}
	}
	d.Stroke = &Shape{
		Path: stroke,
		Paint: Paint{
			Color:   c.style.StrokeColor,
			Width:   c.style.StrokeWidth,
			Opacity: 1,
		},
	}
}

// barSpan yields the low value, high value and polarity of bar i.
type barSpan func(i int) (low, high float64, polarity models.Polarity)

func (c *Chart) renderBars(d *Drawing, box geometry.Box, count int, span barSpan) {
	if count == 0 {
		return
	}
	d.Bars = make([]BarShape, count)
	for i := 0; i < count; i++ {
		low, high, pol := span(i)
		rect := geometry.MapBar(i, count, box, c.style.BarWidthRatio, low, high, c.rng)
		color := c.style.PositiveColor
		if pol == models.Negative {
			color = c.style.NegativeColor
		}
		d.Bars[i] = BarShape{
			Rect:     rect,
			Polarity: pol,
			Radius:   geometry.CornerRadius(rect, c.style.BarCornerRadius),
			Paint:    Paint{Color: color, Opacity: 1},
		}
	}
}
