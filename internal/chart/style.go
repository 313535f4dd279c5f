package chart

import (
	"math"

	"github.com/seenimoa/stockgraph/pkg/models"
)

// Configuration bounds enforced by Style.Normalize.
const (
	MinBarWidthRatio = 0.1
	MaxBarWidthRatio = 1.0
	MaxSmoothness    = 0.5
	MaxGradientAlpha = 255
)

// Style holds the presentation options of a chart. Out-of-range numbers are
// clamped by Normalize rather than rejected.
type Style struct {
	StrokeColor string  `json:"stroke_color"  yaml:"stroke_color"  mapstructure:"stroke_color"`
	StrokeWidth float64 `json:"stroke_width"  yaml:"stroke_width"  mapstructure:"stroke_width"`

	LineMode        models.LineMode `json:"line_mode"        yaml:"line_mode"        mapstructure:"line_mode"`
	CurveSmoothness float64         `json:"curve_smoothness" yaml:"curve_smoothness" mapstructure:"curve_smoothness"`

	GradientEnabled bool    `json:"gradient_enabled" yaml:"gradient_enabled" mapstructure:"gradient_enabled"`
	GradientColor   string  `json:"gradient_color"   yaml:"gradient_color"   mapstructure:"gradient_color"`
	GradientAlpha   float64 `json:"gradient_alpha"   yaml:"gradient_alpha"   mapstructure:"gradient_alpha"` // 0-255

	PositiveColor   string `json:"positive_color"   yaml:"positive_color"   mapstructure:"positive_color"`
	NegativeColor   string `json:"negative_color"   yaml:"negative_color"   mapstructure:"negative_color"`
	BackgroundColor string `json:"background_color" yaml:"background_color" mapstructure:"background_color"`

	BarWidthRatio   float64 `json:"bar_width_ratio"   yaml:"bar_width_ratio"   mapstructure:"bar_width_ratio"`
	BarCornerRadius float64 `json:"bar_corner_radius" yaml:"bar_corner_radius" mapstructure:"bar_corner_radius"`

	Padding              float64 `json:"padding"                yaml:"padding"                mapstructure:"padding"`
	VerticalPaddingRatio float64 `json:"vertical_padding_ratio" yaml:"vertical_padding_ratio" mapstructure:"vertical_padding_ratio"`
}

// DefaultStyle returns the style charts start with.
func DefaultStyle() Style {
	return Style{
		StrokeColor:          "#2196f3",
		StrokeWidth:          2,
		LineMode:             models.LineStraight,
		CurveSmoothness:      0.2,
		GradientEnabled:      true,
		GradientColor:        "#2196f3",
		GradientAlpha:        96,
		PositiveColor:        "#26a69a",
		NegativeColor:        "#ef5350",
		BackgroundColor:      "#ffffff",
		BarWidthRatio:        0.7,
		BarCornerRadius:      2,
		Padding:              8,
		VerticalPaddingRatio: 0.05,
	}
}

// Normalize returns a copy of s with every numeric option clamped into its
// valid interval. The line mode is canonicalized; an unknown one is reset to
// straight.
func (s Style) Normalize() Style {
	s.StrokeWidth = atLeast(s.StrokeWidth, 0)
	s.CurveSmoothness = clamp(s.CurveSmoothness, 0, MaxSmoothness)
	s.GradientAlpha = clamp(s.GradientAlpha, 0, MaxGradientAlpha)
	s.BarWidthRatio = clamp(s.BarWidthRatio, MinBarWidthRatio, MaxBarWidthRatio)
	s.BarCornerRadius = atLeast(s.BarCornerRadius, 0)
	s.Padding = atLeast(s.Padding, 0)
	s.VerticalPaddingRatio = atLeast(s.VerticalPaddingRatio, 0)
	if m, err := models.ParseLineMode(string(s.LineMode)); err == nil {
		s.LineMode = m
	} else {
		s.LineMode = models.LineStraight
	}
	return s
}

// GradientOpacity is GradientAlpha expressed as a 0-1 fraction.
func (s Style) GradientOpacity() float64 {
	return s.GradientAlpha / MaxGradientAlpha
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func atLeast(v, lo float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	return v
}
