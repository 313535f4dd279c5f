package report

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/stockgraph/internal/chart"
	"github.com/seenimoa/stockgraph/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

func assertWellFormed(t *testing.T, svg string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(svg))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err, "svg is not well-formed XML:\n%s", svg)
	}
}

func plain() chart.Style {
	s := chart.DefaultStyle()
	s.Padding = 0
	s.BarWidthRatio = 1
	s.VerticalPaddingRatio = 0
	return s
}

// ════════════════════════════════════════════════════════════════════
// SVG
// ════════════════════════════════════════════════════════════════════

func TestSVGLine(t *testing.T) {
	c := chart.New(models.KindLine, plain())
	c.SetSeries([]float64{10, 20, 10})

	out := SVG(c.Render(100, 100), SVGOptions{Title: "Close <daily>"})
	assertWellFormed(t, out)
	assert.True(t, strings.HasPrefix(out, "<svg "))
	assert.Contains(t, out, `<title>Close &lt;daily&gt;</title>`)
	assert.Contains(t, out, `d="M0,100 L50,0 L100,100"`)
	assert.Contains(t, out, `fill="url(#fill-gradient)"`)
	assert.Contains(t, out, `y1="0" y2="100"`)
}

func TestSVGCurvedLine(t *testing.T) {
	s := plain()
	s.LineMode = models.LineCurved
	s.GradientEnabled = false
	c := chart.New(models.KindLine, s)
	c.SetSeries([]float64{1, 3, 2, 5})

	out := SVG(c.Render(300, 120), SVGOptions{})
	assertWellFormed(t, out)
	assert.Contains(t, out, " C")
	assert.NotContains(t, out, "linearGradient")
}

func TestSVGBars(t *testing.T) {
	s := plain()
	s.BarCornerRadius = 4
	c := chart.New(models.KindDelta, s)
	c.SetSeries([]float64{3, -2})

	out := SVG(c.Render(100, 100), SVGOptions{})
	assertWellFormed(t, out)
	assert.Equal(t, 2, strings.Count(out, "data-polarity="))
	assert.Contains(t, out, `data-polarity="positive"`)
	assert.Contains(t, out, `data-polarity="negative"`)
	assert.Contains(t, out, `fill="`+s.PositiveColor+`"`)
	assert.Contains(t, out, `fill="`+s.NegativeColor+`"`)
	assert.Contains(t, out, `rx="4"`)
}

func TestSVGBlank(t *testing.T) {
	c := chart.New(models.KindLine, plain())
	out := SVG(c.Render(200, 80), SVGOptions{Message: "No data"})
	assertWellFormed(t, out)
	assert.Contains(t, out, ">No data</text>")
	assert.NotContains(t, out, "<path")
}

func TestSVGInvalidCanvas(t *testing.T) {
	out := SVG(chart.Drawing{}, SVGOptions{})
	assertWellFormed(t, out)
	assert.Contains(t, out, "Invalid canvas size")
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt;c&gt; &quot;d&quot;", escapeXML(`a & b <c> "d"`))
}
