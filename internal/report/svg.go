// Package report renders chart drawings as standalone SVG documents.
// It is a pure-Go rendering surface over chart.Drawing: every primitive the
// geometry core emits maps to one SVG element.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/seenimoa/stockgraph/internal/chart"
	"github.com/seenimoa/stockgraph/internal/geometry"
)

// ════════════════════════════════════════════════════════════════════
// SVG Output
// ════════════════════════════════════════════════════════════════════

// SVGOptions tweaks document-level output.
type SVGOptions struct {
	Title   string // optional <title> element
	Message string // text shown when the drawing is blank
}

// SVG renders d as a complete SVG document.
func SVG(d chart.Drawing, opts SVGOptions) string {
	w, h := int(math.Round(d.Width)), int(math.Round(d.Height))
	if w <= 0 || h <= 0 {
		return emptySVG(400, 200, "Invalid canvas size")
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(w, h))
	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`<title>%s</title>`, escapeXML(opts.Title)))
	}

	bg := d.Background
	if bg == "" {
		bg = "none"
	}
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`, w, h, escapeXML(bg)))

	if d.Blank() && opts.Message != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text>`,
			w/2, h/2, escapeXML(opts.Message)))
	}

	if d.Fill != nil {
		writeFill(&sb, d.Fill)
	}
	if d.Stroke != nil {
		sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linejoin="round" stroke-linecap="round"/>`,
			d.Stroke.Path.Commands(), escapeXML(d.Stroke.Paint.Color), num(d.Stroke.Paint.Width)))
	}
	for _, b := range d.Bars {
		writeBar(&sb, b)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// writeFill draws the area under a line. A FadeToY paint becomes a vertical
// gradient from the paint opacity at the top of the path to transparent at
// FadeToY.
func writeFill(sb *strings.Builder, s *chart.Shape) {
	if s.Paint.FadeToY == 0 {
		sb.WriteString(fmt.Sprintf(`<path d="%s" fill="%s" fill-opacity="%s" stroke="none"/>`,
			s.Path.Commands(), escapeXML(s.Paint.Color), num(s.Paint.Opacity)))
		return
	}
	top := pathTop(s.Path)
	sb.WriteString(`<defs><linearGradient id="fill-gradient" gradientUnits="userSpaceOnUse" x1="0" x2="0"`)
	sb.WriteString(fmt.Sprintf(` y1="%s" y2="%s">`, num(top), num(s.Paint.FadeToY)))
	sb.WriteString(fmt.Sprintf(`<stop offset="0" stop-color="%s" stop-opacity="%s"/>`,
		escapeXML(s.Paint.Color), num(s.Paint.Opacity)))
	sb.WriteString(fmt.Sprintf(`<stop offset="1" stop-color="%s" stop-opacity="0"/>`, escapeXML(s.Paint.Color)))
	sb.WriteString(`</linearGradient></defs>`)
	sb.WriteString(fmt.Sprintf(`<path d="%s" fill="url(#fill-gradient)" stroke="none"/>`, s.Path.Commands()))
}

func writeBar(sb *strings.Builder, b chart.BarShape) {
	sb.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s"`,
		num(b.Rect.Left), num(b.Rect.Top), num(b.Rect.Width()), num(b.Rect.Height()), escapeXML(b.Paint.Color)))
	if b.Radius > 0 {
		sb.WriteString(fmt.Sprintf(` rx="%s" ry="%s"`, num(b.Radius), num(b.Radius)))
	}
	if b.Paint.Opacity < 1 {
		sb.WriteString(fmt.Sprintf(` fill-opacity="%s"`, num(b.Paint.Opacity)))
	}
	sb.WriteString(fmt.Sprintf(` data-polarity="%s"/>`, b.Polarity))
}

// pathTop returns the smallest Y touched by any point of p.
func pathTop(p geometry.Path) float64 {
	top := math.Inf(1)
	for _, seg := range p.Segments {
		for _, pt := range seg.Points {
			top = math.Min(top, pt.Y)
		}
	}
	if math.IsInf(top, 1) {
		return 0
	}
	return top
}

// ════════════════════════════════════════════════════════════════════
// SVG Helpers
// ════════════════════════════════════════════════════════════════════

func svgHeader(w, h int) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		w, h, w, h)
}

func emptySVG(w, h int, msg string) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		w, h, w, h, w/2, h/2, escapeXML(msg))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
