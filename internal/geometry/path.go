package geometry

import (
	"strconv"
	"strings"

	"github.com/seenimoa/stockgraph/pkg/models"
)

// Op is a path drawing command.
type Op int

const (
	MoveTo  Op = iota // start a new subpath at Points[0]
	LineTo            // straight segment to Points[0]
	CubicTo           // cubic curve with controls Points[0], Points[1] ending at Points[2]
	Close             // close the current subpath
)

var opLetters = [...]string{MoveTo: "M", LineTo: "L", CubicTo: "C", Close: "Z"}

// Letter returns the SVG path letter for the op.
func (o Op) Letter() string {
	if o < 0 || int(o) >= len(opLetters) {
		return "?"
	}
	return opLetters[o]
}

// MarshalText encodes the op as its path letter.
func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.Letter()), nil
}

// Segment is one command of a Path.
type Segment struct {
	Op     Op      `json:"op"`
	Points []Point `json:"points,omitempty"`
}

// Path is an ordered list of drawing commands.
type Path struct {
	Segments []Segment `json:"segments"`
}

// Empty reports whether the path has no commands.
func (p Path) Empty() bool { return len(p.Segments) == 0 }

func (p *Path) moveTo(pt Point) {
	p.Segments = append(p.Segments, Segment{Op: MoveTo, Points: []Point{pt}})
}

func (p *Path) lineTo(pt Point) {
	p.Segments = append(p.Segments, Segment{Op: LineTo, Points: []Point{pt}})
}

func (p *Path) cubicTo(c1, c2, end Point) {
	p.Segments = append(p.Segments, Segment{Op: CubicTo, Points: []Point{c1, c2, end}})
}

func (p *Path) close() {
	p.Segments = append(p.Segments, Segment{Op: Close})
}

// Commands renders the path as SVG-style path data, e.g.
// "M0,100 L50,0 L100,100". The output is stable for identical paths and is
// suitable for snapshot comparisons.
func (p Path) Commands() string {
	parts := make([]string, 0, len(p.Segments))
	for _, s := range p.Segments {
		var sb strings.Builder
		sb.WriteString(s.Op.Letter())
		for i, pt := range s.Points {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(formatCoord(pt.X))
			sb.WriteByte(',')
			sb.WriteString(formatCoord(pt.Y))
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, " ")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BuildPaths builds the stroke path through points and the closed fill
// region between that stroke and anchorY. In curved mode each segment is a
// cubic with horizontal tangents at both ends, its controls offset by
// (curr.X-prev.X)*smoothness. No points yields two empty paths.
func BuildPaths(points []Point, mode models.LineMode, smoothness, anchorY float64) (stroke, fill Path) {
	if len(points) == 0 {
		return stroke, fill
	}
	first, last := points[0], points[len(points)-1]

	stroke.moveTo(first)
	fill.moveTo(Point{X: first.X, Y: anchorY})
	fill.lineTo(first)

	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1], points[i]
		if mode == models.LineCurved {
			dx := (curr.X - prev.X) * smoothness
			c1 := Point{X: prev.X + dx, Y: prev.Y}
			c2 := Point{X: curr.X - dx, Y: curr.Y}
			stroke.cubicTo(c1, c2, curr)
			fill.cubicTo(c1, c2, curr)
			continue
		}
		stroke.lineTo(curr)
		fill.lineTo(curr)
	}

	fill.lineTo(Point{X: last.X, Y: anchorY})
	fill.close()
	return stroke, fill
}
