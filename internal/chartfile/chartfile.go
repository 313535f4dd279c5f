// Package chartfile decodes chart documents (YAML or JSON) and turns them
// into configured charts.
//
// A document names the chart kind, the canvas size, the data and any style
// options to change from the configured defaults:
//
//	kind: delta
//	width: 640
//	height: 240
//	values: [3, -2, 5, -1]
//	baseline: 0
//	style:
//	  bar_corner_radius: 3
//	  vertical_padding_ratio: 0.1
package chartfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/seenimoa/stockgraph/internal/chart"
	"github.com/seenimoa/stockgraph/pkg/models"
)

// ErrUnsupportedFormat is returned for file extensions other than
// .yaml, .yml and .json.
var ErrUnsupportedFormat = errors.New("unsupported chart document format")

// Format is a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// RangeOverride holds optional user range bounds.
type RangeOverride struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Document is a decoded chart document.
type Document struct {
	Name   string  `json:"name,omitempty"   yaml:"name,omitempty"`
	Kind   string  `json:"kind"             yaml:"kind"`
	Width  float64 `json:"width,omitempty"  yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`

	// Values feeds line, bar and delta charts.
	Values []float64 `json:"values,omitempty" yaml:"values,omitempty"`

	// Open/close data, in any one of three shapes.
	Opens  []float64          `json:"opens,omitempty"  yaml:"opens,omitempty"`
	Closes []float64          `json:"closes,omitempty" yaml:"closes,omitempty"`
	Flat   []float64          `json:"flat,omitempty"   yaml:"flat,omitempty"`
	Pairs  []models.OpenClose `json:"pairs,omitempty"  yaml:"pairs,omitempty"`

	Range    *RangeOverride `json:"range,omitempty"    yaml:"range,omitempty"`
	Baseline float64        `json:"baseline,omitempty" yaml:"baseline,omitempty"`
	Style    chart.Style    `json:"style"              yaml:"style"`
}

// Defaults seeds the fields a document may leave out.
type Defaults struct {
	Width  float64
	Height float64
	Style  chart.Style
}

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads and decodes the document at path.
func Load(path string, def Defaults) (*Document, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chart document: %w", err)
	}
	doc, err := Parse(data, format, def)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

// Parse decodes a document. Fields the document omits keep the values in def.
func Parse(data []byte, format Format, def Defaults) (*Document, error) {
	doc := &Document{Width: def.Width, Height: def.Height, Style: def.Style}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks the fields that cannot be clamped.
func (d *Document) Validate() error {
	if _, err := models.ParseKind(d.Kind); err != nil {
		return err
	}
	if _, err := models.ParseLineMode(string(d.Style.LineMode)); err != nil {
		return err
	}
	if !positive(d.Width) || !positive(d.Height) {
		return fmt.Errorf("%w: canvas %gx%g must be positive", chart.ErrInvalidArgument, d.Width, d.Height)
	}
	if !finite(d.Baseline) {
		return fmt.Errorf("%w: baseline %g is not finite", chart.ErrInvalidArgument, d.Baseline)
	}
	if d.Range != nil {
		for _, b := range []*float64{d.Range.Min, d.Range.Max} {
			if b != nil && !finite(*b) {
				return fmt.Errorf("%w: range bound %g is not finite", chart.ErrInvalidArgument, *b)
			}
		}
	}
	for _, series := range [][]float64{d.Values, d.Opens, d.Closes, d.Flat} {
		if err := FiniteValues(series); err != nil {
			return err
		}
	}
	for i, p := range d.Pairs {
		if !finite(p.Open) || !finite(p.Close) {
			return fmt.Errorf("%w: pair %d is not finite", chart.ErrInvalidArgument, i)
		}
	}
	return nil
}

// FiniteValues returns chart.ErrInvalidArgument if any value is NaN or ±Inf.
func FiniteValues(values []float64) error {
	for i, v := range values {
		if !finite(v) {
			return fmt.Errorf("%w: value %d (%g) is not finite", chart.ErrInvalidArgument, i, v)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Build creates the chart the document describes. Paired-series errors are
// returned as chart.ErrInvalidArgument.
func (d *Document) Build() (*chart.Chart, error) {
	kind, err := models.ParseKind(d.Kind)
	if err != nil {
		return nil, err
	}
	style := d.Style
	style.LineMode, _ = models.ParseLineMode(string(style.LineMode))

	c := chart.New(kind, style)
	if err := d.Apply(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply pushes the document's data, range and baseline into an existing
// chart. Paired data is applied before anything else so that an invalid
// pairing leaves c untouched.
func (d *Document) Apply(c *chart.Chart) error {
	switch {
	case len(d.Opens) > 0 || len(d.Closes) > 0:
		if err := c.SetPairedSeries(d.Opens, d.Closes); err != nil {
			return err
		}
	case len(d.Flat) > 0:
		if err := c.SetFlatPairedSeries(d.Flat); err != nil {
			return err
		}
	case len(d.Pairs) > 0:
		opens := make([]float64, len(d.Pairs))
		closes := make([]float64, len(d.Pairs))
		for i, p := range d.Pairs {
			opens[i], closes[i] = p.Open, p.Close
		}
		if err := c.SetPairedSeries(opens, closes); err != nil {
			return err
		}
	}
	if d.Values != nil {
		c.SetSeries(d.Values)
	}
	if d.Range != nil {
		c.SetRangeOverride(d.Range.Min, d.Range.Max)
	}
	c.SetBaseline(d.Baseline)
	return nil
}
