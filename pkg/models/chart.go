// Package models defines the shared data types for stockgraph charts.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned when a chart kind name is not recognised.
var ErrUnknownKind = errors.New("unknown chart kind")

// ErrUnknownLineMode is returned when a line mode name is not recognised.
var ErrUnknownLineMode = errors.New("unknown line mode")

// Kind selects which geometry mode a chart renders with.
type Kind string

const (
	KindLine      Kind = "line"      // line graph through every value
	KindBar       Kind = "bar"       // simple bars rising from the range minimum
	KindDelta     Kind = "delta"     // bars above/below a baseline
	KindOpenClose Kind = "openclose" // one bar per open/close pair
)

// ParseKind converts a kind name (case-insensitive) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindLine, KindBar, KindDelta, KindOpenClose:
		return k, nil
	case "":
		return KindLine, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// IsBar reports whether the kind draws bars rather than a line.
func (k Kind) IsBar() bool {
	return k == KindBar || k == KindDelta || k == KindOpenClose
}

// LineMode selects how consecutive line points are joined.
type LineMode string

const (
	LineStraight LineMode = "straight"
	LineCurved   LineMode = "curved"
)

// ParseLineMode converts a mode name (case-insensitive) to a LineMode.
// An empty name means straight.
func ParseLineMode(s string) (LineMode, error) {
	switch m := LineMode(strings.ToLower(strings.TrimSpace(s))); m {
	case LineStraight, LineCurved:
		return m, nil
	case "":
		return LineStraight, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLineMode, s)
	}
}

// Polarity classifies a bar for fill color selection.
// Positive doubles as "up" for open/close bars.
type Polarity int

const (
	Positive Polarity = iota
	Negative
)

// String returns "positive" or "negative".
func (p Polarity) String() string {
	if p == Negative {
		return "negative"
	}
	return "positive"
}

// MarshalText encodes the polarity by name.
func (p Polarity) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// OpenClose is a single open/close bar entry.
type OpenClose struct {
	Open  float64 `json:"open"  yaml:"open"`
	Close float64 `json:"close" yaml:"close"`
}

// Low returns the lower of open and close.
func (oc OpenClose) Low() float64 {
	if oc.Close < oc.Open {
		return oc.Close
	}
	return oc.Open
}

// High returns the higher of open and close.
func (oc OpenClose) High() float64 {
	if oc.Close > oc.Open {
		return oc.Close
	}
	return oc.Open
}

// Polarity is Positive (up) when close >= open, Negative (down) otherwise.
func (oc OpenClose) Polarity() Polarity {
	if oc.Close < oc.Open {
		return Negative
	}
	return Positive
}
