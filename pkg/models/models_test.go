package models

import (
	"encoding/json"
	"errors"
	"testing"
)

// ── Kind Tests ──

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"line", KindLine},
		{"", KindLine},
		{" Bar ", KindBar},
		{"DELTA", KindDelta},
		{"openclose", KindOpenClose},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil {
			t.Fatalf("ParseKind(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParseKind("candle"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(candle) error = %v, want ErrUnknownKind", err)
	}
}

func TestKindIsBar(t *testing.T) {
	if KindLine.IsBar() {
		t.Error("line should not be a bar kind")
	}
	for _, k := range []Kind{KindBar, KindDelta, KindOpenClose} {
		if !k.IsBar() {
			t.Errorf("%s should be a bar kind", k)
		}
	}
}

// ── LineMode Tests ──

func TestParseLineMode(t *testing.T) {
	if m, err := ParseLineMode(""); err != nil || m != LineStraight {
		t.Errorf("ParseLineMode(\"\") = %q, %v; want straight", m, err)
	}
	if m, err := ParseLineMode("Curved"); err != nil || m != LineCurved {
		t.Errorf("ParseLineMode(Curved) = %q, %v; want curved", m, err)
	}
	if _, err := ParseLineMode("stepped"); !errors.Is(err, ErrUnknownLineMode) {
		t.Errorf("ParseLineMode(stepped) error = %v, want ErrUnknownLineMode", err)
	}
}

// ── OpenClose Tests ──

func TestOpenClose(t *testing.T) {
	tests := []struct {
		name      string
		oc        OpenClose
		low, high float64
		polarity  Polarity
	}{
		{"up", OpenClose{Open: 1, Close: 3}, 1, 3, Positive},
		{"down", OpenClose{Open: 4, Close: 2}, 2, 4, Negative},
		{"flat", OpenClose{Open: 5, Close: 5}, 5, 5, Positive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.oc.Low(); got != tt.low {
				t.Errorf("Low() = %v, want %v", got, tt.low)
			}
			if got := tt.oc.High(); got != tt.high {
				t.Errorf("High() = %v, want %v", got, tt.high)
			}
			if got := tt.oc.Polarity(); got != tt.polarity {
				t.Errorf("Polarity() = %v, want %v", got, tt.polarity)
			}
		})
	}
}

func TestPolarityJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Polarity{"a": Positive, "b": Negative})
	if err != nil {
		t.Fatalf("json.Marshal error: %v", err)
	}
	if got, want := string(data), `{"a":"positive","b":"negative"}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
