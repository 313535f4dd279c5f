package geometry

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seenimoa/stockgraph/pkg/models"
)

func ptr(v float64) *float64 { return &v }

func TestLineRange(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		o      Override
		want   Range
	}{
		{"empty", nil, Override{}, Range{0, 1}},
		{"data only", []float64{10, 20, 10}, Override{}, Range{10, 20}},
		{"both overrides win", []float64{10, 20}, Override{Min: ptr(0), Max: ptr(100)}, Range{0, 100}},
		{"min override only", []float64{10, 20}, Override{Min: ptr(5)}, Range{5, 20}},
		{"max override only", []float64{10, 20}, Override{Max: ptr(50)}, Range{10, 50}},
		{"all equal collapses", []float64{7, 7, 7}, Override{}, Range{7, 8}},
		{"override inverts range", []float64{10, 20}, Override{Min: ptr(30)}, Range{30, 31}},
		{"overrides on empty series", nil, Override{Min: ptr(-5), Max: ptr(5)}, Range{-5, 5}},
		{"negative values", []float64{-3, -9, -1}, Override{}, Range{-9, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineRange(tt.values, tt.o))
		})
	}
}

func TestDeltaRange(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		baseline float64
		ratio    float64
		want     Range
	}{
		{"empty", nil, 0, 0.1, Range{-1, 1}},
		{"straddles baseline", []float64{3, -2}, 0, 0, Range{-2, 3}},
		{"baseline below data", []float64{5, 8}, 0, 0, Range{0, 8}},
		{"baseline above data", []float64{5, 8}, 10, 0, Range{5, 10}},
		{"padding pushes both bounds", []float64{3, -2}, 0, 0.1, Range{-2.5, 3.5}},
		{"all at baseline", []float64{4, 4}, 4, 0.2, Range{4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeltaRange(tt.values, tt.baseline, tt.ratio)
			assert.InDelta(t, tt.want.Min, got.Min, 1e-9)
			assert.InDelta(t, tt.want.Max, got.Max, 1e-9)
		})
	}
}

func TestOpenCloseRange(t *testing.T) {
	assert.Equal(t, Range{0, 1}, OpenCloseRange(nil))

	pairs := []models.OpenClose{
		{Open: 10, Close: 12},
		{Open: 12, Close: 8},
		{Open: 9, Close: 15},
	}
	assert.Equal(t, Range{8, 15}, OpenCloseRange(pairs))

	flat := []models.OpenClose{{Open: 3, Close: 3}}
	assert.Equal(t, Range{3, 4}, OpenCloseRange(flat))
}

func TestRangesAlwaysHavePositiveSpan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(20)
		values := make([]float64, n)
		pairs := make([]models.OpenClose, n)
		for j := range values {
			values[j] = float64(rng.Intn(5)) - 2
			pairs[j] = models.OpenClose{Open: values[j], Close: float64(rng.Intn(5)) - 2}
		}
		baseline := float64(rng.Intn(5)) - 2

		for _, r := range []Range{
			LineRange(values, Override{}),
			DeltaRange(values, baseline, rng.Float64()),
			OpenCloseRange(pairs),
		} {
			if !(r.Max > r.Min) {
				t.Fatalf("range %+v has non-positive span for %v", r, values)
			}
		}
	}
}
