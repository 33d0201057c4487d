package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGini(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "empty", values: nil, want: 0},
		{name: "single value", values: []float64{42}, want: 0},
		{name: "only non-positive", values: []float64{0, -3, 0}, want: 0},
		{name: "all equal", values: []float64{5, 5, 5, 5}, want: 0},
		{name: "two entities", values: []float64{1, 3}, want: 0.25},
		{name: "one dominant", values: []float64{0, 0, 100, 1}, want: 99.0 / 202.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Gini(tt.values), 1e-9)
		})
	}
}

func TestGini_PermutationInvariant(t *testing.T) {
	a := []float64{50, 20, 15, 10, 5}
	b := []float64{5, 15, 50, 10, 20}
	assert.InDelta(t, Gini(a), Gini(b), 1e-12)
}

func TestGini_Bounds(t *testing.T) {
	inputs := [][]float64{
		{1, 2, 3, 4, 5},
		{1, 1, 1, 1000000},
		{0.001, 0.002, 999},
		{7},
	}
	for _, in := range inputs {
		g := Gini(in)
		assert.GreaterOrEqual(t, g, 0.0)
		assert.LessOrEqual(t, g, 1.0)
	}
}

func TestGini_DoesNotReorderInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Gini(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestNakamoto(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   int
	}{
		{name: "empty", values: []float64{}, want: 0},
		{name: "only zeros", values: []float64{0, 0}, want: 0},
		{name: "four equal", values: []float64{10, 10, 10, 10}, want: 2},
		{name: "majority holder", values: []float64{50, 20, 15, 10, 5}, want: 1},
		{name: "unsorted input", values: []float64{5, 10, 30, 25, 30}, want: 2},
		{name: "single", values: []float64{3}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nakamoto(tt.values))
		})
	}
}

func TestNakamoto_ConcentrationNeverIncreases(t *testing.T) {
	spread := []float64{10, 10, 10, 10, 10, 10}
	concentrated := []float64{30, 10, 10, 10}
	all := []float64{60}

	assert.LessOrEqual(t, Nakamoto(concentrated), Nakamoto(spread))
	assert.LessOrEqual(t, Nakamoto(all), Nakamoto(concentrated))
}

func TestNakamoto_BoundedByPositiveEntities(t *testing.T) {
	values := []float64{1, 0, 2, 0, 3}
	assert.LessOrEqual(t, Nakamoto(values), 3)
}
