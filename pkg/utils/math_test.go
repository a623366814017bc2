package utils

import (
	"math"
	"testing"
)

func TestNormalizeL2(t *testing.T) {
	x := []float64{3, 4}
	NormalizeL2(x)
	if math.Abs(x[0]-0.6) > 1e-9 || math.Abs(x[1]-0.8) > 1e-9 {
		t.Errorf("NormalizeL2([3 4]) = %v, want [0.6 0.8]", x)
	}

	zero := []float64{0, 0}
	NormalizeL2(zero)
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector should be unchanged, got %v", zero)
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.5, 0.5},
		{-0.1, 0},
		{1.7, 1},
		{math.NaN(), 0},
		{0, 0},
		{1, 1},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}
