package pulse

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestColorSRGBA(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want float32
	}{
		{"black", 0, 0},
		{"white", 1, 1},
		{"linear segment", 0.04, 0.04 / 12.92},
		{"mid gray", 0.5, 0.2140},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ColorSRGBA(tt.in, tt.in, tt.in, 1)
			if !approxEqual(float64(c.R), float64(tt.want), 1e-3) {
				t.Errorf("ColorSRGBA(%v).R = %v, want %v", tt.in, c.R, tt.want)
			}
		})
	}
}

func TestColorToWGPUPremultiplies(t *testing.T) {
	c := ColorLinearRGBA(1, 0.5, 0.25, 0.5).ToWGPU()

	if c.R != 0.5 || c.G != 0.25 || c.B != 0.125 || c.A != 0.5 {
		t.Errorf("ToWGPU() = %+v", c)
	}

	if tc := ColorTransparent.ToWGPU(); tc.R != 0 || tc.A != 0 {
		t.Errorf("transparent ToWGPU() = %+v", tc)
	}
}

// --- Rectangle ---

func TestRectangleContains(t *testing.T) {
	outer := RectangleFromXYWH[uint32](0, 0, 512, 512)

	tests := []struct {
		name  string
		inner Rectangle2u
		want  bool
	}{
		{"same", outer, true},
		{"inside", RectangleFromXYWH[uint32](10, 10, 100, 100), true},
		{"overflow x", RectangleFromXYWH[uint32](500, 0, 100, 1), false},
		{"overflow y", RectangleFromXYWH[uint32](0, 511, 1, 2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.inner); got != tt.want {
				t.Errorf("Contains(%s) = %v, want %v", tt.inner, got, tt.want)
			}
		})
	}

	if outer.Width() != 512 || outer.Height() != 512 {
		t.Errorf("size = %v", outer.Size())
	}
}
