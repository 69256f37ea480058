// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{"zero", 0, 0},
		{"max positive", 1, math.MaxInt16},
		{"max negative", -1, -math.MaxInt16},
		{"half positive", 0.5, 16383},
		{"half negative", -0.5, -16383},
		{"clamp positive", 1.5, math.MaxInt16},
		{"clamp negative", -3, -math.MaxInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Float32ToInt16(tt.input); got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFloat32ToInt16_Monotonic(t *testing.T) {
	t.Parallel()

	prev := Float32ToInt16(-1)
	for f := -0.99; f <= 1.0; f += 0.01 {
		curr := Float32ToInt16(float32(f))
		if curr < prev {
			t.Errorf("f=%v gives %v, previous was %v", f, curr, prev)
		}
		if curr+Float32ToInt16(float32(-f)) != 0 {
			t.Errorf("Float32ToInt16 not symmetric at %v", f)
		}
		prev = curr
	}
}

func TestFloat32ToInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		x    float32
		bits int
		want int
	}{
		{0, 8, 128},
		{1, 8, 255},
		{-1, 8, 1},
		{0.5, 16, 16384},
		{-1, 16, -32767},
		{2, 16, 32767},
		{0.5, 24, 4194304},
		{-1, 24, -8388607},
		{1, 32, 2147483647},
		{0, 32, 0},
	}

	for _, tt := range tests {
		if got := Float32ToInt(tt.x, tt.bits); got != tt.want {
			t.Errorf("Float32ToInt(%v, %d) = %d, want %d", tt.x, tt.bits, got, tt.want)
		}
	}
}

func TestQuantize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		x    float32
		bits int
		want float32
	}{
		{0.5, 16, 0.5},
		{0.3, 16, 9830.0 / 32768},
		{0.3, 8, 38.0 / 128},
		{-0.3, 8, -38.0 / 128},
		{1.5, 16, 1},
		{-2, 24, -1},
	}

	for _, tt := range tests {
		if got := Quantize(tt.x, tt.bits); got != tt.want {
			t.Errorf("Quantize(%v, %d) = %v, want %v", tt.x, tt.bits, got, tt.want)
		}
	}
}

func BenchmarkFloat32ToInt16(b *testing.B) {
	in := make([]float32, 8000)
	out := make([]int16, 8000)
	for i := range in {
		in[i] = float32(math.Sin(float64(i) * 0.1))
	}

	b.ReportAllocs()
	for b.Loop() {
		for j := range in {
			out[j] = Float32ToInt16(in[j])
		}
	}
}

func TestFloat32ToInt16_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	buf := make([]float32, 1024)
	out := make([]int16, 1024)
	allocs := testing.AllocsPerRun(100, func() {
		for i := range buf {
			out[i] = Float32ToInt16(buf[i])
		}
	})
	if allocs > 0 {
		t.Errorf("batch conversion allocated %v times, want 0", allocs)
	}
}
