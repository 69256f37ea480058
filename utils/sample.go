// SPDX-License-Identifier: EPL-2.0

// Package utils has the scalar sample helpers used by the resampler and the
// muxers.
package utils

import "math"

func clamp(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// Float32ToInt16 truncates x to 16 bits. Full scale is 32767 on both sides.
func Float32ToInt16(x float32) int16 {
	return int16(clamp(x) * 32767.0)
}

// Float32ToInt scales x to a signed integer of bitDepth bits. 8-bit output is
// unsigned with a 128 offset, matching WAV and go-audio conventions.
func Float32ToInt(x float32, bitDepth int) int {
	x = clamp(x)

	switch bitDepth {
	case 8:
		return int(math.Round(float64(x)*127)) + 128
	case 24:
		return int(math.Round(float64(x) * 8388607))
	case 32:
		return int(math.Round(float64(x) * 2147483647))
	default:
		return int(math.Round(float64(x) * 32767))
	}
}

// Quantize rounds x to the nearest value representable with bits of signed
// precision, after clamping to [-1, 1].
func Quantize(x float32, bits int) float32 {
	scale := float64(int64(1) << (bits - 1))
	return float32(math.Round(float64(clamp(x))*scale) / scale)
}
