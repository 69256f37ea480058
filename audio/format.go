// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"strconv"
	"strings"
)

// SampleFormat is the numeric representation of a single PCM sample as seen
// by the caller of the engine.
type SampleFormat int

const (
	Int16 SampleFormat = iota
	Int24
	Int32
	Float32
	Float64
)

// BytesPerSample returns the storage size of one sample.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case Int16:
		return 2
	case Int24:
		return 3
	case Int32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// BitsPerSample returns the precision of one sample in bits.
func (f SampleFormat) BitsPerSample() int { return f.BytesPerSample() * 8 }

// IsFloat reports whether the format stores IEEE-754 samples.
func (f SampleFormat) IsFloat() bool { return f == Float32 || f == Float64 }

func (f SampleFormat) String() string {
	switch f {
	case Int16:
		return "int16"
	case Int24:
		return "int24"
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "SampleFormat(" + strconv.Itoa(int(f)) + ")"
	}
}

// Planar returns the raw planar layout the engine produces for this format.
func (f SampleFormat) Planar() RawFormat {
	switch f {
	case Int16:
		return S16P
	case Int24, Int32:
		return S32P
	case Float64:
		return DBLP
	default:
		return FLTP
	}
}

// ParseSampleFormat accepts the names returned by SampleFormat.String and the
// bit depths 16, 24, 32.
func ParseSampleFormat(s string) (SampleFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int16", "s16", "16":
		return Int16, nil
	case "int24", "s24", "24":
		return Int24, nil
	case "int32", "s32", "32":
		return Int32, nil
	case "float32", "flt", "f32", "float":
		return Float32, nil
	case "float64", "dbl", "f64", "double":
		return Float64, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownSampleFormat, s)
}

// Format describes a PCM stream: sample rate, channel count, sample format
// and layout.
type Format struct {
	SampleRate   int
	Channels     int
	SampleFormat SampleFormat
	Interleaved  bool
}

var (
	// DefaultFormat is what an engine produces when it is never configured.
	DefaultFormat = Format{SampleRate: 44100, Channels: 2, SampleFormat: Float32}

	// CDQuality is 16-bit stereo at 44.1 kHz.
	CDQuality = Format{SampleRate: 44100, Channels: 2, SampleFormat: Int16, Interleaved: true}
)

// Validate checks the channel count and sample rate invariants.
func (f Format) Validate() error {
	if f.Channels < 1 {
		return fmt.Errorf("%w: channels %d", ErrInvalidFormat, f.Channels)
	}
	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, f.SampleRate)
	}
	if f.SampleFormat.BytesPerSample() == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidFormat, f.SampleFormat)
	}

	return nil
}

// String renders the format as e.g. "44.1kHz/32-bit/2ch".
func (f Format) String() string {
	khz := strconv.FormatFloat(float64(f.SampleRate)/1000, 'f', -1, 64)
	return fmt.Sprintf("%skHz/%d-bit/%dch", khz, f.SampleFormat.BitsPerSample(), f.Channels)
}

// StandardSampleRates lists the rates commonly offered for output.
var StandardSampleRates = []int{44100, 48000, 88200, 96000, 176400, 192000, 352800, 384000}

// IsHiRes reports whether rate is above 48 kHz.
func IsHiRes(rate int) bool { return rate > 48000 }

// BaseFamily returns 44100 for multiples of 44.1 kHz and 48000 otherwise.
func BaseFamily(rate int) int {
	if rate > 0 && rate%44100 == 0 {
		return 44100
	}
	return 48000
}
