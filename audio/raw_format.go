// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"math"
)

// RawFormat is the in-memory layout of decoded samples inside a Frame.
type RawFormat int

const (
	RawNone RawFormat = iota
	U8
	S16
	S16P
	S32
	S32P
	FLT
	FLTP
	DBL
	DBLP
)

var rawFormatNames = map[RawFormat]string{
	RawNone: "none",
	U8:      "u8",
	S16:     "s16",
	S16P:    "s16p",
	S32:     "s32",
	S32P:    "s32p",
	FLT:     "flt",
	FLTP:    "fltp",
	DBL:     "dbl",
	DBLP:    "dblp",
}

func (f RawFormat) String() string {
	if s, ok := rawFormatNames[f]; ok {
		return s
	}
	return "unknown"
}

// IsPlanar reports whether each channel lives in its own plane.
func (f RawFormat) IsPlanar() bool {
	switch f {
	case S16P, S32P, FLTP, DBLP:
		return true
	default:
		return false
	}
}

// BytesPerSample returns the storage size of one sample of one channel.
func (f RawFormat) BytesPerSample() int {
	switch f {
	case U8:
		return 1
	case S16, S16P:
		return 2
	case S32, S32P, FLT, FLTP:
		return 4
	case DBL, DBLP:
		return 8
	default:
		return 0
	}
}

// SampleFormat maps the raw layout to the caller-facing sample format.
func (f RawFormat) SampleFormat() SampleFormat {
	switch f {
	case S32, S32P:
		return Int32
	case FLT, FLTP:
		return Float32
	case DBL, DBLP:
		return Float64
	default:
		return Int16
	}
}

// sample decodes the i-th little-endian sample from b.
func (f RawFormat) sample(b []byte, i int) float32 {
	switch f {
	case U8:
		return (float32(b[i]) - 128) / 128
	case S16, S16P:
		return float32(int16(binary.LittleEndian.Uint16(b[2*i:]))) / 32768
	case S32, S32P:
		return float32(float64(int32(binary.LittleEndian.Uint32(b[4*i:]))) / 2147483648)
	case FLT, FLTP:
		return math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	case DBL, DBLP:
		return float32(math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:])))
	default:
		return 0
	}
}

// putSample encodes v as the i-th little-endian sample of b.
func (f RawFormat) putSample(b []byte, i int, v float64) {
	switch f {
	case U8:
		b[i] = uint8(clampRound(v*128, -128, 127) + 128)
	case S16, S16P:
		binary.LittleEndian.PutUint16(b[2*i:], uint16(int16(clampRound(v*32768, math.MinInt16, math.MaxInt16))))
	case S32, S32P:
		binary.LittleEndian.PutUint32(b[4*i:], uint32(int32(clampRound(v*2147483648, math.MinInt32, math.MaxInt32))))
	case FLT, FLTP:
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(float32(v)))
	case DBL, DBLP:
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(v))
	}
}

func clampRound(v, lo, hi float64) float64 {
	v = math.Round(v)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
