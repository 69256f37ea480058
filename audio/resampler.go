// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"

	"github.com/ik5/avkit/utils"
)

// MaxChannels is the largest channel count a Resampler accepts.
const MaxChannels = 64

// Resampler converts planar float32 audio from one Format to another using
// cubic interpolation. Channel count changes are handled by Remix before
// interpolation. Includes basic anti-aliasing filtering when downsampling.
//
// Interpolation needs two samples of look-ahead, so a resampler keeps a short
// delay line between Convert calls. Convert with nil src drains it.
type Resampler struct {
	in       Format
	out      Format
	ratio    float64 // in rate / out rate - how many source samples per output sample
	channels int     // output channels
	bits     int     // quantization depth, 0 for float output

	// hist[c] holds pending input samples of output channel c; hist[c][0] is
	// left context for the sample at index 1.
	hist   [][]float32
	pos    float64
	primed bool

	mixed [][]float32

	// Simple low-pass filter state for anti-aliasing (when downsampling)
	filterState []float32
	useFilter   bool
	filterAlpha float32
}

// NewResampler builds a resampler for the exact in -> out pair.
func NewResampler(in, out Format) (*Resampler, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	if in.Channels > MaxChannels || out.Channels > MaxChannels {
		return nil, fmt.Errorf("%w: %d -> %d channels", ErrUnsupportedLayout, in.Channels, out.Channels)
	}

	ratio := float64(in.SampleRate) / float64(out.SampleRate)

	// Enable simple low-pass filter when downsampling
	useFilter := ratio > 1.0
	var filterAlpha float32
	if useFilter {
		// One-pole low-pass, cutoff around the destination Nyquist frequency
		filterAlpha = 0.5
	}

	var bits int
	switch out.SampleFormat {
	case Int16, Int24:
		bits = out.SampleFormat.BitsPerSample()
	}

	return &Resampler{
		in:          in,
		out:         out,
		ratio:       ratio,
		channels:    out.Channels,
		bits:        bits,
		hist:        make([][]float32, out.Channels),
		useFilter:   useFilter,
		filterAlpha: filterAlpha,
		filterState: make([]float32, out.Channels),
	}, nil
}

// InputFormat returns the configured source format.
func (r *Resampler) InputFormat() Format { return r.in }

// OutputFormat returns the configured destination format.
func (r *Resampler) OutputFormat() Format { return r.out }

// OutSamples returns an upper bound of the samples per channel the next
// Convert call produces for n input samples (n = 0 for a drain).
func (r *Resampler) OutSamples(n int) int {
	if r.ratio == 1 && len(r.hist[0]) == 0 {
		return n
	}
	pending := float64(len(r.hist[0])+n+2) - r.pos
	if pending <= 0 {
		return 0
	}
	return int(math.Ceil(pending/r.ratio)) + 1
}

// Convert resamples n samples of src (one plane per input channel) into dst
// (one plane per output channel) and returns the samples written per
// channel. Output stops when dst is full; the rest stays buffered. A nil src
// drains the delay line and resets the resampler.
func (r *Resampler) Convert(dst, src [][]float32, n int) (int, error) {
	if len(dst) < r.channels {
		return 0, ErrInvalidDstSize
	}
	if src == nil {
		return r.drain(dst), nil
	}
	if len(src) < r.in.Channels {
		return 0, fmt.Errorf("%w: got %d planes, want %d", ErrUnsupportedLayout, len(src), r.in.Channels)
	}
	if n == 0 {
		return 0, nil
	}

	r.mixed = GrowPlanes(r.mixed, r.channels, n)
	Remix(r.mixed, src[:r.in.Channels], n)

	if r.ratio == 1 && len(r.hist[0]) == 0 {
		// Same rate: no interpolation and no delay line.
		written := min(n, len(dst[0]))
		for c := range r.channels {
			for i := range written {
				dst[c][i] = r.quantize(r.mixed[c][i])
			}
			if written < n {
				r.hist[c] = append(r.hist[c], r.mixed[c][written:n]...)
			}
		}
		if written < n {
			r.primeFromPending()
		}
		return written, nil
	}

	r.appendInput(n)

	return r.produce(dst, math.Inf(1)), nil
}

// Reset discards buffered samples and filter state.
func (r *Resampler) Reset() {
	for c := range r.hist {
		r.hist[c] = r.hist[c][:0]
		r.filterState[c] = 0
	}
	r.pos = 0
	r.primed = false
}

// primeFromPending turns samples left over by the same-rate path into a
// regular delay line.
func (r *Resampler) primeFromPending() {
	for c := range r.hist {
		r.hist[c] = append([]float32{r.hist[c][0]}, r.hist[c]...)
	}
	r.pos = 1
	r.primed = true
}

func (r *Resampler) appendInput(n int) {
	for c := range r.channels {
		plane := r.mixed[c][:n]

		if r.useFilter {
			if !r.primed {
				// Initialize filter state with first sample to avoid warm-up transients
				r.filterState[c] = plane[0]
			}
			for i, x := range plane {
				// One-pole low-pass: y[n] = alpha * x[n] + (1-alpha) * y[n-1]
				y := r.filterAlpha*x + (1-r.filterAlpha)*r.filterState[c]
				r.filterState[c] = y
				plane[i] = y
			}
		}

		if !r.primed {
			// Duplicate the first frame as left context
			r.hist[c] = append(r.hist[c][:0], plane[0])
		}
		r.hist[c] = append(r.hist[c], plane...)
	}

	if !r.primed {
		r.pos = 1
		r.primed = true
	}
}

// produce interpolates output samples while four frames of context exist and
// pos stays below limit.
func (r *Resampler) produce(dst [][]float32, limit float64) int {
	written := 0
	size := len(r.hist[0])

	for written < len(dst[0]) && r.pos < limit {
		i := int(r.pos)
		if i+2 >= size {
			break
		}
		alpha := float32(r.pos - float64(i))

		for c := range r.channels {
			h := r.hist[c]
			dst[c][written] = r.quantize(utils.CubicInterpolate(h[i-1], h[i], h[i+1], h[i+2], alpha))
		}

		written++
		r.pos += r.ratio
	}

	// Keep one frame of left context before the current position
	if drop := int(r.pos) - 1; drop > 0 {
		drop = min(drop, size)
		for c := range r.channels {
			r.hist[c] = append(r.hist[c][:0], r.hist[c][drop:]...)
		}
		r.pos -= float64(drop)
	}

	return written
}

func (r *Resampler) drain(dst [][]float32) int {
	if !r.primed || len(r.hist[0]) == 0 {
		r.Reset()
		return 0
	}

	limit := float64(len(r.hist[0]))
	for c := range r.channels {
		last := r.hist[c][len(r.hist[c])-1]
		r.hist[c] = append(r.hist[c], last, last)
	}

	written := r.produce(dst, limit)
	r.Reset()

	return written
}

func (r *Resampler) quantize(x float32) float32 {
	if r.bits == 0 {
		return x
	}
	return utils.Quantize(x, r.bits)
}
