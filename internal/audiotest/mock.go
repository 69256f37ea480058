// SPDX-License-Identifier: EPL-2.0

// Package audiotest generates audio and image fixtures in memory.
package audiotest

import (
	"io"
	"math"
)

// Waveform returns the value of one sample in [-1, 1].
type Waveform func(sample, channel int) float32

// MockSource produces interleaved float32 samples from a Waveform. It
// satisfies audio.Source without importing the audio package, so audio's
// own tests can use it.
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // per channel
	generated    int
	waveform     Waveform
}

// NewMockSource returns a source of totalSamples frames.
func NewMockSource(sampleRate, channels, totalSamples int, waveform Waveform) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewConstantSource(sampleRate, channels, totalSamples, 0)
}

// NewSineSource plays the same sine on every channel.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, Sine(sampleRate, frequency, 1))
}

func NewConstantSource(sampleRate, channels, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 { return value })
}

// Sine returns a sine waveform of the given amplitude.
func Sine(sampleRate int, frequency, amplitude float64) Waveform {
	return func(sample, _ int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(amplitude * math.Sin(2*math.Pi*frequency*t))
	}
}

// Ramp counts from -1 towards 1 over period samples, offset per channel.
func Ramp(period int) Waveform {
	return func(sample, channel int) float32 {
		i := (sample + channel*period/4) % period
		return float32(2*float64(i)/float64(period) - 1)
	}
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }

// Frames is the total number of frames the source produces.
func (m *MockSource) Frames() int { return m.totalSamples }

// Reset rewinds the source.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalSamples-m.generated)
	for frame := range frames {
		idx := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(idx, ch)
		}
	}
	m.generated += frames

	if m.generated >= m.totalSamples {
		return frames * m.channels, io.EOF
	}

	return frames * m.channels, nil
}

// ReadAll drains the source into one interleaved slice.
func (m *MockSource) ReadAll() []float32 {
	out := make([]float32, 0, m.totalSamples*m.channels)
	buf := make([]float32, m.BufSize()*m.channels)
	for {
		n, err := m.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err != nil {
			return out
		}
	}
}
