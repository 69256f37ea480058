// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/avkit/utils"
)

// PCMBuffer is a borrowed view of planar float32 audio. It is only valid
// inside the callback it was passed to; use Copy to keep the samples.
type PCMBuffer struct {
	// Data holds one plane per channel, each Frames long.
	Data       [][]float32
	Frames     int
	SampleRate int
	// Format is the output format the samples were produced for.
	Format Format
}

// Channels returns the number of planes.
func (b PCMBuffer) Channels() int { return len(b.Data) }

// Duration returns the play time of the buffer.
func (b PCMBuffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames) * time.Second / time.Duration(b.SampleRate)
}

// Copy returns a buffer that owns its samples.
func (b PCMBuffer) Copy() PCMBuffer {
	c := b
	c.Data = make([][]float32, len(b.Data))
	for ch, plane := range b.Data {
		c.Data[ch] = append([]float32(nil), plane[:b.Frames]...)
	}
	return c
}

// Interleave appends the samples to dst in interleaved order.
func (b PCMBuffer) Interleave(dst []float32) []float32 {
	for i := range b.Frames {
		for _, plane := range b.Data {
			dst = append(dst, plane[i])
		}
	}
	return dst
}

// IntBuffer converts the samples to an interleaved go-audio buffer at
// bitDepth (8, 16, 24 or 32).
func (b PCMBuffer) IntBuffer(bitDepth int) *goaudio.IntBuffer {
	data := make([]int, 0, b.Frames*len(b.Data))
	for i := range b.Frames {
		for _, plane := range b.Data {
			data = append(data, utils.Float32ToInt(plane[i], bitDepth))
		}
	}

	return &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: len(b.Data), SampleRate: b.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
}
