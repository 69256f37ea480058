// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/output"
	"github.com/sirupsen/logrus"
)

// Muxer writes the first audio stream of a context as integer AIFF. AIFF
// has no tag chunk support in go-audio, so tags are dropped.
type Muxer struct {
	w       io.WriteSeeker
	enc     *aiff.Encoder
	stream  *audio.Stream
	samples []int
}

// NewMuxer returns a muxer writing to w.
func NewMuxer(w io.WriteSeeker) output.Muxer {
	return &Muxer{w: w}
}

func (m *Muxer) WriteHeader(c *output.Context) error {
	for _, s := range c.Streams() {
		if s.MediaType == audio.MediaAudio {
			m.stream = s
			break
		}
	}
	if m.stream == nil {
		return output.ErrNoStreams
	}
	if m.stream.CodecID == audio.CodecPCMF32LE {
		return fmt.Errorf("%w: aiff stores integer samples only", output.ErrUnsupportedCodec)
	}

	if c.Tags.Len() > 0 {
		c.Logger().WithFields(logrus.Fields{
			"function": "WriteHeader",
			"tags":     c.Tags.Len(),
		}).Debug("AIFF output drops tags")
	}

	p := m.stream.Params
	m.enc = aiff.NewEncoder(m.w, p.SampleRate, p.BitsPerRawSample, p.Channels)

	return nil
}

func (m *Muxer) WritePacket(_ *output.Context, pkt *audio.Packet) error {
	if pkt.StreamIndex != m.stream.Index {
		return nil
	}

	var err error
	m.samples, err = output.DecodePCM(m.samples, pkt.Data, m.stream.CodecID)
	if err != nil {
		return err
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: m.stream.Params.Channels,
			SampleRate:  m.stream.Params.SampleRate,
		},
		Data:           m.samples,
		SourceBitDepth: m.stream.Params.BitsPerRawSample,
	}
	if err := m.enc.Write(buf); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *Muxer) WriteTrailer(*output.Context) error {
	if err := m.enc.Close(); err != nil {
		return fmt.Errorf("closing aiff encoder: %w", err)
	}
	return nil
}
