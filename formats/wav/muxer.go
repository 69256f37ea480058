// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/output"
)

// Muxer writes the first audio stream of a context as RIFF/WAVE. Tags end up
// in a LIST/INFO chunk after the sample data.
type Muxer struct {
	w       io.WriteSeeker
	enc     *wav.Encoder
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

	p := m.stream.Params
	audioFormat := formatPCM
	if m.stream.CodecID == audio.CodecPCMF32LE {
		audioFormat = formatIEEEFloat
	}

	m.enc = wav.NewEncoder(m.w, p.SampleRate, p.BitsPerRawSample, p.Channels, audioFormat)
	m.enc.Metadata = metadataFromTags(c.Tags)

	return nil
}

// WritePacket skips packets of other streams; WAV holds a single one.
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
		return fmt.Errorf("closing wav encoder: %w", err)
	}
	return nil
}
