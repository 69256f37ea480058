// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"io"

	"github.com/ik5/avkit/audio"
	"github.com/sirupsen/logrus"
)

// Muxer writes a container. WriteHeader sees the final stream list and
// tags; WritePacket is called for every packet between header and trailer.
type Muxer interface {
	WriteHeader(c *Context) error
	WritePacket(c *Context, pkt *audio.Packet) error
	WriteTrailer(c *Context) error
}

type state int

const (
	stateBuilding state = iota
	stateHeaderWritten
	stateTrailerWritten
)

// Context is an output container under construction. Streams and tags may
// only change before WriteHeader; packets may only be written between
// WriteHeader and WriteTrailer.
type Context struct {
	Format Format
	Tags   *audio.Tags

	streams []*audio.Stream
	muxer   Muxer
	state   state
	scratch audio.Packet
	logger  logrus.FieldLogger
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger used for debug output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Context) { c.logger = l }
}

// NewContext returns a context writing through m.
func NewContext(f Format, m Muxer, opts ...Option) *Context {
	c := &Context{
		Format: f,
		Tags:   &audio.Tags{},
		muxer:  m,
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// HeaderWritten reports whether WriteHeader succeeded.
func (c *Context) HeaderWritten() bool { return c.state >= stateHeaderWritten }

// Logger returns the context logger, for helpers that write into it.
func (c *Context) Logger() logrus.FieldLogger { return c.logger }

// Streams returns the registered streams.
func (c *Context) Streams() []*audio.Stream { return c.streams }

// Stream returns stream i.
func (c *Context) Stream(i int) (*audio.Stream, bool) {
	if i < 0 || i >= len(c.streams) {
		return nil, false
	}
	return c.streams[i], true
}

// NewStream appends a stream of the given media type.
func (c *Context) NewStream(mt audio.MediaType) (*audio.Stream, error) {
	if c.state != stateBuilding {
		return nil, ErrHeaderWritten
	}

	s := &audio.Stream{
		Index:     len(c.streams),
		MediaType: mt,
		Duration:  -1,
	}
	c.streams = append(c.streams, s)

	return s, nil
}

// NewAudioStream appends an audio stream carrying interleaved PCM of the
// given depth.
func (c *Context) NewAudioStream(sampleRate, channels, bits int, float bool) (*audio.Stream, error) {
	codecID, err := PCMCodecForBits(bits, float)
	if err != nil {
		return nil, err
	}

	s, err := c.NewStream(audio.MediaAudio)
	if err != nil {
		return nil, err
	}

	format, _ := audio.PCMOutputFormat(codecID)
	s.CodecID = codecID
	s.CodecName = codecID
	s.TimeBase = audio.Rational{Num: 1, Den: int64(sampleRate)}
	s.Params = audio.CodecParameters{
		SampleRate:       sampleRate,
		Channels:         channels,
		Format:           format,
		BitsPerRawSample: bits,
	}

	return s, nil
}

// SetTag sets a container level tag. Empty values remove the key.
func (c *Context) SetTag(key, value string) error {
	if c.state != stateBuilding {
		return ErrHeaderWritten
	}
	c.Tags.Set(key, value)

	return nil
}

// WriteHeader finalizes streams and tags and writes the container header.
func (c *Context) WriteHeader() error {
	switch c.state {
	case stateHeaderWritten:
		return ErrHeaderWritten
	case stateTrailerWritten:
		return ErrTrailerWritten
	}
	if len(c.streams) == 0 {
		return ErrNoStreams
	}

	if err := c.muxer.WriteHeader(c); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	c.state = stateHeaderWritten

	c.logger.WithFields(logrus.Fields{
		"function": "WriteHeader",
		"format":   c.Format.String(),
		"streams":  len(c.streams),
		"tags":     c.Tags.Len(),
	}).Debug("Header written")

	return nil
}

// WritePacket hands pkt to the muxer. The muxer must not retain pkt.
func (c *Context) WritePacket(pkt *audio.Packet) error {
	switch c.state {
	case stateBuilding:
		return ErrHeaderNotWritten
	case stateTrailerWritten:
		return ErrTrailerWritten
	}
	if _, ok := c.Stream(pkt.StreamIndex); !ok {
		return fmt.Errorf("%w: %d", ErrInvalidStream, pkt.StreamIndex)
	}

	if err := c.muxer.WritePacket(c, pkt); err != nil {
		return fmt.Errorf("write packet: %w", err)
	}

	return nil
}

// WriteInterleavedPacket takes over the payload of pkt, writes it and resets
// pkt. The caller may reuse pkt afterwards.
func (c *Context) WriteInterleavedPacket(pkt *audio.Packet) error {
	c.scratch.StreamIndex = pkt.StreamIndex
	c.scratch.Data = append(c.scratch.Data[:0], pkt.Data...)
	c.scratch.PTS = pkt.PTS
	c.scratch.Duration = pkt.Duration
	c.scratch.Flags = pkt.Flags
	pkt.Unref()

	return c.WritePacket(&c.scratch)
}

// WriteAudio encodes buf for audio stream streamIndex and writes it.
func (c *Context) WriteAudio(streamIndex int, buf audio.PCMBuffer, pts int64) error {
	s, ok := c.Stream(streamIndex)
	if !ok || s.MediaType != audio.MediaAudio {
		return fmt.Errorf("%w: %d", ErrInvalidStream, streamIndex)
	}
	if buf.Channels() != s.Params.Channels {
		return fmt.Errorf("%w: %d channels for a %d channel stream", audio.ErrUnsupportedLayout, buf.Channels(), s.Params.Channels)
	}

	data, err := EncodePCM(c.scratch.Data, buf, s.CodecID)
	if err != nil {
		return err
	}

	c.scratch = audio.Packet{
		StreamIndex: streamIndex,
		Data:        data,
		PTS:         pts,
		Duration:    int64(buf.Frames),
		Flags:       audio.FlagKey,
	}

	return c.WritePacket(&c.scratch)
}

// WriteTrailer finishes the container.
func (c *Context) WriteTrailer() error {
	switch c.state {
	case stateBuilding:
		return ErrHeaderNotWritten
	case stateTrailerWritten:
		return ErrTrailerWritten
	}

	if err := c.muxer.WriteTrailer(c); err != nil {
		return fmt.Errorf("write trailer: %w", err)
	}
	c.state = stateTrailerWritten

	return nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
