// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/formats"
	"github.com/sirupsen/logrus"
)

type state int

const (
	stateClosed state = iota
	stateOpened
)

// Stats counts what the decode loop did since Open.
type Stats struct {
	Packets int64
	// DiscardedPackets belong to streams other than the selected one.
	DiscardedPackets int64
	// SwallowedPackets were rejected by the decoder and skipped.
	SwallowedPackets int64
	Frames           int64
	Buffers          int64
	Samples          int64 // per channel
	Seeks            int64
}

// Engine decodes one input at a time into the configured output format.
type Engine struct {
	logger   logrus.FieldLogger
	registry *audio.Registry
	strict   bool
	format   audio.Format

	state       state
	demuxer     audio.Demuxer
	decoder     audio.Decoder
	resampler   *audio.Resampler
	stream      *audio.Stream
	streamIndex int

	pkt   audio.Packet
	frame audio.Frame
	in    [][]float32
	out   [][]float32

	// decoding is set while the decoder may still hold frames.
	decoding bool
	draining bool
	finished bool

	path          string
	duration      time.Duration
	sampleRate    int
	channels      int
	bitRate       int64
	codecName     string
	bitsPerSample int
	sourceFormat  audio.RawFormat
	tags          *audio.Tags
	stats         Stats
}

// New returns a closed engine configured for audio.DefaultFormat.
func New(opts ...Option) *Engine {
	e := &Engine{
		format:      audio.DefaultFormat,
		streamIndex: -1,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = discardLogger()
	}
	if e.registry == nil {
		e.registry = formats.NewRegistry()
	}

	return e
}

// Configure sets the output format used by the next Open.
func (e *Engine) Configure(f audio.Format) error {
	if err := f.Validate(); err != nil {
		return err
	}
	e.format = f

	return nil
}

// Reconfigure changes the output format of the open input and rebuilds the
// resampler. On failure the previous format stays in effect.
func (e *Engine) Reconfigure(f audio.Format) error {
	if e.state != stateOpened {
		return ErrNotConfigured
	}
	if err := f.Validate(); err != nil {
		return err
	}

	prevFormat, prevResampler := e.format, e.resampler
	e.format = f
	if err := e.setupResampler(); err != nil {
		e.format, e.resampler = prevFormat, prevResampler
		return err
	}

	e.logger.WithFields(logrus.Fields{
		"function":    "Reconfigure",
		"format":      f.String(),
		"passthrough": e.IsPassthrough(),
	}).Debug("Output format changed")

	return nil
}

// Open opens path, probing its format. "-" and "pipe:0" read stdin.
func (e *Engine) Open(ctx context.Context, path string) error {
	return e.OpenInput(ctx, path, "")
}

// OpenInput opens path with an explicit format hint, needed for raw pipes.
func (e *Engine) OpenInput(ctx context.Context, path, formatHint string) error {
	e.Close()

	d, err := e.registry.OpenInput(ctx, path, formatHint)
	if err != nil {
		return &OpenError{Path: path, Err: err}
	}

	return e.open(d, path)
}

// OpenReader opens an in-memory or streamed input.
func (e *Engine) OpenReader(ctx context.Context, r io.Reader, formatHint string) error {
	e.Close()

	d, err := e.registry.OpenReader(ctx, r, formatHint)
	if err != nil {
		return &OpenError{Path: formatHint, Err: err}
	}

	return e.open(d, "")
}

// OpenDemuxer takes over an already opened demuxer.
func (e *Engine) OpenDemuxer(d audio.Demuxer) error {
	e.Close()
	return e.open(d, "")
}

func (e *Engine) open(d audio.Demuxer, path string) error {
	e.demuxer = d
	e.path = path

	if err := e.openStream(); err != nil {
		e.Close()

		e.logger.WithFields(logrus.Fields{
			"function": "Open",
			"path":     path,
			"error":    err,
		}).Debug("Open failed")

		return err
	}
	e.state = stateOpened

	e.logger.WithFields(logrus.Fields{
		"function":    "Open",
		"path":        path,
		"codec":       e.codecName,
		"source":      e.SourceFormat().String(),
		"output":      e.format.String(),
		"passthrough": e.IsPassthrough(),
		"duration":    e.duration,
	}).Debug("Input opened")

	return nil
}

func (e *Engine) openStream() error {
	if err := e.demuxer.FindStreamInfo(); err != nil {
		return fmt.Errorf("%w: %w", ErrStreamInfoUnavailable, err)
	}

	for _, s := range e.demuxer.Streams() {
		if s.MediaType == audio.MediaAudio {
			e.stream = s
			break
		}
	}
	if e.stream == nil {
		return ErrNoAudioStream
	}
	e.streamIndex = e.stream.Index

	factory, ok := e.registry.FindDecoder(e.stream.CodecID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCodecUnavailable, e.stream.CodecID)
	}

	dec := factory()
	if err := dec.Open(e.stream); err != nil {
		_ = dec.Close()
		return fmt.Errorf("%w: %w", ErrCodecOpenFailed, err)
	}
	e.decoder = dec

	p := e.stream.Params
	e.duration = e.stream.DurationTime()
	if e.duration <= 0 {
		e.duration = e.demuxer.Duration()
	}
	e.sampleRate = p.SampleRate
	e.channels = p.Channels
	e.bitRate = p.BitRate
	if e.bitRate == 0 {
		e.bitRate = e.demuxer.BitRate()
	}
	e.codecName = e.stream.CodecName
	e.bitsPerSample = p.BitsPerRawSample
	if e.bitsPerSample == 0 {
		e.bitsPerSample = p.Format.BytesPerSample() * 8
	}
	e.sourceFormat = p.Format
	e.tags = e.demuxer.Tags().Clone()

	return e.setupResampler()
}

// passthrough reports whether decoded frames can be handed out unchanged:
// same rate and channels, and a raw layout that is either FLTP or exactly
// the planar layout of the output sample format.
func (e *Engine) passthrough() bool {
	return e.sampleRate == e.format.SampleRate &&
		e.channels == e.format.Channels &&
		(e.sourceFormat == audio.FLTP || e.sourceFormat == e.format.SampleFormat.Planar())
}

func (e *Engine) setupResampler() error {
	e.resampler = nil
	if e.passthrough() {
		return nil
	}

	r, err := audio.NewResampler(e.SourceFormat(), e.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResamplerInitFailed, err)
	}
	e.resampler = r

	return nil
}

// Close releases the session. It is safe to call on a closed engine.
func (e *Engine) Close() error {
	var errs []error

	e.resampler = nil
	if e.decoder != nil {
		errs = append(errs, e.decoder.Close())
	}
	if e.demuxer != nil {
		errs = append(errs, e.demuxer.Close())
	}

	*e = Engine{
		logger:      e.logger,
		registry:    e.registry,
		strict:      e.strict,
		format:      e.format,
		streamIndex: -1,
	}

	return errors.Join(errs...)
}

// Seek moves to d, snapping back to the closest decodable point. Buffered
// decoder and resampler state is dropped. It is a no-op when closed.
func (e *Engine) Seek(d time.Duration) error {
	if e.state != stateOpened {
		return nil
	}

	ts := e.stream.TimeBase.Timestamp(max(d, 0))
	if err := e.demuxer.Seek(e.streamIndex, ts, audio.SeekBackward); err != nil {
		return fmt.Errorf("%w: %w", ErrSeekFailed, err)
	}

	e.decoder.Flush()
	e.pkt.Unref()
	e.frame.Unref()
	if e.resampler != nil {
		// Drain into scratch and throw the pre-seek samples away.
		e.out = audio.GrowPlanes(e.out, e.format.Channels, e.resampler.OutSamples(0))
		_, _ = e.resampler.Convert(e.out, nil, 0)
	}
	e.decoding, e.draining, e.finished = false, false, false
	e.stats.Seeks++

	e.logger.WithFields(logrus.Fields{
		"function": "Seek",
		"position": d,
		"ts":       ts,
	}).Debug("Seek done")

	return nil
}

func (e *Engine) IsOpen() bool                     { return e.state == stateOpened }
func (e *Engine) Duration() time.Duration          { return e.duration }
func (e *Engine) SampleRate() int                  { return e.sampleRate }
func (e *Engine) Channels() int                    { return e.channels }
func (e *Engine) BitRate() int64                   { return e.bitRate }
func (e *Engine) CodecName() string                { return e.codecName }
func (e *Engine) BitsPerSample() int               { return e.bitsPerSample }
func (e *Engine) OutputFormat() audio.Format       { return e.format }
func (e *Engine) SourceRawFormat() audio.RawFormat { return e.sourceFormat }
func (e *Engine) Stats() Stats                     { return e.stats }
func (e *Engine) Path() string                     { return e.path }

// IsPassthrough reports whether the open input is decoded without a
// resampler.
func (e *Engine) IsPassthrough() bool {
	return e.state == stateOpened && e.resampler == nil
}

// SourceFormat describes the decoded source as planar samples.
func (e *Engine) SourceFormat() audio.Format {
	return audio.Format{
		SampleRate:   e.sampleRate,
		Channels:     e.channels,
		SampleFormat: e.sourceFormat.SampleFormat(),
	}
}

// Tags returns the container tags of the open input.
func (e *Engine) Tags() *audio.Tags {
	if e.tags == nil {
		return &audio.Tags{}
	}
	return e.tags
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
