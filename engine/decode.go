// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/avkit/audio"
	"github.com/sirupsen/logrus"
)

// DecodeNext decodes until one buffer is ready and passes it to fn. The
// buffer and its planes belong to the engine and are reused once fn returns.
// At the end of the input the resampler delay line is flushed as a last
// buffer and the following call returns ErrEndOfFile.
func (e *Engine) DecodeNext(ctx context.Context, fn func(audio.PCMBuffer) error) error {
	if e.state != stateOpened {
		return ErrNotConfigured
	}

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w", err)
		}

		for e.decoding {
			buf, ok, err := e.receive()
			if err != nil {
				return err
			}
			if ok {
				return e.deliver(buf, fn)
			}
		}

		if e.finished {
			return ErrEndOfFile
		}
		if e.draining {
			e.finished = true
			if buf, ok := e.flushResampler(); ok {
				return e.deliver(buf, fn)
			}
			return ErrEndOfFile
		}

		err := e.demuxer.ReadPacket(&e.pkt)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			// The decoder rejects a drain request only when it is already
			// draining, and then there is nothing left to receive anyway.
			_ = e.decoder.SendPacket(nil)
			e.decoding, e.draining = true, true
			continue
		case errors.Is(err, audio.ErrAgain):
			return ErrEndOfFile
		default:
			return fmt.Errorf("%w: %w", ErrDecodeFailed, err)
		}

		if e.pkt.StreamIndex != e.streamIndex {
			e.stats.DiscardedPackets++
			e.pkt.Unref()
			continue
		}
		e.stats.Packets++

		err = e.decoder.SendPacket(&e.pkt)
		e.pkt.Unref()
		if err != nil {
			if serr := e.swallow(err); serr != nil {
				return serr
			}
			continue
		}
		e.decoding = true
	}
}

func (e *Engine) deliver(buf audio.PCMBuffer, fn func(audio.PCMBuffer) error) error {
	e.stats.Buffers++
	e.stats.Samples += int64(buf.Frames)
	return fn(buf)
}

// swallow records a packet the decoder refused. Only strict engines fail.
func (e *Engine) swallow(err error) error {
	e.stats.SwallowedPackets++

	e.logger.WithFields(logrus.Fields{
		"function":  "DecodeNext",
		"swallowed": e.stats.SwallowedPackets,
		"error":     err,
	}).Debug("Decoder rejected packet")

	if e.strict {
		return fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	return nil
}

// receive pulls one frame. ok is false when the decoder needs more input
// or the frame produced no samples.
func (e *Engine) receive() (audio.PCMBuffer, bool, error) {
	err := e.decoder.ReceiveFrame(&e.frame)
	switch {
	case err == nil:
	case errors.Is(err, audio.ErrAgain), errors.Is(err, io.EOF):
		e.decoding = false
		return audio.PCMBuffer{}, false, nil
	default:
		return audio.PCMBuffer{}, false, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	e.stats.Frames++

	defer e.frame.Unref()
	if e.frame.NumSamples == 0 {
		return audio.PCMBuffer{}, false, nil
	}

	e.in = e.frame.Float32Planes(e.in)
	if e.resampler == nil {
		return e.buffer(e.in, e.frame.NumSamples), true, nil
	}

	n := e.frame.NumSamples
	e.out = audio.GrowPlanes(e.out, e.format.Channels, e.resampler.OutSamples(n))
	written, err := e.resampler.Convert(e.out, e.in, n)
	if err != nil {
		return audio.PCMBuffer{}, false, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	if written == 0 {
		return audio.PCMBuffer{}, false, nil
	}

	return e.buffer(e.out, written), true, nil
}

func (e *Engine) flushResampler() (audio.PCMBuffer, bool) {
	if e.resampler == nil {
		return audio.PCMBuffer{}, false
	}

	e.out = audio.GrowPlanes(e.out, e.format.Channels, e.resampler.OutSamples(0))
	written, err := e.resampler.Convert(e.out, nil, 0)
	if err != nil || written == 0 {
		return audio.PCMBuffer{}, false
	}

	return e.buffer(e.out, written), true
}

func (e *Engine) buffer(planes [][]float32, n int) audio.PCMBuffer {
	data := make([][]float32, len(planes))
	for c, p := range planes {
		data[c] = p[:n]
	}

	return audio.PCMBuffer{
		Data:       data,
		Frames:     n,
		SampleRate: e.format.SampleRate,
		Format:     e.format,
	}
}
