// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"errors"
	"io"

	"github.com/ik5/avkit/audio"
)

// source adapts an engine to audio.Source.
type source struct {
	ctx     context.Context
	e       *Engine
	pending []float32
	off     int
	eof     bool
}

// NewSource returns a pull reader of interleaved float32 samples over the
// open input of e. Closing the source closes the engine.
func NewSource(ctx context.Context, e *Engine) audio.Source {
	return &source{ctx: ctx, e: e}
}

func (s *source) SampleRate() int { return s.e.format.SampleRate }
func (s *source) Channels() int   { return s.e.format.Channels }

// BufSize is the size of one decoded block in float32 values, 0 before the
// first read.
func (s *source) BufSize() int { return len(s.pending) }

func (s *source) ReadSamples(dst []float32) (int, error) {
	ch := s.Channels()
	if ch == 0 || len(dst)%ch != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	n := 0
	for n < len(dst) {
		if s.off == len(s.pending) {
			if s.eof {
				break
			}
			if err := s.fill(); err != nil {
				return n, err
			}
			continue
		}

		c := copy(dst[n:], s.pending[s.off:])
		s.off += c
		n += c
	}

	if n == 0 && s.eof {
		return 0, io.EOF
	}

	return n, nil
}

func (s *source) fill() error {
	s.pending, s.off = s.pending[:0], 0

	err := s.e.DecodeNext(s.ctx, func(b audio.PCMBuffer) error {
		s.pending = b.Interleave(s.pending)
		return nil
	})
	if errors.Is(err, ErrEndOfFile) {
		s.eof = true
		return nil
	}

	return err
}

func (s *source) Close() error { return s.e.Close() }
