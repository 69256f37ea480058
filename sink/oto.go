// SPDX-License-Identifier: EPL-2.0

//go:build (linux && cgo) || windows || darwin

package sink

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/utils"
	"github.com/sirupsen/logrus"
)

// oto allows one context per process, so it is shared by every Oto output
// and keeps the layout of its first user.
var (
	otoMtx      sync.Mutex
	otoCtx      *oto.Context
	otoRate     int
	otoChannels int
)

func sharedContext(c config, rate, channels int) (*oto.Context, error) {
	otoMtx.Lock()
	defer otoMtx.Unlock()

	if otoCtx != nil {
		if otoRate != rate || otoChannels != channels {
			return nil, fmt.Errorf("%w: device runs %d Hz %d channels, got %d Hz %d channels",
				ErrFormatChange, otoRate, otoChannels, rate, channels)
		}
		if err := otoCtx.Resume(); err != nil {
			return nil, fmt.Errorf("resuming oto context: %w", err)
		}
		return otoCtx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   c.bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	otoCtx, otoRate, otoChannels = ctx, rate, channels

	c.logger.WithFields(logrus.Fields{
		"function":    "sharedContext",
		"sample_rate": rate,
		"channels":    channels,
	}).Debug("Audio output initialized")

	return ctx, nil
}

// Oto plays through the system device. Samples are quantized to signed
// 16-bit and streamed through a pipe into one persistent oto player.
type Oto struct {
	cfg config

	mtx        sync.Mutex
	ctx        *oto.Context
	player     *oto.Player
	pr         *io.PipeReader
	pw         *io.PipeWriter
	sampleRate int
	channels   int
	written    int64 // frames handed to the player since the last Stop
	volume     float64
	closed     bool

	buf []byte
}

// NewOto returns an output on the default audio device.
func NewOto(opts ...Option) (Output, error) {
	return &Oto{cfg: newConfig(opts), volume: 1}, nil
}

// Configure opens the device. oto only handles mono and stereo.
func (o *Oto) Configure(sampleRate, channels int) error {
	if sampleRate <= 0 || channels < 1 || channels > 2 {
		return fmt.Errorf("%w: %d Hz, %d channels", ErrInvalidLayout, sampleRate, channels)
	}

	o.mtx.Lock()
	defer o.mtx.Unlock()

	if o.closed {
		return ErrClosed
	}

	ctx, err := sharedContext(o.cfg, sampleRate, channels)
	if err != nil {
		return err
	}
	o.ctx, o.sampleRate, o.channels = ctx, sampleRate, channels

	return nil
}

// Start resumes playback, creating the player after Configure or Stop.
func (o *Oto) Start() error {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	switch {
	case o.closed:
		return ErrClosed
	case o.ctx == nil:
		return ErrNotConfigured
	}

	if o.player == nil {
		o.pr, o.pw = io.Pipe()
		o.player = o.ctx.NewPlayer(o.pr)
		o.player.SetVolume(o.volume)
	}
	o.player.Play()

	return nil
}

func (o *Oto) Pause() error {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	if o.player != nil {
		o.player.Pause()
	}
	return nil
}

// Stop closes the pipe, which also releases a Schedule blocked on it.
func (o *Oto) Stop() error {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	return o.stop()
}

func (o *Oto) stop() error {
	if o.player == nil {
		return nil
	}

	o.player.Pause()
	o.pw.Close()
	o.pr.Close()
	err := o.player.Close()
	o.player, o.pr, o.pw = nil, nil, nil
	o.written = 0

	if err != nil {
		return fmt.Errorf("closing oto player: %w", err)
	}
	return nil
}

func (o *Oto) Schedule(buf audio.PCMBuffer) error {
	o.mtx.Lock()
	switch {
	case o.closed:
		o.mtx.Unlock()
		return ErrClosed
	case o.pw == nil:
		o.mtx.Unlock()
		return ErrNotConfigured
	case buf.Channels() != o.channels:
		o.mtx.Unlock()
		return fmt.Errorf("%w: %d channels for a %d channel output", audio.ErrUnsupportedLayout, buf.Channels(), o.channels)
	}
	o.buf = encodeS16(o.buf[:0], buf)
	pw, data := o.pw, o.buf
	o.mtx.Unlock()

	// Blocks until the player pulled everything.
	if _, err := pw.Write(data); err != nil {
		return fmt.Errorf("%w", err)
	}

	o.mtx.Lock()
	if o.pw == pw {
		o.written += int64(buf.Frames)
	}
	o.mtx.Unlock()

	return nil
}

// encodeS16 interleaves buf as signed 16-bit little-endian samples.
func encodeS16(dst []byte, buf audio.PCMBuffer) []byte {
	channels := buf.Channels()
	for i := range buf.Frames {
		for ch := range channels {
			dst = binary.LittleEndian.AppendUint16(dst, uint16(utils.Float32ToInt16(buf.Data[ch][i])))
		}
	}
	return dst
}

// Wait polls the player until its buffer drained.
func (o *Oto) Wait(ctx context.Context) bool {
	t := time.NewTicker(pollInterval)
	defer t.Stop()

	for {
		o.mtx.Lock()
		p := o.player
		o.mtx.Unlock()
		if p == nil || p.BufferedSize() == 0 {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-t.C:
		}
	}
}

func (o *Oto) Position() time.Duration {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	frames := o.written
	if o.player != nil && o.channels > 0 {
		frames -= int64(o.player.BufferedSize() / (2 * o.channels))
	}
	return framesDuration(max(frames, 0), o.sampleRate)
}

func (o *Oto) Volume() float64 {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	return o.volume
}

func (o *Oto) SetVolume(v float64) {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	o.volume = clampVolume(v)
	if o.player != nil {
		o.player.SetVolume(o.volume)
	}
}

// Close stops playback and suspends the shared device.
func (o *Oto) Close() error {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true

	err := o.stop()
	if o.ctx != nil {
		if serr := o.ctx.Suspend(); serr != nil && err == nil {
			err = fmt.Errorf("suspending oto context: %w", serr)
		}
	}

	return err
}
