// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ik5/avkit/audio"
)

// Null consumes buffers instantly and only keeps count. It stands in for a
// device in dry runs and tests.
type Null struct {
	mtx        sync.Mutex
	sampleRate int
	channels   int
	frames     int64
	playing    bool
	closed     bool
	volume     float64
}

// NewNull returns a Null output at full volume.
func NewNull() *Null {
	return &Null{volume: 1}
}

func (n *Null) Configure(sampleRate, channels int) error {
	if sampleRate <= 0 || channels <= 0 {
		return fmt.Errorf("%w: %d Hz, %d channels", ErrInvalidLayout, sampleRate, channels)
	}

	n.mtx.Lock()
	defer n.mtx.Unlock()

	n.sampleRate, n.channels = sampleRate, channels
	return nil
}

func (n *Null) Start() error {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	switch {
	case n.closed:
		return ErrClosed
	case n.sampleRate == 0:
		return ErrNotConfigured
	}
	n.playing = true
	return nil
}

func (n *Null) Pause() error {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	n.playing = false
	return nil
}

func (n *Null) Stop() error {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	n.playing = false
	n.frames = 0
	return nil
}

func (n *Null) Schedule(buf audio.PCMBuffer) error {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	switch {
	case n.closed:
		return ErrClosed
	case n.sampleRate == 0:
		return ErrNotConfigured
	case buf.Channels() != n.channels:
		return fmt.Errorf("%w: %d channels for a %d channel output", audio.ErrUnsupportedLayout, buf.Channels(), n.channels)
	}
	n.frames += int64(buf.Frames)
	return nil
}

func (n *Null) Wait(ctx context.Context) bool {
	return ctx.Err() == nil
}

// IsPlaying reports whether Start was called after the last Pause or Stop.
func (n *Null) IsPlaying() bool {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	return n.playing
}

// Frames returns how many frames were scheduled since the last Stop.
func (n *Null) Frames() int64 {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	return n.frames
}

func (n *Null) Position() time.Duration {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	return framesDuration(n.frames, n.sampleRate)
}

func (n *Null) Volume() float64 {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	return n.volume
}

func (n *Null) SetVolume(v float64) {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	n.volume = clampVolume(v)
}

func (n *Null) Close() error {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	n.closed = true
	n.playing = false
	return nil
}
