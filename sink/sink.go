// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"context"
	"io"
	"time"

	"github.com/ik5/avkit/audio"
	"github.com/sirupsen/logrus"
)

// Output plays planar float32 buffers.
type Output interface {
	// Configure sets the stream layout. It must be called before Start.
	Configure(sampleRate, channels int) error
	Start() error
	Pause() error
	// Stop pauses and drops everything queued.
	Stop() error
	// Schedule queues buf, blocking while the device buffer is full.
	Schedule(buf audio.PCMBuffer) error
	// Wait blocks until everything scheduled has been played. It returns
	// false when ctx ends first.
	Wait(ctx context.Context) bool
	// Position is the play time of the samples already heard.
	Position() time.Duration
	Volume() float64
	SetVolume(v float64)
	Close() error
}

// pollInterval is how often Wait checks the device buffer.
const pollInterval = 10 * time.Millisecond

func clampVolume(v float64) float64 {
	return min(max(v, 0), 1)
}

func framesDuration(frames int64, rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(rate)
}

type config struct {
	logger     logrus.FieldLogger
	bufferSize time.Duration
}

// Option configures a device output.
type Option func(*config)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) { c.logger = l }
}

// WithBufferSize sets the device buffer length. Zero keeps the driver
// default.
func WithBufferSize(d time.Duration) Option {
	return func(c *config) { c.bufferSize = d }
}

func newConfig(opts []Option) config {
	l := logrus.New()
	l.SetOutput(io.Discard)

	c := config{logger: l}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
