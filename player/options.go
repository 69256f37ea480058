// SPDX-License-Identifier: EPL-2.0

package player

import (
	"time"

	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/engine"
	"github.com/sirupsen/logrus"
)

// Option configures a Player.
type Option func(*Player)

// WithLogger sets the logger of the player and of its engine.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Player) { p.logger = l }
}

// WithRegistry sets the input formats. The default has every format of the
// formats package.
func WithRegistry(r *audio.Registry) Option {
	return func(p *Player) { p.registry = r }
}

// WithOutputFormat resamples every file to a fixed layout instead of the
// source rate and up to two channels.
func WithOutputFormat(sampleRate, channels int) Option {
	return func(p *Player) { p.rate, p.channels = sampleRate, channels }
}

// WithProgressInterval sets how often EventProgress is sent. Default 250ms.
func WithProgressInterval(d time.Duration) Option {
	return func(p *Player) { p.interval = d }
}

// WithEventBuffer sets the capacity of the Events channel. Events are dropped
// when it is full. Default 64.
func WithEventBuffer(n int) Option {
	return func(p *Player) { p.events = make(chan Event, n) }
}

// WithEngineOptions passes options to the engine of every opened file.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(p *Player) { p.engineOpts = append(p.engineOpts, opts...) }
}
