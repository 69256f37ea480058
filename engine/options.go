// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"github.com/ik5/avkit/audio"
	"github.com/sirupsen/logrus"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithFormat sets the output format, like Configure. An invalid format is
// ignored and the default stays in effect.
func WithFormat(f audio.Format) Option {
	return func(e *Engine) {
		if f.Validate() == nil {
			e.format = f
		}
	}
}

// WithStrictPackets makes packets the decoder rejects fail DecodeNext with
// ErrDecodeFailed instead of being skipped.
func WithStrictPackets() Option {
	return func(e *Engine) { e.strict = true }
}

// WithRegistry sets the formats and codecs used to open inputs.
func WithRegistry(r *audio.Registry) Option {
	return func(e *Engine) { e.registry = r }
}
