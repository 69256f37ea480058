// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrAgain signals that an operation needs more input (or is not ready
	// yet) and should be retried.
	ErrAgain = errors.New("resource temporarily unavailable")

	ErrInvalidFormat       = errors.New("invalid audio format")
	ErrUnknownSampleFormat = errors.New("unknown sample format")
	ErrUnknownFormat       = errors.New("unknown input format")
	ErrNoProbeMatch        = errors.New("input format could not be detected")
	ErrNotSeekable         = errors.New("input is not seekable")
	ErrInvalidData         = errors.New("invalid data found when processing input")
	ErrDecoderNotOpen      = errors.New("decoder not open")
	ErrUnsupportedLayout   = errors.New("unsupported channel layout")
)
