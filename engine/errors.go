// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"fmt"
)

var (
	ErrOpenFailed            = errors.New("cannot open input")
	ErrStreamInfoUnavailable = errors.New("stream info unavailable")
	ErrNoAudioStream         = errors.New("no audio stream")
	ErrCodecUnavailable      = errors.New("codec unavailable")
	ErrCodecOpenFailed       = errors.New("cannot open codec")
	ErrDecodeFailed          = errors.New("decode failed")
	ErrResamplerInitFailed   = errors.New("cannot initialize resampler")
	// ErrEndOfFile ends a decode loop; it is not a failure.
	ErrEndOfFile     = errors.New("end of file")
	ErrNotConfigured = errors.New("no open input")
	ErrSeekFailed    = errors.New("seek failed")
)

// OpenError reports the input that could not be opened. It matches
// ErrOpenFailed with errors.Is.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("%s %q: %v", ErrOpenFailed, e.Path, e.Err)
}

func (e *OpenError) Unwrap() []error { return []error{ErrOpenFailed, e.Err} }
