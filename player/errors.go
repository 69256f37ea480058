// SPDX-License-Identifier: EPL-2.0

package player

import "errors"

var (
	// ErrNotOpen is returned by Play and Seek before Open
	ErrNotOpen = errors.New("no file open")

	// ErrAudioOutput wraps failures of the sink
	ErrAudioOutput = errors.New("audio output failed")

	// ErrClosed is returned after Close
	ErrClosed = errors.New("player closed")
)
