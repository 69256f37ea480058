// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

var (
	// ErrNotVorbisFile indicates the Ogg headers are missing or not Vorbis
	ErrNotVorbisFile = errors.New("not an Ogg Vorbis file")

	// ErrUnsupportedChannels indicates a stream without any channel
	ErrUnsupportedChannels = errors.New("unsupported Vorbis channel count")
)
