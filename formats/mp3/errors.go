// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

var (
	// ErrNotMP3File indicates no MPEG audio frame could be decoded
	ErrNotMP3File = errors.New("not an MP3 file")

	// ErrUnknownLength indicates the stream length needs a seekable input
	ErrUnknownLength = errors.New("MP3 length unknown on non-seekable input")
)
