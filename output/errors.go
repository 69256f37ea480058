// SPDX-License-Identifier: EPL-2.0

package output

import "errors"

var (
	ErrHeaderWritten    = errors.New("header already written")
	ErrHeaderNotWritten = errors.New("header not written")
	ErrTrailerWritten   = errors.New("trailer already written")
	ErrNoStreams        = errors.New("no streams to write")
	ErrInvalidStream    = errors.New("invalid stream index")
	ErrUnsupportedCodec = errors.New("unsupported codec for container")
	ErrNoMuxer          = errors.New("no muxer registered for format")
)
