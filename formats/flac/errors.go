// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	// ErrNotFlacFile indicates a missing fLaC signature or broken STREAMINFO
	ErrNotFlacFile = errors.New("not a FLAC file")

	// ErrUnsupportedBitDepth indicates a sample size the muxer cannot store
	ErrUnsupportedBitDepth = errors.New("unsupported FLAC bit depth")

	// ErrUnsupportedChannels indicates more than eight or zero channels
	ErrUnsupportedChannels = errors.New("unsupported FLAC channel count")
)
