// SPDX-License-Identifier: EPL-2.0

// Package aiff provides the AIFF (Audio Interchange File Format) demuxer and
// muxer.
//
// This package uses github.com/go-audio/aiff for both directions. AIFF is
// Apple's uncompressed audio format, commonly used on macOS.
//
// # Supported Formats
//
//   - AIFF and uncompressed AIFF-C
//   - PCM 8, 16, 24 and 32-bit
//   - Mono and multi-channel
//   - Any sample rate
//
// # Demuxing
//
// Format plugs into an audio.Registry. The demuxer decodes the big-endian
// samples itself and emits native planar packets, pcm_s16p for up to 16 bits
// and pcm_s32p for 24 and 32 bits, which the PCM decoders of the registry
// turn into frames:
//
//	r := audio.NewRegistry()
//	r.RegisterInput(aiff.Format{})
//	d, err := r.OpenInput(ctx, "audio.aif", "")
//
// Seeking restarts the go-audio decoder and skips to the target frame, so it
// is sample accurate but linear in the target position.
//
// # Muxing
//
// NewMuxer writes the first audio stream of an output.Context. Float streams
// are rejected with output.ErrUnsupportedCodec and tags are dropped.
//
// # AIFF vs. WAV
//
// AIFF is similar to WAV but:
//   - Uses big-endian byte order (WAV uses little-endian)
//   - Stores sample rate as 80-bit float (WAV uses 32-bit int)
//
// # File Extensions
//
// AIFF files typically use .aif or .aiff, AIFF-C uses .aifc.
package aiff
