// SPDX-License-Identifier: EPL-2.0

// Package flac provides the FLAC demuxer and muxer.
//
// This package uses github.com/mewkiz/flac in both directions.
//
// # Demuxing
//
// Every FLAC frame becomes one planar packet: pcm_s16p up to 16 bits and
// pcm_s32p above, with samples scaled up to the full width. The stream codec
// name stays "flac":
//
//	r := audio.NewRegistry()
//	r.RegisterInput(flac.Format{})
//	d, err := r.OpenInput(ctx, "audio.flac", "")
//
// VORBIS_COMMENT entries become the demuxer tags and the front cover of the
// PICTURE blocks (or the first picture) becomes an attached picture stream.
//
// Seeking needs a seekable input and is sample accurate: the demuxer lands
// on the frame holding the target and drops the samples before it.
//
// # Muxing
//
// NewMuxer encodes 16 or 24-bit streams as verbatim subframes in blocks of
// BlockSize samples. The context tags are written as Vorbis comments, and
// the cover art comes either from the attached picture packet, which must be
// written before the first audio packet, or from a METADATA_BLOCK_PICTURE
// tag.
package flac
