// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides the Ogg Vorbis demuxer.
//
// This package uses github.com/jfreymuth/oggvorbis to read the Ogg pages and
// decode the Vorbis packets. Vorbis is a free, open-source lossy audio
// compression format.
//
// # Demuxing
//
// oggvorbis decodes internally, so the demuxer emits planar float packets
// (pcm_fltp) of 4096 frames that the PCM decoders of an audio.Registry turn
// into frames. The stream codec name stays "vorbis":
//
//	r := audio.NewRegistry()
//	r.RegisterInput(vorbis.Format{})
//	d, err := r.OpenInput(ctx, "audio.ogg", "")
//
// # Comments
//
// Vorbis comments become the demuxer tags, the vendor string is reported as
// ENCODER and repeated keys are joined with ";". A METADATA_BLOCK_PICTURE
// comment is not kept as a tag: its image becomes a second stream with the
// attached picture disposition, whose single packet comes first.
//
// # Seeking
//
// Seeking is sample accurate on seekable inputs. Pipes report
// audio.ErrNotSeekable and an unknown duration.
//
// # Limitations
//
// Only the first logical stream of chained files is read, and other Ogg
// codecs such as Opus are not decoded.
package vorbis
