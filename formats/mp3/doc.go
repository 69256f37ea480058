// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides the MP3 demuxer.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MPEG-1/2 Layer
// III audio and github.com/dhowden/tag (through the metadata package) for
// ID3 tags and cover art.
//
// # Demuxing
//
// go-mp3 decodes internally, so the demuxer hands out decoded samples as
// pcm_s16le packets of 4096 frames, which the PCM decoders of an
// audio.Registry turn into frames:
//
//	r := audio.NewRegistry()
//	r.RegisterInput(mp3.Format{})
//	d, err := r.OpenInput(ctx, "audio.mp3", "")
//
// The stream codec name is still "mp3", and the bit rate is estimated from
// the file size.
//
// # Output Format
//
//   - Sample format: interleaved signed 16-bit
//   - Channels: always 2, mono files are duplicated by go-mp3
//   - Sample rate: that of the first frame
//
// # Cover Art
//
// An APIC picture becomes a second stream with the attached picture
// disposition; its single packet is the first one ReadPacket returns.
//
// # Seeking
//
// Seeking is sample accurate but needs a seekable input, since go-mp3 scans
// the frame offsets up front. Pipes report audio.ErrNotSeekable.
package mp3
