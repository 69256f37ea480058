// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE files.
//
// The demuxer uses github.com/go-audio/wav to walk the chunk list, read the
// fmt chunk and the LIST/INFO tags (before or after the data chunk), then
// emits the data chunk as raw PCM packets:
//
//	reg := audio.NewRegistry()
//	reg.RegisterInput(wav.Format{})
//	d, err := reg.OpenInput(ctx, "song.wav", "")
//
// Supported sample layouts are 8-bit unsigned, 16/24/32-bit signed and
// 32/64-bit IEEE float. Other WAVE format tags are reported with a
// "wav_0x...." codec ID so the caller can tell the codec is unavailable.
//
// The muxer writes 16/24/32-bit PCM or 32-bit float through the go-audio
// encoder and stores TITLE, ARTIST, ALBUM, GENRE, DATE, TRACK, COMMENT and
// ENCODER as INFO tags. WAV has no cover art.
package wav
