// SPDX-License-Identifier: EPL-2.0

// Package avkit ties the decode engine, the container backends and the
// metadata writer together for the common jobs.
//
// # Supported Formats
//
// Inputs, all decoded in pure Go:
//   - WAV (PCM 8 to 32-bit, IEEE float) via formats/wav
//   - AIFF via formats/aiff
//   - FLAC via formats/flac
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//
// Outputs: WAV, AIFF and FLAC. FLAC carries tags and cover art.
//
// # Quick Start
//
// Decode anything to 8kHz mono 16-bit PCM:
//
//	f, _ := os.Open("audio.mp3")
//	samples, rate, err := avkit.ResampleToMono16(ctx, f, "", 8000, 4096)
//
// Convert between containers, keeping the tags and adding a cover:
//
//	res, err := avkit.Convert(ctx, "in.mp3", "out.flac", avkit.ConvertOptions{
//		SampleRate: 44100,
//		Bits:       16,
//		Cover:      jpegBytes,
//	})
//
// # Lower Level
//
// The engine package decodes one input into planar float32 buffers in a
// chosen output format, the output package builds containers and the
// metadata package fills their tags. The player package plays a file
// through a sink.Output.
package avkit
