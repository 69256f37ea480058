// SPDX-License-Identifier: EPL-2.0

// Package audio holds the data model and DSP primitives shared by the
// decoding engine and the container backends.
//
// # Data model
//
// A Demuxer splits a container into Packets for the Streams it finds. A
// Decoder, created from a DecoderFactory registered under the stream's codec
// ID, turns packets into Frames in one of the RawFormat layouts. Frames are
// converted to planar float32 and handed to callers as PCMBuffers.
//
//	reg := formats.NewRegistry()
//	d, err := reg.OpenInput(ctx, "song.flac", "")
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//
// Most callers use the engine package instead of driving demuxers and
// decoders by hand.
//
// # Registry
//
// A Registry maps input format names and extensions to InputFormats and codec
// IDs to decoders. NewRegistry registers the PCM decoders; the formats
// package adds the container backends. Format detection tries the explicit
// hint, then the highest Probe score over the first 4 KiB, then the file
// extension.
//
// # Resampling and remixing
//
// Resampler converts planar float32 audio between two Formats with cubic
// interpolation. Channel count changes go through Remix first, and a
// one-pole low-pass filter runs ahead of the interpolation when
// downsampling:
//
//	r, _ := audio.NewResampler(in, out)
//	dst := audio.GrowPlanes(nil, out.Channels, r.OutSamples(n))
//	written, err := r.Convert(dst, src, n)
//	...
//	written, err = r.Convert(dst, nil, 0) // drain
//
// # Samples
//
// Samples are float32 in [-1, 1]. Integer output formats are quantized to
// their bit depth but still delivered as float32.
//
// # Errors
//
// ErrAgain means more input is needed and the call should be repeated; it is
// never a failure. io.EOF marks the end of a stream or a completed drain.
package audio
