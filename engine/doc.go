// SPDX-License-Identifier: EPL-2.0

// Package engine decodes audio files into a fixed output PCM format.
//
// An Engine owns one decode session: a demuxer, a decoder and, unless the
// source already matches the configured output, a resampler. Buffers are
// handed to a callback and are only valid while it runs:
//
//	e := engine.New(engine.WithFormat(audio.Format{SampleRate: 48000, Channels: 2, SampleFormat: audio.Float32}))
//	if err := e.Open(ctx, "song.flac"); err != nil {
//		return err
//	}
//	defer e.Close()
//
//	for {
//		err := e.DecodeNext(ctx, func(buf audio.PCMBuffer) error {
//			return sink.Schedule(buf.Copy())
//		})
//		if errors.Is(err, engine.ErrEndOfFile) {
//			break
//		}
//		if err != nil {
//			return err
//		}
//	}
//
// An Engine is not safe for concurrent use.
package engine
