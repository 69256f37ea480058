// SPDX-License-Identifier: EPL-2.0

// Package player plays audio files through a sink.Output.
//
// A Player owns one engine at a time. Open prepares a file, Play starts a
// decode loop in its own goroutine, and the state machine moves between
// idle, playing, paused, stopped and completed:
//
//	p := player.New(out)
//	defer p.Close()
//
//	if err := p.Open(ctx, "song.flac"); err != nil {
//		return err
//	}
//	if err := p.Play(ctx); err != nil {
//		return err
//	}
//	for ev := range p.Events() {
//		if ev.Type == player.EventStateChanged && ev.State == player.StateCompleted {
//			break
//		}
//	}
//
// Seeking while playing drops the audio queued in the sink, so the new
// position is heard without the old buffer draining first.
package player
