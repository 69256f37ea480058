// SPDX-License-Identifier: EPL-2.0

package avkit

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/engine"
	"github.com/ik5/avkit/utils"
)

// ResampleToMono16 decodes r, resamples it to targetRate, mixes it down to
// mono and collects everything as 16-bit PCM.
//
// formatHint names the input format when r cannot be probed, "" probes.
// bufferSize is how many samples are pulled from the engine per read.
//
// Example:
//
//	f, _ := os.Open("voice.ogg")
//	pcm16, rate, err := avkit.ResampleToMono16(ctx, f, "", 8000, 4096)
//	if err != nil {
//	    panic(err)
//	}
//	// pcm16 now contains mono 16-bit PCM at 8kHz
func ResampleToMono16(ctx context.Context, r io.Reader, formatHint string, targetRate, bufferSize int) ([]int16, int, error) {
	if bufferSize <= 0 {
		return nil, targetRate, fmt.Errorf("%w: buffer size %d", audio.ErrInvalidDstSize, bufferSize)
	}

	e := engine.New(
		engine.WithRegistry(Inputs()),
		engine.WithFormat(audio.Format{SampleRate: targetRate, Channels: 1, SampleFormat: audio.Float32}),
	)
	if err := e.OpenReader(ctx, r, formatHint); err != nil {
		return nil, targetRate, err
	}
	src := engine.NewSource(ctx, e)
	defer src.Close()

	// Start with room for about two seconds.
	pcm16 := make([]int16, 0, targetRate*2)
	buf := make([]float32, bufferSize)

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			if cap(pcm16)-len(pcm16) < n {
				grown := make([]int16, len(pcm16), len(pcm16)+max(n, cap(pcm16)))
				copy(grown, pcm16)
				pcm16 = grown
			}

			start := len(pcm16)
			pcm16 = pcm16[:start+n]
			for i, x := range buf[:n] {
				pcm16[start+i] = utils.Float32ToInt16(x)
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, targetRate, fmt.Errorf("%w", err)
		}
	}

	return pcm16, targetRate, nil
}
