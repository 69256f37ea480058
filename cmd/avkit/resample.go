// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/avkit"
	"github.com/spf13/cobra"
)

func (a *app) resampleCmd() *cobra.Command {
	var (
		rate   int
		format string
	)

	cmd := &cobra.Command{
		Use:   "resample IN OUT.wav",
		Short: "Write IN as mono 16-bit WAV at a fixed rate",
		Long: `Write IN as mono 16-bit WAV at a fixed rate, 8kHz by default.

This is the usual preparation for telephony and speech engines.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("%w", err)
				}
				defer f.Close()
				in = f
			}

			pcm16, outRate, err := avkit.ResampleToMono16(cmd.Context(), in, format, rate, 4096)
			if err != nil {
				return err
			}

			if err := writeWAV16(args[1], outRate, pcm16); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Wrote:", args[1])
			return nil
		},
	}

	cmd.Flags().IntVar(&rate, "rate", 8000, "output sample rate")
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format when it cannot be probed")

	return cmd
}

// writeWAV16 stores mono samples with the go-audio encoder.
func writeWAV16(path string, rate int, samples []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer f.Close()

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing wav: %w", err)
	}

	return f.Close()
}
