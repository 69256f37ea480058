// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"

	"github.com/ik5/avkit"
	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/player"
	"github.com/ik5/avkit/sink"
	"github.com/spf13/cobra"
)

type playFlags struct {
	format string
	volume float64
	null   bool
}

func (a *app) playCmd() *cobra.Command {
	var f playFlags

	cmd := &cobra.Command{
		Use:   "play FILE|-",
		Short: "Play a file on the default audio device",
		Long: `Play a file on the default audio device.

Progress is printed as elapsed / total. Ctrl-C stops playback.
--null decodes at full speed without a device.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.format, "format", "f", "", "input format when it cannot be probed, e.g. for stdin")
	cmd.Flags().Float64Var(&f.volume, "volume", 1, "volume from 0 to 1")
	cmd.Flags().BoolVar(&f.null, "null", false, "decode without an audio device")

	return cmd
}

func (a *app) play(cmd *cobra.Command, path string, f playFlags) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	var out sink.Output = sink.NewNull()
	if !f.null {
		var err error
		if out, err = sink.NewOto(sink.WithLogger(a.logger)); err != nil {
			return err
		}
	}
	defer out.Close()

	p := player.New(out, player.WithLogger(a.logger), player.WithRegistry(avkit.Inputs()))
	defer p.Close()

	if err := p.OpenInput(ctx, path, f.format); err != nil {
		return err
	}
	printHeader(w, path, p)

	p.SetVolume(f.volume)
	if err := p.Play(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(w)
			return p.Stop()
		case ev, ok := <-p.Events():
			if !ok {
				return nil
			}

			switch ev.Type {
			case player.EventProgress:
				fmt.Fprintf(w, "\r%s / %s [%3.0f%%]", clock(ev.Position), clock(ev.Duration), ev.Percent())
			case player.EventError:
				fmt.Fprintln(w)
				return ev.Err
			case player.EventStateChanged:
				if ev.State == player.StateCompleted || ev.State == player.StateStopped {
					fmt.Fprintln(w)
					return nil
				}
			}
		}
	}
}

func printHeader(w io.Writer, path string, p *player.Player) {
	tags := p.Tags()
	fmt.Fprintf(w, "Playing %s (%s)\n", path, clock(p.Duration()))
	if title := tags.Value(audio.TagTitle); title != "" {
		fmt.Fprintf(w, "  %s", title)
		if artist := tags.Value(audio.TagArtist); artist != "" {
			fmt.Fprintf(w, " by %s", artist)
		}
		fmt.Fprintln(w)
	}
}
