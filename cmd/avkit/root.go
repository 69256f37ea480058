// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type app struct {
	verbose bool
	logger  *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logrus.New()}

	cmd := &cobra.Command{
		Use:          "avkit",
		Short:        "Probe, convert, tag and play audio files",
		SilenceUsage: true,
		Long: `Probe, convert, tag and play audio files.

Inputs: WAV, AIFF, FLAC, MP3 and Ogg Vorbis. "-" reads stdin.
Outputs: WAV, AIFF and FLAC.

Examples:
  avkit probe *.flac
  avkit convert song.mp3 song.flac --rate 44100 --tag COMPOSER=Someone --cover front.jpg
  avkit play song.ogg --volume 0.5
  avkit resample voice.ogg voice.wav --rate 8000`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.logger.SetOutput(cmd.ErrOrStderr())
			a.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			a.logger.SetLevel(logrus.WarnLevel)
			if a.verbose {
				a.logger.SetLevel(logrus.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	cmd.AddCommand(
		a.playCmd(),
		a.probeCmd(),
		a.convertCmd(),
		a.tagsCmd(),
		a.resampleCmd(),
	)

	return cmd
}

// clock formats d as m:ss.
func clock(d time.Duration) string {
	s := int(max(d, 0) / time.Second)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
