// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/ik5/avkit"
	"github.com/ik5/avkit/metadata"
	"github.com/spf13/cobra"
)

type convertFlags struct {
	format      string
	inputFormat string
	rate        int
	channels    int
	bits        int
	float       bool
	tags        []string
	inComment   bool
	cover       string
	noCover     bool

	title, artist, album, genre string
	year, track, disc           int
}

func (a *app) convertCmd() *cobra.Command {
	var f convertFlags

	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert a file to WAV, AIFF or FLAC",
		Long: `Convert a file to WAV, AIFF or FLAC.

The output format follows the extension of OUT unless --format is given.
Tags and cover art of IN are kept; --tag KEY=VALUE adds or replaces tags
(":" and "|" work as separators too) and --cover replaces the picture.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}
			opts.Logger = a.logger

			res, err := avkit.Convert(cmd.Context(), args[0], args[1], opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %s, %d Hz, %d channels, %d bit, %s",
				args[1], res.Format.DisplayName(), res.Audio.SampleRate, res.Audio.Channels, res.Bits, clock(res.Duration))
			if res.CoverArt {
				fmt.Fprint(cmd.OutOrStdout(), ", cover art")
			}
			fmt.Fprintln(cmd.OutOrStdout())

			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.format, "format", "", "output format: wav, aiff or flac")
	fl.StringVarP(&f.inputFormat, "input-format", "f", "", "input format when it cannot be probed")
	fl.IntVar(&f.rate, "rate", 0, "output sample rate, 0 keeps the source")
	fl.IntVar(&f.channels, "channels", 0, "output channels, 0 keeps the source")
	fl.IntVar(&f.bits, "bits", 0, "bits per sample: 16, 24 or 32")
	fl.BoolVar(&f.float, "float", false, "write 32-bit float samples")
	fl.StringArrayVarP(&f.tags, "tag", "t", nil, "custom tag KEY=VALUE, repeatable")
	fl.BoolVar(&f.inComment, "tags-in-comment", false, "store custom tags as lines of COMMENT")
	fl.StringVar(&f.cover, "cover", "", "image file to embed as cover art")
	fl.BoolVar(&f.noCover, "no-cover", false, "drop the cover art of the input")
	fl.StringVar(&f.title, "title", "", "set the title")
	fl.StringVar(&f.artist, "artist", "", "set the artist")
	fl.StringVar(&f.album, "album", "", "set the album")
	fl.StringVar(&f.genre, "genre", "", "set the genre")
	fl.IntVar(&f.year, "year", 0, "set the year, 0 removes it")
	fl.IntVar(&f.track, "track", 0, "set the track number, 0 removes it")
	fl.IntVar(&f.disc, "disc", 0, "set the disc number, 0 removes it")

	return cmd
}

// options turns the flags into ConvertOptions. Only flags given on the
// command line become changes.
func (f *convertFlags) options(cmd *cobra.Command) (avkit.ConvertOptions, error) {
	opts := avkit.ConvertOptions{
		Format:     f.format,
		FormatHint: f.inputFormat,
		SampleRate: f.rate,
		Channels:   f.channels,
		Bits:       f.bits,
		Float:      f.float,
		NoCover:    f.noCover,
	}

	changed := cmd.Flags().Changed
	str := func(name string, v string) *string {
		if !changed(name) {
			return nil
		}
		return &v
	}
	num := func(name string, v int) *int {
		if !changed(name) {
			return nil
		}
		return &v
	}
	opts.Changes = metadata.Changes{
		Title:                    str("title", f.title),
		Artist:                   str("artist", f.artist),
		Album:                    str("album", f.album),
		Genre:                    str("genre", f.genre),
		Year:                     num("year", f.year),
		TrackNumber:              num("track", f.track),
		DiscNumber:               num("disc", f.disc),
		EmbedCustomTagsInComment: f.inComment,
	}

	custom, err := parseTagFlags(f.tags)
	if err != nil {
		return opts, err
	}
	opts.Changes.CustomTags = custom

	if f.cover != "" {
		data, err := os.ReadFile(f.cover)
		if err != nil {
			return opts, fmt.Errorf("%w", err)
		}
		opts.Cover = data
	}

	return opts, nil
}

func parseTagFlags(lines []string) (map[string]string, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	tags := make(map[string]string, len(lines))
	for _, line := range lines {
		t, ok := metadata.ParseCustomTag(line)
		if !ok {
			return nil, fmt.Errorf("invalid tag %q, want KEY=VALUE", line)
		}
		tags[t.Key] = t.Value
	}

	return tags, nil
}
