// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/ik5/avkit"
	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/engine"
	"github.com/ik5/avkit/metadata"
	"github.com/ik5/avkit/picture"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type probeResult struct {
	path     string
	codec    string
	format   audio.Format
	bits     int
	duration time.Duration
	bitRate  int64
	tags     *audio.Tags
	cover    []byte
	err      error
}

func (a *app) probeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "probe FILE...",
		Short: "Print the stream properties, tags and cover art of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := a.probeAll(cmd.Context(), args, format)

			var errs []error
			for _, r := range results {
				printProbe(cmd.OutOrStdout(), r)
				if r.err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", r.path, r.err))
				}
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "input format when it cannot be probed")

	return cmd
}

// probeAll opens the files in parallel. Results keep the order of paths.
func (a *app) probeAll(ctx context.Context, paths []string, format string) []probeResult {
	results := make([]probeResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			results[i] = a.probe(ctx, path, format)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		for i := range results {
			if results[i].err == nil && results[i].codec == "" {
				results[i] = probeResult{path: paths[i], err: err}
			}
		}
	}

	return results
}

func (a *app) probe(ctx context.Context, path, format string) probeResult {
	r := probeResult{path: path}

	e := engine.New(engine.WithLogger(a.logger), engine.WithRegistry(avkit.Inputs()))
	if r.err = e.OpenInput(ctx, path, format); r.err != nil {
		return r
	}
	defer e.Close()

	r.codec = e.CodecName()
	r.format = e.SourceFormat()
	r.bits = e.BitsPerSample()
	r.duration = e.Duration()
	r.bitRate = e.BitRate()
	r.tags = e.Tags().Clone()

	if !audio.IsPipe(path) {
		if md, err := metadata.ReadFile(path); err == nil {
			r.cover = md.CoverArt
		}
	}

	return r
}

func printProbe(w io.Writer, r probeResult) {
	fmt.Fprintln(w, r.path)
	if r.err != nil {
		fmt.Fprintf(w, "  error:    %v\n", r.err)
		return
	}

	fmt.Fprintf(w, "  format:   %s, %d Hz, %d channels, %d bit\n",
		r.codec, r.format.SampleRate, r.format.Channels, r.bits)
	fmt.Fprintf(w, "  duration: %s", clock(r.duration))
	if r.bitRate > 0 {
		fmt.Fprintf(w, " (%d kb/s)", r.bitRate/1000)
	}
	fmt.Fprintln(w)

	if len(r.cover) > 0 {
		width, height := picture.ExtractDimensions(r.cover)
		fmt.Fprintf(w, "  cover:    %s %dx%d (%d bytes)\n",
			picture.DetectMIMEType(r.cover), width, height, len(r.cover))
	}

	if r.tags.Len() > 0 {
		fmt.Fprintln(w, "  tags:")
		r.tags.Each(func(key, value string) {
			fmt.Fprintf(w, "    %s=%s\n", key, value)
		})
	}
}
