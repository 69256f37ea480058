// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/ik5/avkit/metadata"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func (a *app) tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags FILE",
		Short: "Dump the raw ID3, MP4, FLAC or Vorbis tags of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("%w", err)
			}
			defer f.Close()

			raw, err := metadata.RawTags(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			keys := lo.Keys(raw)
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, raw[k])
			}

			return nil
		},
	}
}
