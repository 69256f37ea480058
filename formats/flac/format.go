// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"io"

	"github.com/ik5/avkit/audio"
)

// Format is the native FLAC input format.
type Format struct{}

func (Format) Name() string         { return "flac" }
func (Format) Extensions() []string { return []string{"flac"} }

func (Format) Probe(header []byte) int {
	if bytes.HasPrefix(header, []byte("fLaC")) {
		return 100
	}
	return 0
}

func (Format) Open(r io.Reader) (audio.Demuxer, error) {
	return &demuxer{r: r, parse: parse, tags: &audio.Tags{}}, nil
}
