// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"io"

	"github.com/ik5/avkit/audio"
)

// Format is the Ogg Vorbis input format.
type Format struct{}

func (Format) Name() string         { return "ogg" }
func (Format) Extensions() []string { return []string{"ogg", "oga"} }

// Probe looks for an Ogg page whose first packet is a Vorbis identification
// header. Other Ogg codecs still score low so the registry reports them.
func (Format) Probe(header []byte) int {
	if !bytes.HasPrefix(header, []byte("OggS")) {
		return 0
	}
	if bytes.Contains(header, []byte("\x01vorbis")) {
		return 100
	}
	return 10
}

func (Format) Open(r io.Reader) (audio.Demuxer, error) {
	return &demuxer{r: r, newReader: newReader, tags: &audio.Tags{}}, nil
}
