// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"io"

	"github.com/ik5/avkit/audio"
)

// Format is the MPEG-1/2 Layer III input format.
type Format struct{}

func (Format) Name() string         { return "mp3" }
func (Format) Extensions() []string { return []string{"mp3"} }

// Probe recognises an ID3v2 header or a Layer III frame sync.
func (Format) Probe(header []byte) int {
	if bytes.HasPrefix(header, []byte("ID3")) {
		return 100
	}
	if len(header) >= 4 && header[0] == 0xFF && header[1]&0xE0 == 0xE0 && (header[1]>>1)&0x3 == 0x1 {
		return 50
	}
	return 0
}

func (Format) Open(r io.Reader) (audio.Demuxer, error) {
	return &demuxer{r: r, newDecoder: newDecoder, tags: &audio.Tags{}}, nil
}
