// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ik5/avkit/audio"
)

// Format is the WAV input format.
type Format struct{}

func (Format) Name() string         { return "wav" }
func (Format) Extensions() []string { return []string{"wav", "wave"} }

func (Format) Probe(header []byte) int {
	if len(header) >= 12 && bytes.Equal(header[:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")) {
		return 100
	}
	return 0
}

// Open wraps r. go-audio needs to seek, so non-seekable input is read into
// memory first.
func (Format) Open(r io.Reader) (audio.Demuxer, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	return &demuxer{rs: rs, tags: &audio.Tags{}}, nil
}
