// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ik5/avkit/audio"
)

// Format is the AIFF input format.
type Format struct{}

func (Format) Name() string         { return "aiff" }
func (Format) Extensions() []string { return []string{"aiff", "aif", "aifc"} }

func (Format) Probe(header []byte) int {
	if len(header) < 12 || !bytes.Equal(header[:4], []byte("FORM")) {
		return 0
	}
	switch string(header[8:12]) {
	case "AIFF":
		return 100
	case "AIFC":
		// Only uncompressed AIFF-C decodes.
		return 50
	}
	return 0
}

// Open wraps r. go-audio requires io.ReadSeeker, so other readers are read
// into memory first.
func (Format) Open(r io.Reader) (audio.Demuxer, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	return &demuxer{rs: rs, reopen: openDecoder, tags: &audio.Tags{}}, nil
}
