// SPDX-License-Identifier: EPL-2.0

package output

import "github.com/ik5/avkit/audio"

// Recorder is a Muxer that keeps everything in memory. It stands in for
// containers without a Go encoder (Ogg, MP4) and is handy in tests.
type Recorder struct {
	// HeaderTags is a snapshot of the context tags taken by WriteHeader.
	HeaderTags *audio.Tags
	// Streams is a snapshot of the stream list taken by WriteHeader.
	Streams  []audio.Stream
	Packets  []audio.Packet
	Finished bool
}

func (r *Recorder) WriteHeader(c *Context) error {
	r.HeaderTags = c.Tags.Clone()
	r.Streams = r.Streams[:0]
	for _, s := range c.Streams() {
		r.Streams = append(r.Streams, *s)
	}
	return nil
}

func (r *Recorder) WritePacket(_ *Context, pkt *audio.Packet) error {
	p := *pkt
	p.Data = append([]byte(nil), pkt.Data...)
	r.Packets = append(r.Packets, p)
	return nil
}

func (r *Recorder) WriteTrailer(*Context) error {
	r.Finished = true
	return nil
}
