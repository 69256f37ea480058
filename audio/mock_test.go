// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"io"
	"time"
)

// fakeInput recognises streams starting with magic.
type fakeInput struct {
	name  string
	exts  []string
	magic []byte
	score int
}

func (f *fakeInput) Name() string         { return f.name }
func (f *fakeInput) Extensions() []string { return f.exts }

func (f *fakeInput) Probe(header []byte) int {
	if len(f.magic) > 0 && bytes.HasPrefix(header, f.magic) {
		return f.score
	}
	return 0
}

func (f *fakeInput) Open(r io.Reader) (Demuxer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &fakeDemuxer{format: f.name, data: data}, nil
}

// fakeDemuxer returns its whole input as a single packet.
type fakeDemuxer struct {
	format string
	data   []byte
	read   bool
	closed bool
}

func (d *fakeDemuxer) FindStreamInfo() error { return nil }

func (d *fakeDemuxer) Streams() []*Stream {
	return []*Stream{{
		MediaType: MediaAudio,
		CodecID:   CodecPCMU8,
		Params:    CodecParameters{SampleRate: 8000, Channels: 1, Format: U8},
		TimeBase:  Rational{Num: 1, Den: 8000},
		Duration:  int64(len(d.data)),
	}}
}

func (d *fakeDemuxer) Duration() time.Duration { return d.Streams()[0].DurationTime() }
func (d *fakeDemuxer) BitRate() int64          { return 64000 }
func (d *fakeDemuxer) Tags() *Tags             { return NewTags([2]string{TagTitle, d.format}) }

func (d *fakeDemuxer) ReadPacket(pkt *Packet) error {
	if d.read {
		return io.EOF
	}
	d.read = true
	pkt.StreamIndex = 0
	copy(pkt.Grow(len(d.data)), d.data)
	pkt.Flags = FlagKey
	return nil
}

func (d *fakeDemuxer) Seek(_ int, ts int64, _ SeekFlag) error {
	if ts != 0 {
		return ErrNotSeekable
	}
	d.read = false
	return nil
}

func (d *fakeDemuxer) Close() error {
	d.closed = true
	return nil
}

// onlyReader hides the io.Seeker of the wrapped reader.
type onlyReader struct{ r io.Reader }

func (o onlyReader) Read(p []byte) (int, error) { return o.r.Read(p) }

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.RegisterInput(&fakeInput{name: "foo", exts: []string{"foo", "fo"}, magic: []byte("FOO!"), score: 100})
	r.RegisterInput(&fakeInput{name: "bar", exts: []string{"bar"}, magic: []byte("FOO"), score: 50})
	r.RegisterInput(&fakeInput{name: "raw", exts: []string{"raw", "pcm"}})
	return r
}
