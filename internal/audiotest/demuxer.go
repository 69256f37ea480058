// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"io"
	"time"

	"github.com/ik5/avkit/audio"
)

// Demuxer is a scripted audio.Demuxer. Packets are returned in order, then
// io.EOF (or ReadErr when set).
type Demuxer struct {
	StreamList []*audio.Stream
	Packets    []audio.Packet
	TagSet     *audio.Tags

	InfoErr error
	ReadErr error
	SeekErr error

	next   int
	Seeks  []int64
	Closed int
}

func (d *Demuxer) FindStreamInfo() error    { return d.InfoErr }
func (d *Demuxer) Streams() []*audio.Stream { return d.StreamList }
func (d *Demuxer) BitRate() int64           { return 0 }
func (d *Demuxer) Tags() *audio.Tags        { return d.TagSet }

func (d *Demuxer) Duration() time.Duration {
	if len(d.StreamList) == 0 {
		return 0
	}
	return d.StreamList[0].DurationTime()
}

func (d *Demuxer) ReadPacket(pkt *audio.Packet) error {
	if d.next >= len(d.Packets) {
		if d.ReadErr != nil {
			return d.ReadErr
		}
		return io.EOF
	}

	src := d.Packets[d.next]
	d.next++

	pkt.StreamIndex = src.StreamIndex
	pkt.Data = append(pkt.Data[:0], src.Data...)
	pkt.PTS = src.PTS
	pkt.Duration = src.Duration
	pkt.Flags = src.Flags

	return nil
}

// Seek rewinds to the first packet whose PTS is at or after ts.
func (d *Demuxer) Seek(_ int, ts int64, _ audio.SeekFlag) error {
	if d.SeekErr != nil {
		return d.SeekErr
	}
	d.Seeks = append(d.Seeks, ts)

	d.next = len(d.Packets)
	for i, p := range d.Packets {
		if p.PTS+p.Duration > ts {
			d.next = i
			break
		}
	}

	return nil
}

func (d *Demuxer) Close() error {
	d.Closed++
	return nil
}

// InputFormat hands out a fixed demuxer for files starting with Magic.
type InputFormat struct {
	FormatName string
	Magic      []byte
	Demuxer    *Demuxer
}

func (f *InputFormat) Name() string         { return f.FormatName }
func (f *InputFormat) Extensions() []string { return []string{f.FormatName} }

func (f *InputFormat) Probe(header []byte) int {
	if len(f.Magic) > 0 && bytes.HasPrefix(header, f.Magic) {
		return 100
	}
	return 0
}

func (f *InputFormat) Open(io.Reader) (audio.Demuxer, error) {
	return f.Demuxer, nil
}

// AudioStream describes stream 0 as interleaved PCM of the given codec.
func AudioStream(codecID string, rate, channels int, frames int64) *audio.Stream {
	format, _ := audio.PCMOutputFormat(codecID)
	return &audio.Stream{
		MediaType: audio.MediaAudio,
		CodecID:   codecID,
		CodecName: codecID,
		Params: audio.CodecParameters{
			SampleRate:       rate,
			Channels:         channels,
			Format:           format,
			BitsPerRawSample: format.BytesPerSample() * 8,
		},
		TimeBase: audio.Rational{Num: 1, Den: int64(rate)},
		Duration: frames,
	}
}
