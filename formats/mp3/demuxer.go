// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"
	"time"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/metadata"
	"github.com/ik5/avkit/picture"
)

const (
	// go-mp3 always decodes to interleaved 16-bit stereo.
	channels   = 2
	frameBytes = 4

	packetFrames = 4096
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	SampleRate() int
	// Length is the decoded size in bytes, -1 when unknown.
	Length() int64
}

func newDecoder(r io.Reader) (mp3Reader, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}
	return dec, nil
}

type demuxer struct {
	r          io.Reader
	newDecoder func(io.Reader) (mp3Reader, error)
	dec        mp3Reader
	tags       *audio.Tags

	streams []*audio.Stream
	cover   []byte
	// coverSent is set once the attached picture packet went out.
	coverSent bool
	atEnd     bool
	pos       int64 // frames
}

func (d *demuxer) FindStreamInfo() error {
	if d.dec != nil {
		return nil
	}

	var size int64
	if rs, ok := d.r.(io.ReadSeeker); ok {
		size = d.readTags(rs)
	}

	dec, err := d.newDecoder(d.r)
	if err != nil {
		return err
	}
	d.dec = dec

	rate := dec.SampleRate()
	if rate <= 0 {
		return ErrNotMP3File
	}

	frames := int64(-1)
	if l := dec.Length(); l >= 0 {
		frames = l / frameBytes
	}

	var bitRate int64
	if size > 0 && frames > 0 {
		bitRate = size * 8 * int64(rate) / frames
	}

	format, _ := audio.PCMOutputFormat(audio.CodecPCMS16LE)
	d.streams = []*audio.Stream{{
		Index:     0,
		MediaType: audio.MediaAudio,
		CodecID:   audio.CodecPCMS16LE,
		CodecName: "mp3",
		Params: audio.CodecParameters{
			SampleRate:       rate,
			Channels:         channels,
			Format:           format,
			BitsPerRawSample: 16,
			BitRate:          bitRate,
		},
		TimeBase: audio.Rational{Num: 1, Den: int64(rate)},
		Duration: frames,
	}}
	if len(d.cover) > 0 {
		d.streams = append(d.streams, picture.NewStream(1, d.cover))
	}

	return nil
}

// readTags picks up ID3 tags and cover art, rewinds rs and returns its size.
func (d *demuxer) readTags(rs io.ReadSeeker) int64 {
	md, err := metadata.Read(rs)
	if err == nil {
		d.tags = md.Tags()
		d.cover = md.CoverArt
	}

	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		size = 0
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0
	}

	return size
}

func (d *demuxer) Streams() []*audio.Stream { return d.streams }

func (d *demuxer) Duration() time.Duration {
	if len(d.streams) == 0 {
		return 0
	}
	return d.streams[0].DurationTime()
}

func (d *demuxer) BitRate() int64 {
	if len(d.streams) == 0 {
		return 0
	}
	return d.streams[0].Params.BitRate
}

func (d *demuxer) Tags() *audio.Tags { return d.tags }

// ReadPacket emits the cover art first, then up to packetFrames decoded
// frames per packet.
func (d *demuxer) ReadPacket(pkt *audio.Packet) error {
	if d.dec == nil {
		return ErrNotMP3File
	}

	if len(d.streams) > 1 && !d.coverSent {
		d.coverSent = true
		picture.Packet(pkt, 1, d.cover)
		return nil
	}

	if d.atEnd {
		return io.EOF
	}

	buf := pkt.Grow(packetFrames * frameBytes)
	n := 0
	var err error
	for n < len(buf) && err == nil {
		var m int
		m, err = d.dec.Read(buf[n:])
		n += m
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w", err)
	}

	n -= n % frameBytes
	if n == 0 {
		return io.EOF
	}

	frames := int64(n / frameBytes)
	pkt.Data = buf[:n]
	pkt.StreamIndex = 0
	pkt.PTS = d.pos
	pkt.Duration = frames
	pkt.Flags = audio.FlagKey
	d.pos += frames

	return nil
}

// Seek is sample accurate: go-mp3 decodes the frame before the target to
// prime the bit reservoir.
func (d *demuxer) Seek(_ int, ts int64, _ audio.SeekFlag) error {
	if d.dec == nil {
		return ErrNotMP3File
	}
	if d.dec.Length() < 0 {
		return fmt.Errorf("%w: %w", audio.ErrNotSeekable, ErrUnknownLength)
	}

	// go-mp3 cannot seek onto the end itself.
	frames := d.dec.Length() / frameBytes
	d.atEnd = ts >= frames
	if d.atEnd {
		d.pos = frames
		return nil
	}

	ts = max(0, ts)
	if _, err := d.dec.Seek(ts*frameBytes, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}
	d.pos = ts

	return nil
}

func (d *demuxer) Close() error {
	d.dec = nil
	d.streams = nil
	return nil
}
