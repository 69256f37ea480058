// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/picture"
	"github.com/jfreymuth/oggvorbis"
	"github.com/jfreymuth/vorbis"
)

// frames per packet
const packetFrames = 4096

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Bitrate() vorbis.Bitrate
	CommentHeader() vorbis.CommentHeader
	// Length is in frames, 0 when unknown.
	Length() int64
	SetPosition(pos int64) error
	// Read fills p with interleaved samples and returns how many values it
	// stored, always a multiple of Channels.
	Read(p []float32) (int, error)
}

func newReader(r io.Reader) (oggReader, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}
	return dec, nil
}

// demuxer decodes through oggvorbis and emits pcm_fltp packets.
type demuxer struct {
	r         io.Reader
	newReader func(io.Reader) (oggReader, error)
	dec       oggReader
	tags      *audio.Tags

	streams   []*audio.Stream
	cover     []byte
	coverSent bool
	channels  int
	interBuf  []float32
	pos       int64 // frames
}

func (d *demuxer) FindStreamInfo() error {
	if d.dec != nil {
		return nil
	}

	dec, err := d.newReader(d.r)
	if err != nil {
		return err
	}

	channels := dec.Channels()
	if channels < 1 {
		return fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
	}
	rate := dec.SampleRate()
	if rate <= 0 {
		return ErrNotVorbisFile
	}

	d.dec = dec
	d.channels = channels
	d.readComments(dec.CommentHeader())

	frames := dec.Length()
	if frames <= 0 {
		frames = -1
	}

	d.streams = []*audio.Stream{{
		Index:     0,
		MediaType: audio.MediaAudio,
		CodecID:   audio.CodecPCMFLTP,
		CodecName: "vorbis",
		Params: audio.CodecParameters{
			SampleRate: rate,
			Channels:   channels,
			Format:     audio.FLTP,
			BitRate:    int64(dec.Bitrate().Nominal),
		},
		TimeBase: audio.Rational{Num: 1, Den: int64(rate)},
		Duration: frames,
	}}
	if len(d.cover) > 0 {
		d.streams = append(d.streams, picture.NewStream(1, d.cover))
	}

	return nil
}

// readComments copies the Vorbis comments into the tags. The first valid
// METADATA_BLOCK_PICTURE becomes the cover art instead of a tag.
func (d *demuxer) readComments(h vorbis.CommentHeader) {
	if h.Vendor != "" {
		d.tags.Set(audio.TagEncoder, h.Vendor)
	}

	for _, c := range h.Comments {
		key, value, ok := strings.Cut(c, "=")
		if !ok || key == "" {
			continue
		}

		if audio.CanonicalKey(key) == audio.TagPicture {
			if d.cover == nil {
				if b, err := picture.ParseBase64(value); err == nil && len(b.Data) > 0 {
					d.cover = b.Data
				}
			}
			continue
		}

		// Repeated keys such as ARTIST are joined.
		if prev, ok := d.tags.Get(key); ok {
			value = prev + ";" + value
		}
		d.tags.Set(key, value)
	}
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

func (d *demuxer) ReadPacket(pkt *audio.Packet) error {
	if d.dec == nil {
		return ErrNotVorbisFile
	}

	if len(d.streams) > 1 && !d.coverSent {
		d.coverSent = true
		picture.Packet(pkt, 1, d.cover)
		return nil
	}

	size := packetFrames * d.channels
	if cap(d.interBuf) < size {
		d.interBuf = make([]float32, size)
	}
	d.interBuf = d.interBuf[:size]

	n, err := d.dec.Read(d.interBuf)
	n -= n % d.channels
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w", err)
		}
		return io.EOF
	}

	frames := n / d.channels
	plane := frames * 4
	buf := pkt.Grow(plane * d.channels)
	for i := range frames {
		for ch := range d.channels {
			binary.LittleEndian.PutUint32(buf[ch*plane+i*4:], math.Float32bits(d.interBuf[i*d.channels+ch]))
		}
	}

	pkt.StreamIndex = 0
	pkt.PTS = d.pos
	pkt.Duration = int64(frames)
	pkt.Flags = audio.FlagKey
	d.pos += int64(frames)

	return nil
}

// Seek is sample accurate. oggvorbis bisects the pages, so the input must be
// seekable.
func (d *demuxer) Seek(_ int, ts int64, _ audio.SeekFlag) error {
	if d.dec == nil {
		return ErrNotVorbisFile
	}
	if _, ok := d.r.(io.Seeker); !ok {
		return audio.ErrNotSeekable
	}

	ts = max(0, ts)
	if err := d.dec.SetPosition(ts); err != nil {
		return fmt.Errorf("%w", err)
	}
	d.pos = ts

	return nil
}

func (d *demuxer) Close() error {
	d.dec = nil
	d.streams = nil
	d.interBuf = nil
	return nil
}
