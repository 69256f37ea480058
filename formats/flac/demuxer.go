// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/picture"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// flacReader is an interface for flac.Stream to allow testing
type flacReader interface {
	ParseNext() (*frame.Frame, error)
	Seek(sampleNum uint64) (uint64, error)
}

// parsed is the metadata of a stream and the reader positioned at its first
// audio frame.
type parsed struct {
	info     *meta.StreamInfo
	blocks   []*meta.Block
	dec      flacReader
	size     int64 // input size in bytes, 0 if unknown
	seekable bool
}

// parse reads every metadata block with flac.Parse. Seekable inputs are then
// rewound and reopened with flac.NewSeek so frames can be located by sample.
func parse(r io.Reader) (*parsed, error) {
	rs, seekable := r.(io.ReadSeeker)
	var start int64
	if seekable {
		var err error
		if start, err = rs.Seek(0, io.SeekCurrent); err != nil {
			seekable = false
		}
	}

	stream, err := flac.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}
	p := &parsed{info: stream.Info, blocks: stream.Blocks, dec: stream}
	if !seekable {
		return p, nil
	}

	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	seeker, err := flac.NewSeek(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}
	p.dec = seeker
	p.size = end - start
	p.seekable = true

	return p, nil
}

// outputLayout picks the planar codec holding bits and the left shift that
// scales samples up to it.
func outputLayout(bits int) (codecID string, width, shift int, err error) {
	switch {
	case bits >= 4 && bits <= 16:
		return audio.CodecPCMS16P, 2, 16 - bits, nil
	case bits > 16 && bits <= 32:
		return audio.CodecPCMS32P, 4, 32 - bits, nil
	}
	return "", 0, 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bits)
}

// demuxer emits the decoded subframes of every FLAC frame as one planar
// packet.
type demuxer struct {
	r     io.Reader
	parse func(io.Reader) (*parsed, error)
	p     *parsed
	tags  *audio.Tags

	streams   []*audio.Stream
	cover     []byte
	coverSent bool
	channels  int
	width     int
	shift     int
	pos       int64 // frames
	skip      int64 // frames to drop after a seek
	atEnd     bool
}

func (d *demuxer) FindStreamInfo() error {
	if d.p != nil {
		return nil
	}

	p, err := d.parse(d.r)
	if err != nil {
		return err
	}
	info := p.info
	if info == nil || info.SampleRate == 0 {
		return ErrNotFlacFile
	}
	if info.NChannels < 1 || info.NChannels > 8 {
		return fmt.Errorf("%w: %d", ErrUnsupportedChannels, info.NChannels)
	}

	id, width, shift, err := outputLayout(int(info.BitsPerSample))
	if err != nil {
		return err
	}

	d.p = p
	d.channels = int(info.NChannels)
	d.width, d.shift = width, shift
	d.readBlocks(p.blocks)

	rate := int(info.SampleRate)
	frames := int64(info.NSamples)
	if frames == 0 {
		frames = -1
	}

	var bitRate int64
	if p.size > 0 && frames > 0 {
		bitRate = p.size * 8 * int64(rate) / frames
	}

	format, _ := audio.PCMOutputFormat(id)
	d.streams = []*audio.Stream{{
		Index:     0,
		MediaType: audio.MediaAudio,
		CodecID:   id,
		CodecName: "flac",
		Params: audio.CodecParameters{
			SampleRate:       rate,
			Channels:         d.channels,
			Format:           format,
			BitsPerRawSample: int(info.BitsPerSample),
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

// readBlocks picks up the Vorbis comments and the cover art, preferring a
// front cover over other picture types.
func (d *demuxer) readBlocks(blocks []*meta.Block) {
	var front bool
	for _, b := range blocks {
		switch body := b.Body.(type) {
		case *meta.VorbisComment:
			if body.Vendor != "" {
				d.tags.Set(audio.TagEncoder, body.Vendor)
			}
			for _, kv := range body.Tags {
				value := kv[1]
				if prev, ok := d.tags.Get(kv[0]); ok {
					value = prev + ";" + value
				}
				d.tags.Set(kv[0], value)
			}
		case *meta.Picture:
			if len(body.Data) == 0 || front {
				continue
			}
			if d.cover == nil || body.Type == picture.FrontCover {
				d.cover = body.Data
				front = body.Type == picture.FrontCover
			}
		}
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
	if d.p == nil {
		return ErrNotFlacFile
	}

	if len(d.streams) > 1 && !d.coverSent {
		d.coverSent = true
		picture.Packet(pkt, 1, d.cover)
		return nil
	}
	if d.atEnd {
		return io.EOF
	}

	for {
		f, err := d.p.dec.ParseNext()
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		if err != nil {
			return fmt.Errorf("%w: %w", audio.ErrInvalidData, err)
		}
		if len(f.Subframes) != d.channels {
			return fmt.Errorf("%w: frame with %d channels", audio.ErrInvalidData, len(f.Subframes))
		}

		n := int64(f.Subframes[0].NSamples)
		drop := min(d.skip, n)
		d.skip -= drop
		if drop == n {
			continue
		}

		d.fill(pkt, f, int(drop), int(n-drop))
		return nil
	}
}

// fill writes samples [from, from+n) of every subframe as one plane each.
func (d *demuxer) fill(pkt *audio.Packet, f *frame.Frame, from, n int) {
	plane := n * d.width
	buf := pkt.Grow(plane * d.channels)
	for ch, sub := range f.Subframes {
		for i, s := range sub.Samples[from : from+n] {
			v := s << d.shift
			off := ch*plane + i*d.width
			if d.width == 2 {
				binary.LittleEndian.PutUint16(buf[off:], uint16(int16(v)))
			} else {
				binary.LittleEndian.PutUint32(buf[off:], uint32(v))
			}
		}
	}

	pkt.StreamIndex = 0
	pkt.PTS = d.pos
	pkt.Duration = int64(n)
	pkt.Flags = audio.FlagKey
	d.pos += int64(n)
}

// Seek lands on the frame holding ts and drops the samples before it.
func (d *demuxer) Seek(_ int, ts int64, _ audio.SeekFlag) error {
	if d.p == nil {
		return ErrNotFlacFile
	}
	if !d.p.seekable {
		return audio.ErrNotSeekable
	}

	ts = max(0, ts)
	// mewkiz/flac cannot seek onto the end itself.
	total := d.streams[0].Duration
	d.atEnd = total > 0 && ts >= total
	if d.atEnd {
		d.pos = total
		return nil
	}

	start, err := d.p.dec.Seek(uint64(ts))
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	d.skip = ts - int64(start)
	d.pos = ts

	return nil
}

func (d *demuxer) Close() error {
	d.p = nil
	d.streams = nil
	return nil
}
