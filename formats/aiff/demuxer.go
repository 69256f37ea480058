// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/avkit/audio"
)

// frames per packet
const packetFrames = 4096

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// info is what the COMM chunk tells about the sound data.
type info struct {
	sampleRate int
	channels   int
	bitDepth   int
	frames     int64
}

// openDecoder rewinds rs and parses the AIFF headers.
func openDecoder(rs io.ReadSeeker) (aiffReader, info, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, info{}, fmt.Errorf("%w", err)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, info{}, ErrNotAiffFile
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels < 1 || format.SampleRate <= 0 {
		return nil, info{}, ErrUnsupportedAiffLayout
	}

	return dec, info{
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   int(dec.BitDepth),
		frames:     int64(dec.NumSampleFrames),
	}, nil
}

// demuxer decodes the big-endian sample data through go-audio and emits
// native planar packets: pcm_s16p up to 16 bits, pcm_s32p above.
type demuxer struct {
	rs     io.ReadSeeker
	reopen func(io.ReadSeeker) (aiffReader, info, error)
	dec    aiffReader
	info   info
	tags   *audio.Tags

	stream *audio.Stream
	width  int // output bytes per sample
	shift  int // left shift to the output width
	intBuf *goaudio.IntBuffer
	pos    int64 // frames
}

func outputLayout(bits int) (codecID string, width, shift int, err error) {
	switch bits {
	case 8:
		return audio.CodecPCMS16P, 2, 8, nil
	case 16:
		return audio.CodecPCMS16P, 2, 0, nil
	case 24:
		return audio.CodecPCMS32P, 4, 8, nil
	case 32:
		return audio.CodecPCMS32P, 4, 0, nil
	}
	return "", 0, 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bits)
}

func (d *demuxer) FindStreamInfo() error {
	if d.stream != nil {
		return nil
	}

	dec, inf, err := d.reopen(d.rs)
	if err != nil {
		return err
	}

	id, width, shift, err := outputLayout(inf.bitDepth)
	if err != nil {
		return err
	}

	d.dec, d.info = dec, inf
	d.width, d.shift = width, shift

	format, _ := audio.PCMOutputFormat(id)
	d.stream = &audio.Stream{
		Index:     0,
		MediaType: audio.MediaAudio,
		CodecID:   id,
		CodecName: fmt.Sprintf("pcm_s%dbe", inf.bitDepth),
		Params: audio.CodecParameters{
			SampleRate:       inf.sampleRate,
			Channels:         inf.channels,
			Format:           format,
			BitsPerRawSample: inf.bitDepth,
			BitRate:          int64(inf.sampleRate * inf.channels * inf.bitDepth),
		},
		TimeBase: audio.Rational{Num: 1, Den: int64(inf.sampleRate)},
		Duration: inf.frames,
	}

	return nil
}

func (d *demuxer) Streams() []*audio.Stream {
	if d.stream == nil {
		return nil
	}
	return []*audio.Stream{d.stream}
}

func (d *demuxer) Duration() time.Duration {
	if d.stream == nil {
		return 0
	}
	return d.stream.DurationTime()
}

func (d *demuxer) BitRate() int64 {
	if d.stream == nil {
		return 0
	}
	return d.stream.Params.BitRate
}

func (d *demuxer) Tags() *audio.Tags { return d.tags }

// read fills the int buffer with up to frames frames and returns how many
// whole frames it got.
func (d *demuxer) read(frames int) (int, error) {
	channels := d.info.channels
	size := frames * channels

	if d.intBuf == nil || cap(d.intBuf.Data) < size {
		d.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, size),
			Format: d.dec.Format(),
		}
	}
	d.intBuf.Data = d.intBuf.Data[:size]

	n, err := d.dec.PCMBuffer(d.intBuf)
	n -= n % channels
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w", err)
		}
		return 0, io.EOF
	}

	return n / channels, nil
}

func (d *demuxer) ReadPacket(pkt *audio.Packet) error {
	if d.stream == nil {
		return ErrNotAiffFile
	}

	frames, err := d.read(packetFrames)
	if err != nil {
		return err
	}

	channels := d.info.channels
	plane := frames * d.width
	buf := pkt.Grow(plane * channels)
	for i := range frames {
		for ch := range channels {
			v := d.intBuf.Data[i*channels+ch] << d.shift
			off := ch*plane + i*d.width
			if d.width == 2 {
				binary.LittleEndian.PutUint16(buf[off:], uint16(int16(v)))
			} else {
				binary.LittleEndian.PutUint32(buf[off:], uint32(int32(v)))
			}
		}
	}

	pkt.StreamIndex = 0
	pkt.PTS = d.pos
	pkt.Duration = int64(frames)
	pkt.Flags = audio.FlagKey
	d.pos += int64(frames)

	return nil
}

// Seek restarts the decoder and skips ts frames.
func (d *demuxer) Seek(_ int, ts int64, _ audio.SeekFlag) error {
	if d.stream == nil {
		return ErrNotAiffFile
	}

	dec, _, err := d.reopen(d.rs)
	if err != nil {
		return err
	}
	d.dec = dec
	d.pos = 0

	ts = max(0, ts)
	for d.pos < ts {
		frames, err := d.read(int(min(ts-d.pos, packetFrames)))
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		d.pos += int64(frames)
	}

	return nil
}

func (d *demuxer) Close() error {
	d.dec = nil
	d.stream = nil
	d.intBuf = nil
	return nil
}
