// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Codec IDs of the PCM decoders registered by NewRegistry.
const (
	CodecPCMU8    = "pcm_u8"
	CodecPCMS16LE = "pcm_s16le"
	CodecPCMS16BE = "pcm_s16be"
	CodecPCMS24LE = "pcm_s24le"
	CodecPCMS24BE = "pcm_s24be"
	CodecPCMS32LE = "pcm_s32le"
	CodecPCMS32BE = "pcm_s32be"
	CodecPCMF32LE = "pcm_f32le"
	CodecPCMF64LE = "pcm_f64le"

	// Planar native-endian layouts produced by demuxers that decode internally.
	CodecPCMS16P = "pcm_s16p"
	CodecPCMS32P = "pcm_s32p"
	CodecPCMFLTP = "pcm_fltp"
	CodecPCMDBLP = "pcm_dblp"
)

type pcmCodec struct {
	id     string
	width  int // bytes per input sample
	out    RawFormat
	planar bool
	// swap converts one input sample into out's little-endian layout.
	swap func(dst, src []byte)
}

var pcmCodecs = []pcmCodec{
	{id: CodecPCMU8, width: 1, out: U8},
	{id: CodecPCMS16LE, width: 2, out: S16},
	{id: CodecPCMS16BE, width: 2, out: S16, swap: func(dst, src []byte) {
		binary.LittleEndian.PutUint16(dst, binary.BigEndian.Uint16(src))
	}},
	{id: CodecPCMS24LE, width: 3, out: S32, swap: func(dst, src []byte) {
		binary.LittleEndian.PutUint32(dst, uint32(src[0])<<8|uint32(src[1])<<16|uint32(src[2])<<24)
	}},
	{id: CodecPCMS24BE, width: 3, out: S32, swap: func(dst, src []byte) {
		binary.LittleEndian.PutUint32(dst, uint32(src[2])<<8|uint32(src[1])<<16|uint32(src[0])<<24)
	}},
	{id: CodecPCMS32LE, width: 4, out: S32},
	{id: CodecPCMS32BE, width: 4, out: S32, swap: func(dst, src []byte) {
		binary.LittleEndian.PutUint32(dst, binary.BigEndian.Uint32(src))
	}},
	{id: CodecPCMF32LE, width: 4, out: FLT},
	{id: CodecPCMF64LE, width: 8, out: DBL},
	{id: CodecPCMS16P, width: 2, out: S16P, planar: true},
	{id: CodecPCMS32P, width: 4, out: S32P, planar: true},
	{id: CodecPCMFLTP, width: 4, out: FLTP, planar: true},
	{id: CodecPCMDBLP, width: 8, out: DBLP, planar: true},
}

// PCMCodecFor returns the codec ID whose frames use raw format f with
// native little-endian samples.
func PCMCodecFor(f RawFormat) (string, bool) {
	for _, c := range pcmCodecs {
		if c.out == f && c.swap == nil {
			return c.id, true
		}
	}
	return "", false
}

func registerPCMCodecs(r *Registry) {
	for _, c := range pcmCodecs {
		r.RegisterCodec(c.id, func() Decoder { return &pcmDecoder{codec: c} })
	}
}

// pcmDecoder holds at most one packet; every packet becomes one frame.
type pcmDecoder struct {
	codec    pcmCodec
	channels int
	rate     int
	open     bool

	pending    []byte
	pendingPTS int64
	hasPending bool
	draining   bool
}

func (d *pcmDecoder) Name() string { return d.codec.id }

func (d *pcmDecoder) Open(s *Stream) error {
	if s.Params.Channels < 1 || s.Params.SampleRate <= 0 {
		return fmt.Errorf("%w: %d channels at %d Hz", ErrInvalidFormat, s.Params.Channels, s.Params.SampleRate)
	}

	d.channels = s.Params.Channels
	d.rate = s.Params.SampleRate
	d.open = true

	return nil
}

func (d *pcmDecoder) SendPacket(pkt *Packet) error {
	if !d.open {
		return ErrDecoderNotOpen
	}
	if d.draining {
		return io.EOF
	}
	if pkt == nil {
		d.draining = true
		return nil
	}
	if d.hasPending {
		return ErrAgain
	}

	block := d.codec.width * d.channels
	if len(pkt.Data)%block != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidData, len(pkt.Data), block)
	}
	if len(pkt.Data) == 0 {
		return nil
	}

	d.pending = append(d.pending[:0], pkt.Data...)
	d.pendingPTS = pkt.PTS
	d.hasPending = true

	return nil
}

func (d *pcmDecoder) ReceiveFrame(f *Frame) error {
	if !d.open {
		return ErrDecoderNotOpen
	}
	if !d.hasPending {
		if d.draining {
			return io.EOF
		}
		return ErrAgain
	}

	n := len(d.pending) / (d.codec.width * d.channels)
	f.Alloc(d.codec.out, d.channels, n)
	f.SampleRate = d.rate
	f.PTS = d.pendingPTS

	switch {
	case d.codec.planar:
		size := n * d.codec.width
		for ch := range d.channels {
			copy(f.Data[ch], d.pending[ch*size:(ch+1)*size])
		}
	case d.codec.swap == nil:
		copy(f.Data[0], d.pending)
	default:
		outWidth := d.codec.out.BytesPerSample()
		for i := range n * d.channels {
			d.codec.swap(f.Data[0][i*outWidth:], d.pending[i*d.codec.width:])
		}
	}

	d.hasPending = false

	return nil
}

func (d *pcmDecoder) Flush() {
	d.hasPending = false
	d.draining = false
}

func (d *pcmDecoder) Close() error {
	d.Flush()
	d.open = false
	d.pending = nil

	return nil
}

// PCMOutputFormat returns the frame layout produced by the PCM decoder
// registered as codecID.
func PCMOutputFormat(codecID string) (RawFormat, bool) {
	for _, c := range pcmCodecs {
		if c.id == codecID {
			return c.out, true
		}
	}
	return RawNone, false
}
