// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/output"
	"github.com/ik5/avkit/picture"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
	"github.com/sirupsen/logrus"
)

// BlockSize is the number of samples per channel in every encoded frame but
// the last.
const BlockSize = 4096

// Vendor is written into the Vorbis comment block.
const Vendor = "avkit"

// Muxer writes the first audio stream of a context as verbatim FLAC. Tags go
// into a VORBIS_COMMENT block and cover art into a PICTURE block.
//
// The metadata blocks precede the audio, so the encoder starts with the
// first audio packet. The cover art packet has to arrive before that.
type Muxer struct {
	w       io.WriteSeeker
	enc     *flac.Encoder
	stream  *audio.Stream
	cover   int // attached picture stream, -1 if none
	comment *meta.VorbisComment
	picture *picture.Block
	logger  logrus.FieldLogger

	samples []int
	pending [][]int32 // per channel, less than BlockSize each after a write
	num     uint64
}

// NewMuxer returns a muxer writing to w. The muxer never closes w, even
// when it is an io.Closer; that stays with the caller.
func NewMuxer(w io.WriteSeeker) output.Muxer {
	return &Muxer{w: struct{ io.WriteSeeker }{w}, cover: -1}
}

func (m *Muxer) WriteHeader(c *output.Context) error {
	for _, s := range c.Streams() {
		switch {
		case s.MediaType == audio.MediaAudio && m.stream == nil:
			m.stream = s
		case s.Disposition&audio.DispositionAttachedPic != 0 && m.cover < 0:
			m.cover = s.Index
		}
	}
	if m.stream == nil {
		return output.ErrNoStreams
	}

	p := m.stream.Params
	if m.stream.CodecID == audio.CodecPCMF32LE {
		return fmt.Errorf("%w: flac stores integer samples only", output.ErrUnsupportedCodec)
	}
	if p.BitsPerRawSample != 16 && p.BitsPerRawSample != 24 {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, p.BitsPerRawSample)
	}
	if p.Channels < 1 || p.Channels > 8 {
		return fmt.Errorf("%w: %d", ErrUnsupportedChannels, p.Channels)
	}

	m.logger = c.Logger()
	m.comment = &meta.VorbisComment{Vendor: Vendor}
	c.Tags.Each(func(key, value string) {
		if key != audio.TagPicture {
			m.comment.Tags = append(m.comment.Tags, [2]string{key, value})
			return
		}

		b, err := picture.ParseBase64(value)
		if err != nil {
			m.logger.WithFields(logrus.Fields{
				"function": "WriteHeader",
				"error":    err,
			}).Debug("Skipping invalid picture comment")
			return
		}
		m.picture = b
	})
	m.pending = make([][]int32, p.Channels)

	return nil
}

func (m *Muxer) WritePacket(_ *output.Context, pkt *audio.Packet) error {
	switch pkt.StreamIndex {
	case m.stream.Index:
	case m.cover:
		m.setCover(pkt.Data)
		return nil
	default:
		return nil
	}

	if err := m.start(); err != nil {
		return err
	}

	var err error
	m.samples, err = output.DecodePCM(m.samples, pkt.Data, m.stream.CodecID)
	if err != nil {
		return err
	}

	channels := len(m.pending)
	for i, s := range m.samples {
		m.pending[i%channels] = append(m.pending[i%channels], int32(s))
	}

	for len(m.pending[0]) >= BlockSize {
		if err := m.writeFrame(BlockSize); err != nil {
			return err
		}
	}

	return nil
}

func (m *Muxer) setCover(data []byte) {
	if m.enc != nil {
		m.logger.WithFields(logrus.Fields{
			"function": "WritePacket",
			"size":     len(data),
		}).Debug("Dropping cover art written after audio")
		return
	}

	b, ok := picture.NewBlock(append([]byte(nil), data...))
	if ok {
		m.picture = b
	}
}

// start writes the signature and the metadata blocks.
func (m *Muxer) start() error {
	if m.enc != nil {
		return nil
	}

	p := m.stream.Params
	info := &meta.StreamInfo{
		BlockSizeMin:  BlockSize,
		BlockSizeMax:  BlockSize,
		SampleRate:    uint32(p.SampleRate),
		NChannels:     uint8(p.Channels),
		BitsPerSample: uint8(p.BitsPerRawSample),
	}

	blocks := []*meta.Block{commentBlock(m.comment)}
	if m.picture != nil {
		blocks = append(blocks, pictureBlock(m.picture))
	}
	blocks[len(blocks)-1].IsLast = true

	enc, err := flac.NewEncoder(m.w, info, blocks...)
	if err != nil {
		return fmt.Errorf("creating flac encoder: %w", err)
	}
	m.enc = enc

	return nil
}

func commentBlock(c *meta.VorbisComment) *meta.Block {
	length := 8 + len(c.Vendor)
	for _, kv := range c.Tags {
		length += 4 + len(kv[0]) + 1 + len(kv[1])
	}

	return &meta.Block{
		Header: meta.Header{Type: meta.TypeVorbisComment, Length: int64(length)},
		Body:   c,
	}
}

func pictureBlock(b *picture.Block) *meta.Block {
	return &meta.Block{
		Header: meta.Header{Type: meta.TypePicture, Length: int64(b.Size())},
		Body: &meta.Picture{
			Type:       b.Type,
			MIME:       b.MIMEType,
			Desc:       b.Description,
			Width:      b.Width,
			Height:     b.Height,
			Depth:      b.Depth,
			NPalColors: b.IndexedColors,
			Data:       b.Data,
		},
	}
}

// writeFrame encodes the first n pending samples of every channel.
func (m *Muxer) writeFrame(n int) error {
	p := m.stream.Params
	f := &frame.Frame{
		Header: frame.Header{
			HasFixedBlockSize: true,
			BlockSize:         uint16(n),
			SampleRate:        uint32(p.SampleRate),
			// Independent channel layouts are numbered by count.
			Channels:      frame.Channels(p.Channels - 1),
			BitsPerSample: uint8(p.BitsPerRawSample),
			Num:           m.num,
		},
		Subframes: make([]*frame.Subframe, p.Channels),
	}
	for ch := range f.Subframes {
		f.Subframes[ch] = &frame.Subframe{
			SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
			Samples:   m.pending[ch][:n],
			NSamples:  n,
		}
	}

	if err := m.enc.WriteFrame(f); err != nil {
		return fmt.Errorf("writing flac frame %d: %w", m.num, err)
	}
	m.num++

	for ch := range m.pending {
		m.pending[ch] = append(m.pending[ch][:0], m.pending[ch][n:]...)
	}

	return nil
}

func (m *Muxer) WriteTrailer(*output.Context) error {
	if err := m.start(); err != nil {
		return err
	}
	if n := len(m.pending[0]); n > 0 {
		if err := m.writeFrame(n); err != nil {
			return err
		}
	}

	if err := m.enc.Close(); err != nil {
		return fmt.Errorf("closing flac encoder: %w", err)
	}
	return nil
}
