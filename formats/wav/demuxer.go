// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/riff"
	"github.com/go-audio/wav"
	"github.com/ik5/avkit/audio"
)

const (
	formatPCM        = 1
	formatIEEEFloat  = 3
	formatExtensible = 0xFFFE

	// frames per packet
	packetFrames = 4096
)

type demuxer struct {
	rs   io.ReadSeeker
	dec  *wav.Decoder
	tags *audio.Tags

	stream     *audio.Stream
	dataStart  int64
	dataSize   int64
	blockAlign int64
	pos        int64 // frames
}

// codecID maps the fmt chunk to a PCM decoder.
func codecID(audioFormat, bitDepth int) (string, error) {
	switch audioFormat {
	case formatPCM, formatExtensible:
		switch bitDepth {
		case 8:
			return audio.CodecPCMU8, nil
		case 16:
			return audio.CodecPCMS16LE, nil
		case 24:
			return audio.CodecPCMS24LE, nil
		case 32:
			return audio.CodecPCMS32LE, nil
		}
	case formatIEEEFloat:
		switch bitDepth {
		case 32:
			return audio.CodecPCMF32LE, nil
		case 64:
			return audio.CodecPCMF64LE, nil
		}
	default:
		return fmt.Sprintf("wav_0x%04x", audioFormat), nil
	}

	return "", fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
}

func (d *demuxer) FindStreamInfo() error {
	if d.stream != nil {
		return nil
	}

	dec := wav.NewDecoder(d.rs)
	if err := dec.FwdToPCM(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}
	if err := dec.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}
	if dec.PCMChunk == nil || dec.NumChans == 0 {
		return ErrNotWavFile
	}

	channels := int(dec.NumChans)
	bits := int(dec.BitDepth)
	rate := int(dec.SampleRate)

	id, err := codecID(int(dec.WavAudioFormat), bits)
	if err != nil {
		return err
	}

	d.blockAlign = int64(channels * ((bits + 7) / 8))
	if d.blockAlign == 0 || rate == 0 {
		return ErrUnsupportedWavLayout
	}

	d.dataStart, err = d.rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	d.dataSize = int64(dec.PCMSize)
	d.dec = dec

	// A LIST chunk after the data is common; pick it up and come back.
	d.readTrailingChunks()
	d.tags = tagsFromMetadata(dec.Metadata)

	if _, err := d.rs.Seek(d.dataStart, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}

	format, _ := audio.PCMOutputFormat(id)
	d.stream = &audio.Stream{
		Index:     0,
		MediaType: audio.MediaAudio,
		CodecID:   id,
		CodecName: id,
		Params: audio.CodecParameters{
			SampleRate:       rate,
			Channels:         channels,
			Format:           format,
			BitsPerRawSample: bits,
			BitRate:          int64(rate) * d.blockAlign * 8,
		},
		TimeBase: audio.Rational{Num: 1, Den: int64(rate)},
		Duration: d.dataSize / d.blockAlign,
	}

	return nil
}

func (d *demuxer) readTrailingChunks() {
	end := d.dataStart + d.dataSize + d.dataSize%2
	if _, err := d.rs.Seek(end, io.SeekStart); err != nil {
		return
	}

	p := riff.New(d.rs)
	for {
		ch, err := p.NextChunk()
		if err != nil {
			return
		}
		if ch.ID == wav.CIDList {
			if err := wav.DecodeListChunk(d.dec, ch); err != nil {
				return
			}
			continue
		}
		ch.Drain()
	}
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

func (d *demuxer) ReadPacket(pkt *audio.Packet) error {
	if d.stream == nil {
		return ErrNotWavFile
	}

	remaining := d.dataSize - d.pos*d.blockAlign
	size := min(packetFrames*d.blockAlign, remaining)
	size -= size % d.blockAlign
	if size <= 0 {
		return io.EOF
	}

	buf := pkt.Grow(int(size))
	n, err := io.ReadFull(d.rs, buf)
	if err != nil {
		if !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w", err)
		}
		// Truncated data chunk: keep whole frames only.
		n -= n % int(d.blockAlign)
		if n == 0 {
			return io.EOF
		}
		pkt.Data = buf[:n]
		d.dataSize = d.pos*d.blockAlign + int64(n)
	}

	frames := int64(n) / d.blockAlign
	pkt.StreamIndex = 0
	pkt.PTS = d.pos
	pkt.Duration = frames
	pkt.Flags = audio.FlagKey
	d.pos += frames

	return nil
}

// Seek is sample accurate; every PCM frame is a key frame.
func (d *demuxer) Seek(_ int, ts int64, _ audio.SeekFlag) error {
	if d.stream == nil {
		return ErrNotWavFile
	}

	ts = max(0, min(ts, d.dataSize/d.blockAlign))
	if _, err := d.rs.Seek(d.dataStart+ts*d.blockAlign, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}
	d.pos = ts

	return nil
}

func (d *demuxer) Close() error {
	d.dec = nil
	d.stream = nil
	return nil
}
