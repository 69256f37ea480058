// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"time"
)

// Source is a pull reader of interleaved float32 samples.
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// InputFormat recognises and opens one container format.
type InputFormat interface {
	// Name is the short name used as a format hint ("wav", "flac", ...).
	Name() string
	// Extensions lists file extensions without the dot.
	Extensions() []string
	// Probe scores how likely header starts a stream of this format, 0..100.
	Probe(header []byte) int
	// Open prepares a demuxer. Header parsing is deferred to FindStreamInfo.
	Open(r io.Reader) (Demuxer, error)
}

// SeekFlag modifies Demuxer.Seek.
type SeekFlag int

const (
	// SeekBackward snaps to the closest decodable point at or before the target.
	SeekBackward SeekFlag = 1 << iota
)

// Demuxer splits a container into packets.
type Demuxer interface {
	// FindStreamInfo parses the container headers and fills Streams.
	FindStreamInfo() error
	Streams() []*Stream
	// Duration of the whole container, 0 if unknown.
	Duration() time.Duration
	// BitRate of the whole container in bits/s, 0 if unknown.
	BitRate() int64
	Tags() *Tags
	// ReadPacket fills pkt with the next packet. It returns io.EOF at the end
	// of the stream and ErrAgain when no data is available yet.
	ReadPacket(pkt *Packet) error
	// Seek moves the read position of the stream to ts (stream timebase).
	Seek(streamIndex int, ts int64, flags SeekFlag) error
	Close() error
}

// Decoder turns packets into frames.
type Decoder interface {
	Name() string
	// Open prepares the decoder for the given stream.
	Open(s *Stream) error
	// SendPacket submits a packet. A nil packet starts draining.
	SendPacket(pkt *Packet) error
	// ReceiveFrame returns ErrAgain when more input is needed and io.EOF once
	// a drain has completed.
	ReceiveFrame(frame *Frame) error
	// Flush drops buffered packets and frames, e.g. after a seek.
	Flush()
	Close() error
}

// DecoderFactory creates a new decoder instance.
type DecoderFactory func() Decoder
