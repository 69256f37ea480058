// SPDX-License-Identifier: EPL-2.0

package audio

import "time"

// MediaType is the kind of elementary stream.
type MediaType int

const (
	MediaUnknown MediaType = iota
	MediaAudio
	MediaVideo
	MediaAttachment
)

func (m MediaType) String() string {
	switch m {
	case MediaAudio:
		return "audio"
	case MediaVideo:
		return "video"
	case MediaAttachment:
		return "attachment"
	default:
		return "unknown"
	}
}

// Disposition flags of a stream.
type Disposition int

const (
	DispositionDefault Disposition = 1 << iota
	// DispositionAttachedPic marks a video stream holding a single cover image.
	DispositionAttachedPic
)

// Rational is a fraction used for timebases.
type Rational struct {
	Num int64
	Den int64
}

// Float returns the value of the fraction, 0 when Den is zero.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Duration converts ts (in r units) to a time.Duration.
func (r Rational) Duration(ts int64) time.Duration {
	return time.Duration(float64(ts) * r.Float() * float64(time.Second))
}

// Timestamp converts d to r units, rounding down.
func (r Rational) Timestamp(d time.Duration) int64 {
	if r.Num == 0 {
		return 0
	}
	return int64(d.Seconds() * float64(r.Den) / float64(r.Num))
}

// CodecParameters describes the encoded content of a stream.
type CodecParameters struct {
	SampleRate       int
	Channels         int
	Format           RawFormat
	BitsPerRawSample int
	BitRate          int64

	Width  int
	Height int
}

// Stream describes one elementary stream of a container.
type Stream struct {
	Index     int
	MediaType MediaType
	// CodecID selects the decoder in a Registry.
	CodecID string
	// CodecName is the human readable name of the compressed format.
	CodecName   string
	Params      CodecParameters
	TimeBase    Rational
	Duration    int64 // in TimeBase units, -1 if unknown
	Disposition Disposition
}

// DurationTime converts the stream duration using its timebase. It returns 0
// when the duration is unknown.
func (s *Stream) DurationTime() time.Duration {
	if s.Duration <= 0 || s.TimeBase.Den == 0 {
		return 0
	}
	return s.TimeBase.Duration(s.Duration)
}
