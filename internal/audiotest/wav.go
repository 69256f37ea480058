// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// WAVOptions describes a generated WAV file.
type WAVOptions struct {
	Bits  int  // 8, 16, 24, 32 or 64 (float only)
	Float bool // IEEE float samples
	// Info is written as a LIST/INFO chunk after the data chunk, keyed by
	// four character INFO IDs such as "INAM".
	Info [][2]string
	// Truncate drops that many bytes from the end of the data chunk without
	// fixing its size field.
	Truncate int
}

// WAV renders src as a RIFF/WAVE file.
func WAV(src *MockSource, opts WAVOptions) []byte {
	samples := src.ReadAll()
	width := opts.Bits / 8

	data := new(bytes.Buffer)
	for _, s := range samples {
		putSample(data, s, opts.Bits, opts.Float)
	}
	dataSize := data.Len()
	payload := data.Bytes()[:dataSize-opts.Truncate]

	audioFormat := uint16(1)
	if opts.Float {
		audioFormat = 3
	}

	body := new(bytes.Buffer)
	body.WriteString("WAVE")

	body.WriteString("fmt ")
	le(body, uint32(16))
	le(body, audioFormat)
	le(body, uint16(src.Channels()))
	le(body, uint32(src.SampleRate()))
	le(body, uint32(src.SampleRate()*src.Channels()*width))
	le(body, uint16(src.Channels()*width))
	le(body, uint16(opts.Bits))

	body.WriteString("data")
	le(body, uint32(dataSize))
	body.Write(payload)
	if len(payload)%2 == 1 {
		body.WriteByte(0)
	}

	if len(opts.Info) > 0 {
		info := new(bytes.Buffer)
		info.WriteString("INFO")
		for _, kv := range opts.Info {
			v := append([]byte(kv[1]), 0)
			info.WriteString(kv[0])
			le(info, uint32(len(v)))
			info.Write(v)
			if len(v)%2 == 1 {
				info.WriteByte(0)
			}
		}
		body.WriteString("LIST")
		le(body, uint32(info.Len()))
		body.Write(info.Bytes())
	}

	out := new(bytes.Buffer)
	out.WriteString("RIFF")
	le(out, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

func putSample(w *bytes.Buffer, s float32, bits int, float bool) {
	x := math.Max(-1, math.Min(1, float64(s)))
	switch {
	case float && bits == 64:
		le(w, x)
	case float:
		le(w, float32(x))
	case bits == 8:
		w.WriteByte(byte(int(math.Round(x*127)) + 128))
	case bits == 16:
		le(w, int16(math.Round(x*math.MaxInt16)))
	case bits == 24:
		v := int32(math.Round(x * 8388607))
		w.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16)})
	default:
		le(w, int32(math.Round(x*math.MaxInt32)))
	}
}

func le(w *bytes.Buffer, v any) {
	_ = binary.Write(w, binary.LittleEndian, v)
}
