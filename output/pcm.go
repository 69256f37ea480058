// SPDX-License-Identifier: EPL-2.0

package output

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/utils"
)

// PCMCodecForBits returns the interleaved little-endian codec ID used for
// audio packets of the given depth.
func PCMCodecForBits(bits int, float bool) (string, error) {
	switch {
	case float && bits == 32:
		return audio.CodecPCMF32LE, nil
	case float:
		return "", fmt.Errorf("%w: %d-bit float", ErrUnsupportedCodec, bits)
	case bits == 16:
		return audio.CodecPCMS16LE, nil
	case bits == 24:
		return audio.CodecPCMS24LE, nil
	case bits == 32:
		return audio.CodecPCMS32LE, nil
	default:
		return "", fmt.Errorf("%w: %d-bit", ErrUnsupportedCodec, bits)
	}
}

func pcmWidth(codecID string) (int, bool, error) {
	switch codecID {
	case audio.CodecPCMS16LE:
		return 2, false, nil
	case audio.CodecPCMS24LE:
		return 3, false, nil
	case audio.CodecPCMS32LE:
		return 4, false, nil
	case audio.CodecPCMF32LE:
		return 4, true, nil
	default:
		return 0, false, fmt.Errorf("%w: %s", ErrUnsupportedCodec, codecID)
	}
}

// EncodePCM serializes buf interleaved as codecID into dst.
func EncodePCM(dst []byte, buf audio.PCMBuffer, codecID string) ([]byte, error) {
	width, float, err := pcmWidth(codecID)
	if err != nil {
		return nil, err
	}

	size := buf.Frames * len(buf.Data) * width
	if cap(dst) < size {
		dst = make([]byte, size)
	}
	dst = dst[:size]

	off := 0
	for i := range buf.Frames {
		for _, plane := range buf.Data {
			b := dst[off : off+width]
			switch {
			case float:
				binary.LittleEndian.PutUint32(b, math.Float32bits(plane[i]))
			case width == 2:
				binary.LittleEndian.PutUint16(b, uint16(int16(utils.Float32ToInt(plane[i], 16))))
			case width == 3:
				v := utils.Float32ToInt(plane[i], 24)
				b[0], b[1], b[2] = byte(v), byte(v>>8), byte(v>>16)
			default:
				binary.LittleEndian.PutUint32(b, uint32(int32(utils.Float32ToInt(plane[i], 32))))
			}
			off += width
		}
	}

	return dst, nil
}

// DecodePCM returns the interleaved integer samples of a codecID payload.
// Float samples are returned as their IEEE-754 bit pattern, which is what
// integer based encoders expect for 32-bit float output.
func DecodePCM(dst []int, data []byte, codecID string) ([]int, error) {
	width, float, err := pcmWidth(codecID)
	if err != nil {
		return nil, err
	}
	if len(data)%width != 0 {
		return nil, fmt.Errorf("%w: %d bytes", audio.ErrInvalidData, len(data))
	}

	dst = dst[:0]
	for off := 0; off < len(data); off += width {
		b := data[off : off+width]
		switch {
		case float:
			dst = append(dst, int(binary.LittleEndian.Uint32(b)))
		case width == 2:
			dst = append(dst, int(int16(binary.LittleEndian.Uint16(b))))
		case width == 3:
			dst = append(dst, int(int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24)>>8))
		default:
			dst = append(dst, int(int32(binary.LittleEndian.Uint32(b))))
		}
	}

	return dst, nil
}
