// SPDX-License-Identifier: EPL-2.0

package picture

import "encoding/binary"

const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"

	// Codec IDs used for attached picture streams.
	CodecPNG   = "png"
	CodecMJPEG = "mjpeg"
)

// IsPNG reports whether data starts like a PNG signature.
func IsPNG(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x89 && data[1] == 0x50
}

// DetectMIMEType returns MIMEPNG for PNG data and MIMEJPEG for anything else.
func DetectMIMEType(data []byte) string {
	if IsPNG(data) {
		return MIMEPNG
	}
	return MIMEJPEG
}

// CodecID returns the attached picture codec for data.
func CodecID(data []byte) string {
	if IsPNG(data) {
		return CodecPNG
	}
	return CodecMJPEG
}

// ExtractDimensions reads width and height from a PNG IHDR chunk or a JPEG
// start-of-frame segment. It returns (1, 1) when the size cannot be found.
func ExtractDimensions(data []byte) (width, height uint32) {
	if len(data) < 24 {
		return 1, 1
	}

	if IsPNG(data) {
		width = binary.BigEndian.Uint32(data[16:20])
		height = binary.BigEndian.Uint32(data[20:24])
		if width == 0 || height == 0 {
			return 1, 1
		}
		return width, height
	}

	if w, h, ok := jpegDimensions(data); ok {
		return w, h
	}

	return 1, 1
}

// isSOF reports whether marker starts a frame. C4 (DHT), C8 (JPG) and
// CC (DAC) share the range but carry no dimensions.
func isSOF(marker byte) bool {
	return marker >= 0xC0 && marker <= 0xCF &&
		marker != 0xC4 && marker != 0xC8 && marker != 0xCC
}

func jpegDimensions(data []byte) (uint32, uint32, bool) {
	// skip SOI
	offset := 2
	for offset+4 <= len(data) {
		if data[offset] != 0xFF {
			return 0, 0, false
		}

		marker := data[offset+1]
		if isSOF(marker) {
			if offset+9 > len(data) {
				return 0, 0, false
			}
			h := binary.BigEndian.Uint16(data[offset+5:])
			w := binary.BigEndian.Uint16(data[offset+7:])
			if w == 0 || h == 0 {
				return 0, 0, false
			}
			return uint32(w), uint32(h), true
		}

		length := int(binary.BigEndian.Uint16(data[offset+2:]))
		if length == 0 {
			return 0, 0, false
		}
		offset += 2 + length
	}

	return 0, 0, false
}
