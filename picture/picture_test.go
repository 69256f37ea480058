// SPDX-License-Identifier: EPL-2.0

package picture_test

import (
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/ik5/avkit/internal/audiotest"
	"github.com/ik5/avkit/picture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMIMEType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, picture.MIMEPNG, picture.DetectMIMEType(audiotest.PNG(2, 2)))
	assert.Equal(t, picture.MIMEJPEG, picture.DetectMIMEType(audiotest.JPEG(2, 2)))
	assert.Equal(t, picture.MIMEJPEG, picture.DetectMIMEType([]byte{0x89}))
	assert.Equal(t, picture.MIMEJPEG, picture.DetectMIMEType(nil))
	assert.Equal(t, picture.CodecPNG, picture.CodecID(audiotest.PNG(2, 2)))
	assert.Equal(t, picture.CodecMJPEG, picture.CodecID([]byte("GIF89a")))
}

func TestExtractDimensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		data  []byte
		wantW uint32
		wantH uint32
	}{
		{"png 10x10", audiotest.PNG(10, 10), 10, 10},
		{"png 640x480", audiotest.PNG(640, 480), 640, 480},
		{"jpeg 10x10", audiotest.JPEG(10, 10), 10, 10},
		{"jpeg 300x200", audiotest.JPEG(300, 200), 300, 200},
		{"short", []byte{0xFF, 0xD8, 0xFF, 0xC0}, 1, 1},
		{"garbage", []byte("this is definitely not an image file"), 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, h := picture.ExtractDimensions(tt.data)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestExtractDimensions_PNGZeroSize(t *testing.T) {
	t.Parallel()

	data := audiotest.PNG(4, 4)
	binary.BigEndian.PutUint32(data[16:], 0)

	w, h := picture.ExtractDimensions(data)
	assert.Equal(t, uint32(1), w)
	assert.Equal(t, uint32(1), h)
}

func TestExtractDimensions_JPEGSkipsNonFrameMarkers(t *testing.T) {
	t.Parallel()

	data := []byte{
		0xFF, 0xD8, // SOI
		0xFF, 0xE0, 0x00, 0x04, 0x00, 0x00, // APP0
		0xFF, 0xC4, 0x00, 0x04, 0x00, 0x00, // DHT, same range as SOF
		0xFF, 0xC2, 0x00, 0x0B, 0x08, 0x01, 0x2C, 0x02, 0x58, 0x03, 0x01, 0x22, 0x00, // SOF2 600x300
	}

	w, h := picture.ExtractDimensions(data)
	assert.Equal(t, uint32(600), w)
	assert.Equal(t, uint32(300), h)
}

func TestNewBlock(t *testing.T) {
	t.Parallel()

	_, ok := picture.NewBlock(nil)
	assert.False(t, ok)

	png := audiotest.PNG(8, 6)
	b, ok := picture.NewBlock(png)
	require.True(t, ok)
	assert.Equal(t, picture.FrontCover, b.Type)
	assert.Equal(t, picture.MIMEPNG, b.MIMEType)
	assert.Equal(t, uint32(32), b.Depth)
	assert.Equal(t, uint32(8), b.Width)
	assert.Equal(t, uint32(6), b.Height)
	assert.Empty(t, b.Description)
	assert.Zero(t, b.IndexedColors)

	b, ok = picture.NewBlock(audiotest.JPEG(8, 6))
	require.True(t, ok)
	assert.Equal(t, picture.MIMEJPEG, b.MIMEType)
	assert.Equal(t, uint32(24), b.Depth)
}

func TestMarshalBinary_Layout(t *testing.T) {
	t.Parallel()

	b := &picture.Block{
		Type:     3,
		MIMEType: "image/jpeg",
		Width:    1,
		Height:   2,
		Depth:    24,
		Data:     []byte{0xAA, 0xBB},
	}

	raw, err := b.MarshalBinary()
	require.NoError(t, err)

	want := []byte{
		0, 0, 0, 3,
		0, 0, 0, 10,
		'i', 'm', 'a', 'g', 'e', '/', 'j', 'p', 'e', 'g',
		0, 0, 0, 0,
		0, 0, 0, 1,
		0, 0, 0, 2,
		0, 0, 0, 24,
		0, 0, 0, 0,
		0, 0, 0, 2,
		0xAA, 0xBB,
	}
	assert.Equal(t, want, raw)
	assert.Equal(t, len(want), b.Size())
}

func TestEncodeBase64(t *testing.T) {
	t.Parallel()

	_, ok := picture.EncodeBase64(nil)
	assert.False(t, ok)
	_, ok = picture.EncodeBase64([]byte{})
	assert.False(t, ok)

	img := audiotest.JPEG(16, 9)
	s, ok := picture.EncodeBase64(img)
	require.True(t, ok)

	raw, err := base64.StdEncoding.DecodeString(s)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), binary.BigEndian.Uint32(raw[0:4]))

	// data length sits right before the image bytes
	dataLen := binary.BigEndian.Uint32(raw[len(raw)-len(img)-4:])
	assert.Equal(t, uint32(len(img)), dataLen)

	b, err := picture.ParseBase64(s)
	require.NoError(t, err)
	assert.Equal(t, uint32(16), b.Width)
	assert.Equal(t, uint32(9), b.Height)
	assert.Equal(t, img, b.Data)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	_, err := picture.Parse(make([]byte, 10))
	assert.ErrorIs(t, err, picture.ErrShortBlock)

	b := &picture.Block{Type: 3, MIMEType: "image/png", Data: []byte{1, 2, 3}}
	raw, _ := b.MarshalBinary()
	_, err = picture.Parse(raw[:len(raw)-1])
	assert.ErrorIs(t, err, picture.ErrFieldOverflow)

	_, err = picture.ParseBase64("***")
	assert.ErrorIs(t, err, picture.ErrInvalidEncoding)
}
