// SPDX-License-Identifier: EPL-2.0

package picture

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// FrontCover is the picture type of a front cover.
const FrontCover uint32 = 3

// minBlockSize covers the eight fixed uint32 fields.
const minBlockSize = 32

// Block is a FLAC PICTURE block.
type Block struct {
	Type          uint32
	MIMEType      string
	Description   string
	Width         uint32
	Height        uint32
	Depth         uint32
	IndexedColors uint32
	Data          []byte
}

// NewBlock describes data as a front cover. It returns false for empty data.
func NewBlock(data []byte) (*Block, bool) {
	if len(data) == 0 {
		return nil, false
	}

	mime := DetectMIMEType(data)
	w, h := ExtractDimensions(data)

	depth := uint32(24)
	if mime == MIMEPNG {
		depth = 32
	}

	return &Block{
		Type:     FrontCover,
		MIMEType: mime,
		Width:    w,
		Height:   h,
		Depth:    depth,
		Data:     data,
	}, true
}

// Size is the encoded length of b.
func (b *Block) Size() int {
	return minBlockSize + len(b.MIMEType) + len(b.Description) + len(b.Data)
}

// MarshalBinary encodes b in the big-endian PICTURE layout.
func (b *Block) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, b.Size())

	buf = binary.BigEndian.AppendUint32(buf, b.Type)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(b.MIMEType)))
	buf = append(buf, b.MIMEType...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(b.Description)))
	buf = append(buf, b.Description...)
	buf = binary.BigEndian.AppendUint32(buf, b.Width)
	buf = binary.BigEndian.AppendUint32(buf, b.Height)
	buf = binary.BigEndian.AppendUint32(buf, b.Depth)
	buf = binary.BigEndian.AppendUint32(buf, b.IndexedColors)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(b.Data)))
	buf = append(buf, b.Data...)

	return buf, nil
}

// Base64 returns the standard base64 encoding of the marshalled block.
func (b *Block) Base64() string {
	raw, _ := b.MarshalBinary()
	return base64.StdEncoding.EncodeToString(raw)
}

// EncodeBase64 builds a front cover block for data and returns it base64
// encoded, ready for a METADATA_BLOCK_PICTURE comment. ok is false when
// data is empty.
func EncodeBase64(data []byte) (string, bool) {
	b, ok := NewBlock(data)
	if !ok {
		return "", false
	}
	return b.Base64(), true
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) uint32() (uint32, error) {
	if r.off+4 > len(r.data) {
		return 0, fmt.Errorf("%w: at offset %d", ErrShortBlock, r.off)
	}
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) bytes() ([]byte, error) {
	n, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if uint64(r.off)+uint64(n) > uint64(len(r.data)) {
		return nil, fmt.Errorf("%w: %d bytes at offset %d", ErrFieldOverflow, n, r.off)
	}
	v := r.data[r.off : r.off+int(n)]
	r.off += int(n)
	return v, nil
}

// Parse decodes a PICTURE block. Data aliases raw.
func Parse(raw []byte) (*Block, error) {
	if len(raw) < minBlockSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortBlock, len(raw))
	}

	r := &reader{data: raw}
	b := &Block{}

	var err error
	if b.Type, err = r.uint32(); err != nil {
		return nil, err
	}

	mime, err := r.bytes()
	if err != nil {
		return nil, err
	}
	b.MIMEType = string(mime)

	desc, err := r.bytes()
	if err != nil {
		return nil, err
	}
	b.Description = string(desc)

	for _, dst := range []*uint32{&b.Width, &b.Height, &b.Depth, &b.IndexedColors} {
		if *dst, err = r.uint32(); err != nil {
			return nil, err
		}
	}

	if b.Data, err = r.bytes(); err != nil {
		return nil, err
	}

	return b, nil
}

// ParseBase64 decodes a METADATA_BLOCK_PICTURE value.
func ParseBase64(s string) (*Block, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	return Parse(raw)
}
