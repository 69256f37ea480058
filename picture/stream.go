// SPDX-License-Identifier: EPL-2.0

package picture

import "github.com/ik5/avkit/audio"

// NewStream describes data as the attached picture stream of a demuxer.
func NewStream(index int, data []byte) *audio.Stream {
	w, h := ExtractDimensions(data)
	codec := CodecID(data)

	return &audio.Stream{
		Index:     index,
		MediaType: audio.MediaVideo,
		CodecID:   codec,
		CodecName: codec,
		Params: audio.CodecParameters{
			Width:  int(w),
			Height: int(h),
		},
		TimeBase:    audio.Rational{Num: 1, Den: 90000},
		Duration:    -1,
		Disposition: audio.DispositionAttachedPic,
	}
}

// Packet fills pkt with data as the single packet of stream index.
func Packet(pkt *audio.Packet, index int, data []byte) {
	pkt.StreamIndex = index
	pkt.Data = append(pkt.Data[:0], data...)
	pkt.PTS = 0
	pkt.Duration = 0
	pkt.Flags = audio.FlagKey
}
