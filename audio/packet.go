// SPDX-License-Identifier: EPL-2.0

package audio

// PacketFlag marks properties of a packet.
type PacketFlag int

const (
	// FlagKey marks a packet that can be decoded without earlier packets.
	FlagKey PacketFlag = 1 << iota
	// FlagCorrupt marks a packet the demuxer could not fully read.
	FlagCorrupt
)

// Packet is one compressed (or container-level) unit of data for a single
// stream. Demuxers may reuse the capacity of Data between reads.
type Packet struct {
	StreamIndex int
	Data        []byte
	PTS         int64
	Duration    int64
	Flags       PacketFlag
}

// IsKey reports whether FlagKey is set.
func (p *Packet) IsKey() bool { return p.Flags&FlagKey != 0 }

// Unref drops the payload and resets the packet for the next read. The
// backing array is kept for reuse.
func (p *Packet) Unref() {
	p.StreamIndex = -1
	p.Data = p.Data[:0]
	p.PTS = 0
	p.Duration = 0
	p.Flags = 0
}

// Grow returns p.Data resized to n bytes, reallocating only when needed.
func (p *Packet) Grow(n int) []byte {
	if cap(p.Data) < n {
		p.Data = make([]byte, n)
	}
	p.Data = p.Data[:n]

	return p.Data
}

// Frame holds decoded samples. Planar formats keep one plane per channel in
// Data, interleaved formats keep everything in Data[0].
type Frame struct {
	Format     RawFormat
	SampleRate int
	Channels   int
	NumSamples int
	PTS        int64
	Data       [][]byte
}

// Alloc sizes the frame planes for n samples per channel, reusing existing
// capacity.
func (f *Frame) Alloc(format RawFormat, channels, n int) {
	f.Format = format
	f.Channels = channels
	f.NumSamples = n

	planes, size := 1, n*channels*format.BytesPerSample()
	if format.IsPlanar() {
		planes, size = channels, n*format.BytesPerSample()
	}

	if cap(f.Data) < planes {
		f.Data = make([][]byte, planes)
	}
	f.Data = f.Data[:planes]

	for i := range f.Data {
		if cap(f.Data[i]) < size {
			f.Data[i] = make([]byte, size)
		}
		f.Data[i] = f.Data[i][:size]
	}
}

// Unref resets the frame, keeping the plane storage.
func (f *Frame) Unref() {
	f.NumSamples = 0
	f.PTS = 0
	for i := range f.Data {
		f.Data[i] = f.Data[i][:0]
	}
}

// Sample returns sample i of channel ch normalised to [-1, 1].
func (f *Frame) Sample(ch, i int) float32 {
	if f.Format.IsPlanar() {
		return f.Format.sample(f.Data[ch], i)
	}
	return f.Format.sample(f.Data[0], i*f.Channels+ch)
}

// SetSample stores v as sample i of channel ch.
func (f *Frame) SetSample(ch, i int, v float64) {
	if f.Format.IsPlanar() {
		f.Format.putSample(f.Data[ch], i, v)
		return
	}
	f.Format.putSample(f.Data[0], i*f.Channels+ch, v)
}

// Float32Planes writes the frame into one float32 plane per channel, growing
// dst as needed, and returns the resized planes.
func (f *Frame) Float32Planes(dst [][]float32) [][]float32 {
	dst = GrowPlanes(dst, f.Channels, f.NumSamples)
	for ch := range f.Channels {
		plane := dst[ch]
		for i := range f.NumSamples {
			plane[i] = f.Sample(ch, i)
		}
	}

	return dst
}

// GrowPlanes returns planes sized channels x n, reusing capacity.
func GrowPlanes(planes [][]float32, channels, n int) [][]float32 {
	if cap(planes) < channels {
		grown := make([][]float32, channels)
		copy(grown, planes)
		planes = grown
	}
	planes = planes[:channels]

	for ch := range planes {
		if cap(planes[ch]) < n {
			planes[ch] = make([]float32, n)
		}
		planes[ch] = planes[ch][:n]
	}

	return planes
}
