// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/internal/audiotest"
	"github.com/ik5/avkit/output"
)

// mockAiffReader simulates the aiff.Decoder for testing
type mockAiffReader struct {
	sampleRate   int
	channels     int
	samples      []int
	offset       int
	returnErrors bool
}

func (m *mockAiffReader) Format() *goaudio.Format {
	return &goaudio.Format{
		SampleRate:  m.sampleRate,
		NumChannels: m.channels,
	}
}

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.returnErrors {
		return 0, io.ErrUnexpectedEOF
	}

	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	samplesToRead := min(len(buf.Data), len(m.samples)-m.offset)
	copy(buf.Data, m.samples[m.offset:m.offset+samplesToRead])
	m.offset += samplesToRead

	if m.offset >= len(m.samples) {
		return samplesToRead, io.EOF
	}

	return samplesToRead, nil
}

// mockDemuxer returns a demuxer whose every (re)open yields a fresh mock
// reader over samples.
func mockDemuxer(t *testing.T, inf info, samples []int, fail bool) *demuxer {
	t.Helper()

	d := &demuxer{
		rs: bytes.NewReader(nil),
		reopen: func(io.ReadSeeker) (aiffReader, info, error) {
			return &mockAiffReader{
				sampleRate:   inf.sampleRate,
				channels:     inf.channels,
				samples:      samples,
				returnErrors: fail,
			}, inf, nil
		},
		tags: &audio.Tags{},
	}
	if err := d.FindStreamInfo(); err != nil {
		t.Fatalf("FindStreamInfo() error = %v", err)
	}

	return d
}

func TestFormat_Probe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header []byte
		want   int
	}{
		{"aiff", []byte("FORM\x00\x00\x10\x00AIFFCOMM"), 100},
		{"aifc", []byte("FORM\x00\x00\x10\x00AIFCFVER"), 50},
		{"wav", []byte("RIFF\x00\x00\x10\x00WAVEfmt "), 0},
		{"short", []byte("FORM"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := (Format{}).Probe(tt.header); got != tt.want {
				t.Errorf("Probe() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDemuxer_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{[]byte("This is not AIFF data"), {}} {
		d, err := Format{}.Open(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if err := d.FindStreamInfo(); err == nil {
			t.Errorf("FindStreamInfo(%q) error = nil, want error", data)
		}
	}
}

func TestDemuxer_StreamInfo(t *testing.T) {
	t.Parallel()

	d := mockDemuxer(t, info{sampleRate: 44100, channels: 2, bitDepth: 16, frames: 50}, make([]int, 100), false)

	streams := d.Streams()
	if len(streams) != 1 {
		t.Fatalf("Streams() = %d streams, want 1", len(streams))
	}
	s := streams[0]

	if s.CodecID != audio.CodecPCMS16P {
		t.Errorf("CodecID = %q, want %q", s.CodecID, audio.CodecPCMS16P)
	}
	if s.CodecName != "pcm_s16be" {
		t.Errorf("CodecName = %q, want pcm_s16be", s.CodecName)
	}
	if s.Params.SampleRate != 44100 || s.Params.Channels != 2 {
		t.Errorf("Params = %+v, want 44100 Hz stereo", s.Params)
	}
	if s.Duration != 50 {
		t.Errorf("Duration = %d, want 50", s.Duration)
	}
	if d.BitRate() != 44100*2*16 {
		t.Errorf("BitRate() = %d, want %d", d.BitRate(), 44100*2*16)
	}
}

func TestDemuxer_UnsupportedBitDepth(t *testing.T) {
	t.Parallel()

	d := &demuxer{
		rs: bytes.NewReader(nil),
		reopen: func(io.ReadSeeker) (aiffReader, info, error) {
			return &mockAiffReader{}, info{sampleRate: 8000, channels: 1, bitDepth: 12}, nil
		},
	}

	if err := d.FindStreamInfo(); !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("FindStreamInfo() error = %v, want %v", err, ErrUnsupportedBitDepth)
	}
}

func TestDemuxer_ReadPacket(t *testing.T) {
	t.Parallel()

	// Interleaved L/R frames: (0, 16384), (-16384, 32767)
	d := mockDemuxer(t, info{sampleRate: 44100, channels: 2, bitDepth: 16}, []int{0, 16384, -16384, 32767}, false)

	var pkt audio.Packet
	if err := d.ReadPacket(&pkt); err != nil {
		t.Fatalf("ReadPacket() error = %v", err)
	}
	if pkt.Duration != 2 || pkt.PTS != 0 || !pkt.IsKey() {
		t.Errorf("packet = %+v, want 2 key frames at 0", pkt)
	}

	want := []int16{0, -16384, 16384, 32767} // planar: L plane then R plane
	if len(pkt.Data) != len(want)*2 {
		t.Fatalf("len(Data) = %d, want %d", len(pkt.Data), len(want)*2)
	}
	for i, w := range want {
		if got := int16(binary.LittleEndian.Uint16(pkt.Data[2*i:])); got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}

	if err := d.ReadPacket(&pkt); !errors.Is(err, io.EOF) {
		t.Errorf("ReadPacket() error = %v, want io.EOF", err)
	}
}

func TestDemuxer_BitDepthWidening(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		bits   int
		sample int
		want   int32
	}{
		{"8-bit", 8, 64, 64 << 8},
		{"24-bit", 24, 0x400000, 0x40000000},
		{"32-bit", 32, -0x40000000, -0x40000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := mockDemuxer(t, info{sampleRate: 8000, channels: 1, bitDepth: tt.bits}, []int{tt.sample}, false)

			var pkt audio.Packet
			if err := d.ReadPacket(&pkt); err != nil {
				t.Fatalf("ReadPacket() error = %v", err)
			}

			var got int32
			if d.width == 2 {
				got = int32(int16(binary.LittleEndian.Uint16(pkt.Data)))
			} else {
				got = int32(binary.LittleEndian.Uint32(pkt.Data))
			}
			if got != tt.want {
				t.Errorf("sample = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestDemuxer_ReadError(t *testing.T) {
	t.Parallel()

	d := mockDemuxer(t, info{sampleRate: 8000, channels: 1, bitDepth: 16}, make([]int, 10), true)

	var pkt audio.Packet
	if err := d.ReadPacket(&pkt); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadPacket() error = %v, want %v", err, io.ErrUnexpectedEOF)
	}
}

func TestDemuxer_Seek(t *testing.T) {
	t.Parallel()

	samples := make([]int, 10000)
	for i := range samples {
		samples[i] = i
	}
	d := mockDemuxer(t, info{sampleRate: 8000, channels: 1, bitDepth: 16, frames: 10000}, samples, false)

	var pkt audio.Packet
	if err := d.ReadPacket(&pkt); err != nil {
		t.Fatalf("ReadPacket() error = %v", err)
	}

	if err := d.Seek(0, 5000, audio.SeekBackward); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if err := d.ReadPacket(&pkt); err != nil {
		t.Fatalf("ReadPacket() error = %v", err)
	}

	if pkt.PTS != 5000 {
		t.Errorf("PTS = %d, want 5000", pkt.PTS)
	}
	if got := int16(binary.LittleEndian.Uint16(pkt.Data)); got != 5000 {
		t.Errorf("first sample = %d, want 5000", got)
	}
}

func TestMuxer_RoundTrip(t *testing.T) {
	t.Parallel()

	const frames = 800

	plane := make([]float32, frames)
	for i := range plane {
		plane[i] = float32(i%200)/100 - 1
	}

	out := &audiotest.Buffer{}
	c := output.NewContext(output.AIFF, NewMuxer(out))
	c.Tags.Set(audio.TagTitle, "dropped")

	s, err := c.NewAudioStream(8000, 1, 16, false)
	if err != nil {
		t.Fatalf("NewAudioStream() error = %v", err)
	}
	if err := c.WriteHeader(); err != nil {
		t.Fatalf("WriteHeader() error = %v", err)
	}
	buf := audio.PCMBuffer{Data: [][]float32{plane}, Frames: frames, SampleRate: 8000}
	if err := c.WriteAudio(s.Index, buf, 0); err != nil {
		t.Fatalf("WriteAudio() error = %v", err)
	}
	if err := c.WriteTrailer(); err != nil {
		t.Fatalf("WriteTrailer() error = %v", err)
	}

	data := out.Bytes()
	if score := (Format{}).Probe(data); score != 100 {
		t.Fatalf("Probe() = %d, want 100", score)
	}

	d, err := Format{}.Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := d.FindStreamInfo(); err != nil {
		t.Fatalf("FindStreamInfo() error = %v", err)
	}
	if p := d.Streams()[0].Params; p.SampleRate != 8000 || p.Channels != 1 || p.BitsPerRawSample != 16 {
		t.Fatalf("Params = %+v, want 8000 Hz mono 16-bit", p)
	}

	var (
		pkt audio.Packet
		got []float32
	)
	for {
		err := d.ReadPacket(&pkt)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ReadPacket() error = %v", err)
		}
		for i := 0; i < len(pkt.Data); i += 2 {
			got = append(got, float32(int16(binary.LittleEndian.Uint16(pkt.Data[i:])))/32768)
		}
	}

	if len(got) != frames {
		t.Fatalf("decoded %d frames, want %d", len(got), frames)
	}
	for i := range got {
		if math.Abs(float64(got[i]-plane[i])) > 1e-3 {
			t.Fatalf("sample %d = %v, want %v", i, got[i], plane[i])
		}
	}
}

func TestMuxer_RejectsFloat(t *testing.T) {
	t.Parallel()

	c := output.NewContext(output.AIFF, NewMuxer(&audiotest.Buffer{}))
	if _, err := c.NewAudioStream(8000, 1, 32, true); err != nil {
		t.Fatalf("NewAudioStream() error = %v", err)
	}

	if err := c.WriteHeader(); !errors.Is(err, output.ErrUnsupportedCodec) {
		t.Errorf("WriteHeader() error = %v, want %v", err, output.ErrUnsupportedCodec)
	}
}

func TestErrors_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{ErrNotAiffFile, "not an AIFF file"},
		{ErrUnsupportedBitDepth, "unsupported AIFF bit depth"},
		{ErrUnsupportedAiffLayout, "unsupported AIFF layout"},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.want)
		}
	}
}
