// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

func openPCM(t *testing.T, codecID string, channels int) Decoder {
	t.Helper()

	factory, ok := NewRegistry().FindDecoder(codecID)
	if !ok {
		t.Fatalf("no decoder for %s", codecID)
	}
	d := factory()
	if err := d.Open(&Stream{Params: CodecParameters{SampleRate: 8000, Channels: channels}}); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	return d
}

func decodeOne(t *testing.T, d Decoder, data []byte) *Frame {
	t.Helper()

	if err := d.SendPacket(&Packet{Data: data, PTS: 42}); err != nil {
		t.Fatalf("SendPacket() error = %v", err)
	}
	f := &Frame{}
	if err := d.ReceiveFrame(f); err != nil {
		t.Fatalf("ReceiveFrame() error = %v", err)
	}
	return f
}

func TestPCMDecoder_Formats(t *testing.T) {
	t.Parallel()

	f32 := make([]byte, 8)
	binary.LittleEndian.PutUint32(f32, math.Float32bits(0.5))
	binary.LittleEndian.PutUint32(f32[4:], math.Float32bits(-0.25))

	tests := []struct {
		codec    string
		channels int
		data     []byte
		format   RawFormat
		want     [][]float32 // [channel][sample]
	}{
		{CodecPCMU8, 1, []byte{0xC0, 0x40, 0x80}, U8, [][]float32{{0.5, -0.5, 0}}},
		{CodecPCMS16LE, 2, []byte{0x00, 0x40, 0x00, 0xC0}, S16, [][]float32{{0.5}, {-0.5}}},
		{CodecPCMS16BE, 2, []byte{0x40, 0x00, 0xC0, 0x00}, S16, [][]float32{{0.5}, {-0.5}}},
		{CodecPCMS24LE, 1, []byte{0x00, 0x00, 0x40, 0x00, 0x00, 0xC0}, S32, [][]float32{{0.5, -0.5}}},
		{CodecPCMS24BE, 1, []byte{0x40, 0x00, 0x00, 0xC0, 0x00, 0x00}, S32, [][]float32{{0.5, -0.5}}},
		{CodecPCMS32BE, 1, []byte{0x40, 0x00, 0x00, 0x00}, S32, [][]float32{{0.5}}},
		{CodecPCMF32LE, 2, f32, FLT, [][]float32{{0.5}, {-0.25}}},
		{CodecPCMFLTP, 2, f32, FLTP, [][]float32{{0.5}, {-0.25}}},
	}

	for _, tt := range tests {
		t.Run(tt.codec, func(t *testing.T) {
			t.Parallel()

			f := decodeOne(t, openPCM(t, tt.codec, tt.channels), tt.data)

			if f.Format != tt.format {
				t.Errorf("Format = %v, want %v", f.Format, tt.format)
			}
			if f.PTS != 42 || f.SampleRate != 8000 {
				t.Errorf("PTS = %d, SampleRate = %d", f.PTS, f.SampleRate)
			}
			if f.NumSamples != len(tt.want[0]) {
				t.Fatalf("NumSamples = %d, want %d", f.NumSamples, len(tt.want[0]))
			}

			planes := f.Float32Planes(nil)
			for ch, samples := range tt.want {
				for i, want := range samples {
					if math.Abs(float64(planes[ch][i]-want)) > 1e-6 {
						t.Errorf("sample[%d][%d] = %v, want %v", ch, i, planes[ch][i], want)
					}
				}
			}
		})
	}
}

func TestPCMDecoder_SendReceive(t *testing.T) {
	t.Parallel()

	d := openPCM(t, CodecPCMS16LE, 1)
	f := &Frame{}

	if err := d.ReceiveFrame(f); !errors.Is(err, ErrAgain) {
		t.Errorf("ReceiveFrame() on empty decoder = %v, want ErrAgain", err)
	}

	if err := d.SendPacket(&Packet{Data: []byte{1, 0}}); err != nil {
		t.Fatal(err)
	}
	if err := d.SendPacket(&Packet{Data: []byte{2, 0}}); !errors.Is(err, ErrAgain) {
		t.Errorf("second SendPacket() = %v, want ErrAgain", err)
	}
	if err := d.ReceiveFrame(f); err != nil {
		t.Fatal(err)
	}

	// Empty packets are accepted and produce nothing.
	if err := d.SendPacket(&Packet{}); err != nil {
		t.Errorf("SendPacket(empty) = %v", err)
	}

	if err := d.SendPacket(nil); err != nil {
		t.Fatalf("SendPacket(nil) = %v", err)
	}
	if err := d.ReceiveFrame(f); !errors.Is(err, io.EOF) {
		t.Errorf("ReceiveFrame() after drain = %v, want io.EOF", err)
	}
	if err := d.SendPacket(&Packet{Data: []byte{1, 0}}); !errors.Is(err, io.EOF) {
		t.Errorf("SendPacket() after drain = %v, want io.EOF", err)
	}

	d.Flush()
	if err := d.SendPacket(&Packet{Data: []byte{1, 0}}); err != nil {
		t.Errorf("SendPacket() after Flush = %v", err)
	}
}

func TestPCMDecoder_Errors(t *testing.T) {
	t.Parallel()

	factory, _ := NewRegistry().FindDecoder(CodecPCMS16LE)

	d := factory()
	if err := d.SendPacket(&Packet{Data: []byte{0, 0}}); !errors.Is(err, ErrDecoderNotOpen) {
		t.Errorf("SendPacket() before Open = %v, want ErrDecoderNotOpen", err)
	}
	if err := d.ReceiveFrame(&Frame{}); !errors.Is(err, ErrDecoderNotOpen) {
		t.Errorf("ReceiveFrame() before Open = %v, want ErrDecoderNotOpen", err)
	}
	if err := d.Open(&Stream{}); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Open(empty stream) = %v, want ErrInvalidFormat", err)
	}

	d = openPCM(t, CodecPCMS16LE, 2)
	if err := d.SendPacket(&Packet{Data: []byte{0, 0, 0}}); !errors.Is(err, ErrInvalidData) {
		t.Errorf("SendPacket(partial frame) = %v, want ErrInvalidData", err)
	}
}

func TestPCMCodecLookup(t *testing.T) {
	t.Parallel()

	for f, want := range map[RawFormat]string{
		U8:   CodecPCMU8,
		S16:  CodecPCMS16LE,
		S32:  CodecPCMS32LE,
		FLT:  CodecPCMF32LE,
		FLTP: CodecPCMFLTP,
		DBLP: CodecPCMDBLP,
	} {
		got, ok := PCMCodecFor(f)
		if !ok || got != want {
			t.Errorf("PCMCodecFor(%v) = %q, %v, want %q", f, got, ok, want)
		}
	}

	if _, ok := PCMCodecFor(RawNone); ok {
		t.Error("PCMCodecFor(RawNone) should fail")
	}

	if f, ok := PCMOutputFormat(CodecPCMS24BE); !ok || f != S32 {
		t.Errorf("PCMOutputFormat(s24be) = %v, %v, want s32", f, ok)
	}
	if _, ok := PCMOutputFormat("mp3"); ok {
		t.Error("PCMOutputFormat(mp3) should fail")
	}
}

func TestFrame_SetSample(t *testing.T) {
	t.Parallel()

	for _, format := range []RawFormat{U8, S16, S16P, S32, S32P, FLT, FLTP, DBL, DBLP} {
		f := &Frame{}
		f.Alloc(format, 2, 3)
		f.SetSample(1, 2, 0.5)
		f.SetSample(0, 0, -2) // clipped for integer formats

		if got := f.Sample(1, 2); math.Abs(float64(got-0.5)) > 1e-6 {
			t.Errorf("%v: Sample(1, 2) = %v, want 0.5", format, got)
		}
		// Zeroed u8 storage is full negative scale, not silence.
		if got := f.Sample(0, 1); format != U8 && got != 0 {
			t.Errorf("%v: untouched sample = %v, want 0", format, got)
		}
		if got := f.Sample(0, 0); got > -0.99 {
			t.Errorf("%v: Sample(0, 0) = %v, want about -1", format, got)
		}
	}
}
