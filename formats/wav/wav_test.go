// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/formats/wav"
	"github.com/ik5/avkit/internal/audiotest"
	"github.com/ik5/avkit/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openWAV(t *testing.T, data []byte) audio.Demuxer {
	t.Helper()

	d, err := wav.Format{}.Open(bytes.NewReader(data))
	require.NoError(t, err)
	require.NoError(t, d.FindStreamInfo())
	t.Cleanup(func() { _ = d.Close() })

	return d
}

func readAll(t *testing.T, d audio.Demuxer) ([]byte, int) {
	t.Helper()

	var (
		data    []byte
		packets int
		pkt     audio.Packet
	)
	for {
		err := d.ReadPacket(&pkt)
		if err == io.EOF {
			return data, packets
		}
		require.NoError(t, err)
		assert.True(t, pkt.IsKey())
		data = append(data, pkt.Data...)
		packets++
	}
}

func TestProbe(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(8000, 1, 10)
	assert.Equal(t, 100, wav.Format{}.Probe(audiotest.WAV(src, audiotest.WAVOptions{Bits: 16})))
	assert.Zero(t, wav.Format{}.Probe([]byte("RIFF\x00\x00\x00\x00AVI ")))
	assert.Zero(t, wav.Format{}.Probe([]byte("RIFF")))
}

func TestStreamInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		opts   audiotest.WAVOptions
		codec  string
		format audio.RawFormat
	}{
		{"u8", audiotest.WAVOptions{Bits: 8}, audio.CodecPCMU8, audio.U8},
		{"s16", audiotest.WAVOptions{Bits: 16}, audio.CodecPCMS16LE, audio.S16},
		{"s24", audiotest.WAVOptions{Bits: 24}, audio.CodecPCMS24LE, audio.S32},
		{"s32", audiotest.WAVOptions{Bits: 32}, audio.CodecPCMS32LE, audio.S32},
		{"f32", audiotest.WAVOptions{Bits: 32, Float: true}, audio.CodecPCMF32LE, audio.FLT},
		{"f64", audiotest.WAVOptions{Bits: 64, Float: true}, audio.CodecPCMF64LE, audio.DBL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewSineSource(22050, 2, 22050, 440)
			d := openWAV(t, audiotest.WAV(src, tt.opts))

			streams := d.Streams()
			require.Len(t, streams, 1)

			s := streams[0]
			assert.Equal(t, audio.MediaAudio, s.MediaType)
			assert.Equal(t, tt.codec, s.CodecID)
			assert.Equal(t, tt.format, s.Params.Format)
			assert.Equal(t, 22050, s.Params.SampleRate)
			assert.Equal(t, 2, s.Params.Channels)
			assert.Equal(t, tt.opts.Bits, s.Params.BitsPerRawSample)
			assert.Equal(t, int64(22050), s.Duration)
			assert.Equal(t, int64(22050*2*tt.opts.Bits), d.BitRate())
			assert.InDelta(t, 1.0, d.Duration().Seconds(), 1e-9)
		})
	}
}

func TestReadPacket(t *testing.T) {
	t.Parallel()

	const frames = 10000
	src := audiotest.NewSineSource(44100, 2, frames, 440)
	d := openWAV(t, audiotest.WAV(src, audiotest.WAVOptions{Bits: 16}))

	data, packets := readAll(t, d)
	assert.Len(t, data, frames*4)
	assert.Equal(t, 3, packets)
}

func TestReadPacket_Truncated(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSineSource(8000, 2, 100, 440)
	d := openWAV(t, audiotest.WAV(src, audiotest.WAVOptions{Bits: 16, Truncate: 3}))

	// 3 missing bytes cost one whole frame.
	data, _ := readAll(t, d)
	assert.Len(t, data, 99*4)
}

func TestSeek(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(1000, 1, 1000, audiotest.Ramp(1000))
	d := openWAV(t, audiotest.WAV(src, audiotest.WAVOptions{Bits: 16}))

	require.NoError(t, d.Seek(0, 500, audio.SeekBackward))

	var pkt audio.Packet
	require.NoError(t, d.ReadPacket(&pkt))
	assert.Equal(t, int64(500), pkt.PTS)
	assert.Len(t, pkt.Data, 500*2)

	// Past the end clamps to EOF.
	require.NoError(t, d.Seek(0, 5000, 0))
	assert.ErrorIs(t, d.ReadPacket(&pkt), io.EOF)
}

func TestTrailingInfoTags(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(8000, 1, 8)
	d := openWAV(t, audiotest.WAV(src, audiotest.WAVOptions{
		Bits: 16,
		Info: [][2]string{
			{"INAM", "Title"},
			{"IART", "Some Artist"},
			{"IPRD", "Album"},
		},
	}))

	tags := d.Tags()
	assert.Equal(t, "Title", tags.Value(audio.TagTitle))
	assert.Equal(t, "Some Artist", tags.Value(audio.TagArtist))
	assert.Equal(t, "Album", tags.Value(audio.TagAlbum))

	// Tags must not leak into the sample data.
	data, _ := readAll(t, d)
	assert.Len(t, data, 16)
}

func TestNotWav(t *testing.T) {
	t.Parallel()

	d, err := wav.Format{}.Open(bytes.NewReader([]byte("this is not a wav file at all")))
	require.NoError(t, err)
	assert.Error(t, d.FindStreamInfo())
}

func TestMuxer_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		bits  int
		float bool
		delta float64
	}{
		{"s16", 16, false, 1.0 / 16384},
		{"s24", 24, false, 1.0 / 4194304},
		{"f32", 32, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out audiotest.Buffer
			oc := output.NewContext(output.WAV, wav.NewMuxer(&out))
			_, err := oc.NewAudioStream(8000, 2, tt.bits, tt.float)
			require.NoError(t, err)
			// Odd length plus NUL keeps the INFO entry word aligned.
			require.NoError(t, oc.SetTag(audio.TagTitle, "Title"))
			require.NoError(t, oc.WriteHeader())

			buf := audio.PCMBuffer{
				Data: [][]float32{
					{0, 0.5, -0.5, 0.25},
					{1, -1, 0.125, 0},
				},
				Frames:     4,
				SampleRate: 8000,
			}
			require.NoError(t, oc.WriteAudio(0, buf, 0))
			require.NoError(t, oc.WriteTrailer())

			d := openWAV(t, out.Bytes())
			s := d.Streams()[0]
			assert.Equal(t, int64(4), s.Duration)
			assert.Equal(t, tt.bits, s.Params.BitsPerRawSample)
			assert.Equal(t, "Title", d.Tags().Value(audio.TagTitle))

			factory, ok := audio.NewRegistry().FindDecoder(s.CodecID)
			require.True(t, ok)
			dec := factory()
			require.NoError(t, dec.Open(s))

			var pkt audio.Packet
			require.NoError(t, d.ReadPacket(&pkt))
			require.NoError(t, dec.SendPacket(&pkt))

			var frame audio.Frame
			require.NoError(t, dec.ReceiveFrame(&frame))
			require.Equal(t, 4, frame.NumSamples)
			for ch := range 2 {
				for i := range 4 {
					assert.InDelta(t, buf.Data[ch][i], frame.Sample(ch, i), tt.delta+1e-6, "ch %d sample %d", ch, i)
				}
			}
		})
	}
}
