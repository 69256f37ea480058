// SPDX-License-Identifier: EPL-2.0

package output_test

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLookup(t *testing.T) {
	tests := []struct {
		in   string
		want output.Format
		ok   bool
	}{
		{"flac", output.FLAC, true},
		{" FLAC ", output.FLAC, true},
		{"wavpack", output.WavPack, true},
		{"vorbis", output.Vorbis, true},
		{"ogg", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := output.ParseFormat(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}

	exts := map[string]output.Format{
		".flac": output.FLAC,
		"m4a":   output.ALAC,
		".AIF":  output.AIFF,
		"aiff":  output.AIFF,
		"ogg":   output.Vorbis,
		"opus":  output.Opus,
		".wv":   output.WavPack,
	}
	for ext, want := range exts {
		got, ok := output.FormatForExtension(ext)
		require.True(t, ok, ext)
		assert.Equal(t, want, got, ext)
	}

	_, ok := output.FormatForExtension(".xyz")
	assert.False(t, ok)
}

func TestFormatProperties(t *testing.T) {
	for _, f := range output.Formats() {
		assert.NotEmpty(t, f.String())
		assert.NotEmpty(t, f.Extension())
		assert.NotEmpty(t, f.DisplayName())
		assert.Equal(t, !f.IsLossless(), f.SupportsBitrateMode(), f.String())
		if f.UsesOggContainer() {
			assert.True(t, f.SupportsCoverArt(), f.String())
		}
	}

	assert.False(t, output.WAV.SupportsCoverArt())
	assert.False(t, output.AIFF.SupportsCoverArt())
	assert.True(t, output.FLAC.SupportsCoverArt())
	assert.True(t, output.Opus.UsesOggContainer())
	assert.False(t, output.FLAC.UsesOggContainer())
	assert.Equal(t, "ALAC (Apple Lossless)", output.ALAC.DisplayName())
}

func TestPCMCodecForBits(t *testing.T) {
	tests := []struct {
		bits  int
		float bool
		want  string
	}{
		{16, false, audio.CodecPCMS16LE},
		{24, false, audio.CodecPCMS24LE},
		{32, false, audio.CodecPCMS32LE},
		{32, true, audio.CodecPCMF32LE},
	}
	for _, tt := range tests {
		got, err := output.PCMCodecForBits(tt.bits, tt.float)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []struct {
		bits  int
		float bool
	}{{8, false}, {12, false}, {64, true}, {16, true}} {
		_, err := output.PCMCodecForBits(bad.bits, bad.float)
		assert.ErrorIs(t, err, output.ErrUnsupportedCodec)
	}
}

func TestEncodeDecodePCM(t *testing.T) {
	buf := audio.PCMBuffer{
		Data:       [][]float32{{0.5, -1}, {0, 1}},
		Frames:     2,
		SampleRate: 8000,
	}

	tests := []struct {
		codec string
		width int
		want  []int
	}{
		{audio.CodecPCMS16LE, 2, []int{16384, 0, -32767, 32767}},
		{audio.CodecPCMS24LE, 3, []int{4194304, 0, -8388607, 8388607}},
		{audio.CodecPCMS32LE, 4, []int{1073741824, 0, -2147483647, 2147483647}},
		{audio.CodecPCMF32LE, 4, []int{
			int(math.Float32bits(0.5)), 0, int(math.Float32bits(-1)), int(math.Float32bits(1)),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.codec, func(t *testing.T) {
			data, err := output.EncodePCM(nil, buf, tt.codec)
			require.NoError(t, err)
			assert.Len(t, data, 4*tt.width)

			samples, err := output.DecodePCM(nil, data, tt.codec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, samples)
		})
	}

	_, err := output.EncodePCM(nil, buf, audio.CodecPCMU8)
	assert.ErrorIs(t, err, output.ErrUnsupportedCodec)

	_, err = output.DecodePCM(nil, []byte{1, 2, 3}, audio.CodecPCMS16LE)
	assert.ErrorIs(t, err, audio.ErrInvalidData)
}

func TestContext_Lifecycle(t *testing.T) {
	rec := &output.Recorder{}
	c := output.NewContext(output.WAV, rec)

	assert.ErrorIs(t, c.WriteHeader(), output.ErrNoStreams)
	assert.ErrorIs(t, c.WritePacket(&audio.Packet{}), output.ErrHeaderNotWritten)
	assert.ErrorIs(t, c.WriteTrailer(), output.ErrHeaderNotWritten)

	s, err := c.NewAudioStream(8000, 2, 16, false)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, audio.CodecPCMS16LE, s.CodecID)
	assert.Equal(t, audio.S16, s.Params.Format)
	assert.Equal(t, audio.Rational{Num: 1, Den: 8000}, s.TimeBase)

	require.NoError(t, c.SetTag("title", "Song"))
	require.NoError(t, c.WriteHeader())
	assert.True(t, c.HeaderWritten())
	assert.Equal(t, "Song", rec.HeaderTags.Value(audio.TagTitle))
	require.Len(t, rec.Streams, 1)

	assert.ErrorIs(t, c.SetTag("artist", "x"), output.ErrHeaderWritten)
	_, err = c.NewStream(audio.MediaVideo)
	assert.ErrorIs(t, err, output.ErrHeaderWritten)
	assert.ErrorIs(t, c.WriteHeader(), output.ErrHeaderWritten)

	buf := audio.PCMBuffer{Data: [][]float32{{0.5, 0.5}, {0, 0}}, Frames: 2, SampleRate: 8000}
	require.NoError(t, c.WriteAudio(0, buf, 0))
	assert.ErrorIs(t, c.WriteAudio(1, buf, 0), output.ErrInvalidStream)
	assert.ErrorIs(t, c.WriteAudio(0, audio.PCMBuffer{Data: [][]float32{{0}}, Frames: 1}, 2), audio.ErrUnsupportedLayout)

	pkt := &audio.Packet{StreamIndex: 0, Data: []byte{1, 2, 3, 4}, PTS: 2, Duration: 1}
	require.NoError(t, c.WriteInterleavedPacket(pkt))
	assert.Empty(t, pkt.Data)
	assert.Equal(t, -1, pkt.StreamIndex)

	assert.ErrorIs(t, c.WritePacket(&audio.Packet{StreamIndex: 3}), output.ErrInvalidStream)

	require.NoError(t, c.WriteTrailer())
	assert.True(t, rec.Finished)
	assert.ErrorIs(t, c.WriteTrailer(), output.ErrTrailerWritten)
	assert.ErrorIs(t, c.WritePacket(&audio.Packet{}), output.ErrTrailerWritten)
	assert.ErrorIs(t, c.WriteHeader(), output.ErrTrailerWritten)

	require.Len(t, rec.Packets, 2)
	assert.Len(t, rec.Packets[0].Data, 8)
	assert.Equal(t, int64(2), rec.Packets[0].Duration)
	assert.True(t, rec.Packets[0].IsKey())
	assert.Equal(t, []byte{1, 2, 3, 4}, rec.Packets[1].Data)
	assert.Equal(t, int64(2), rec.Packets[1].PTS)
}

type failingMuxer struct{ err error }

func (m failingMuxer) WriteHeader(*output.Context) error                { return m.err }
func (m failingMuxer) WritePacket(*output.Context, *audio.Packet) error { return m.err }
func (m failingMuxer) WriteTrailer(*output.Context) error               { return m.err }

func TestContext_MuxerErrors(t *testing.T) {
	boom := errors.New("disk full")
	c := output.NewContext(output.FLAC, failingMuxer{err: boom})

	_, err := c.NewAudioStream(44100, 2, 16, false)
	require.NoError(t, err)

	err = c.WriteHeader()
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "write header")
	assert.False(t, c.HeaderWritten())

	_, err = c.NewAudioStream(44100, 2, 12, false)
	assert.ErrorIs(t, err, output.ErrUnsupportedCodec)
}

func TestRegistry(t *testing.T) {
	r := output.NewRegistry()

	_, err := r.Create(output.MP3, nil)
	require.ErrorIs(t, err, output.ErrNoMuxer)
	assert.Contains(t, err.Error(), "mp3")

	var got io.WriteSeeker
	r.Register(output.AIFF, func(w io.WriteSeeker) output.Muxer {
		got = w
		return &output.Recorder{}
	})

	_, ok := r.Get(output.AIFF)
	assert.True(t, ok)

	c, err := r.Create(output.AIFF, nil)
	require.NoError(t, err)
	assert.Equal(t, output.AIFF, c.Format)
	assert.Nil(t, got)
	assert.NotNil(t, c.Logger())
}
