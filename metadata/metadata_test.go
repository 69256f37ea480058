// SPDX-License-Identifier: EPL-2.0

package metadata_test

import (
	"bytes"
	"testing"

	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/internal/audiotest"
	"github.com/ik5/avkit/metadata"
	"github.com/ik5/avkit/output"
	"github.com/ik5/avkit/picture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T, f output.Format) (*output.Context, *output.Recorder) {
	t.Helper()

	rec := &output.Recorder{}
	oc := output.NewContext(f, rec)
	_, err := oc.NewAudioStream(44100, 2, 16, false)
	require.NoError(t, err)

	return oc, rec
}

func TestWriteTags(t *testing.T) {
	t.Parallel()

	oc, rec := newContext(t, output.FLAC)
	m := metadata.AudioMetadata{
		Title:       "Song",
		Artist:      "Band",
		AlbumArtist: "Various",
		Year:        1999,
		TrackNumber: 7,
	}
	require.NoError(t, metadata.WriteTags(m, oc))
	require.NoError(t, oc.WriteHeader())

	assert.Equal(t, []string{"TITLE", "ARTIST", "ALBUM_ARTIST", "DATE", "TRACK"}, rec.HeaderTags.Keys())
	assert.Equal(t, "1999", rec.HeaderTags.Value(audio.TagDate))
	assert.Equal(t, "7", rec.HeaderTags.Value(audio.TagTrack))
	_, ok := rec.HeaderTags.Get(audio.TagAlbum)
	assert.False(t, ok, "empty values must not be written")
	_, ok = rec.HeaderTags.Get(audio.TagDisc)
	assert.False(t, ok)
}

func TestWriteTags_AfterHeader(t *testing.T) {
	t.Parallel()

	oc, _ := newContext(t, output.FLAC)
	require.NoError(t, oc.WriteHeader())

	err := metadata.WriteTags(metadata.AudioMetadata{Title: "late"}, oc)
	assert.ErrorIs(t, err, output.ErrHeaderWritten)
}

func TestCopyAllTags(t *testing.T) {
	t.Parallel()

	src := audio.NewTags([2]string{"title", "a"}, [2]string{"COMPOSER", "b"})
	oc, _ := newContext(t, output.WAV)
	require.NoError(t, metadata.CopyAllTags(src, oc))

	assert.Equal(t, "a", oc.Tags.Value("TITLE"))
	assert.Equal(t, "b", oc.Tags.Value("composer"))
}

func TestAddCoverArtStream(t *testing.T) {
	t.Parallel()

	img := audiotest.PNG(12, 8)
	oc, rec := newContext(t, output.FLAC)

	index, ok, err := metadata.AddCoverArtStream(img, oc, output.FLAC)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, index)

	s, _ := oc.Stream(index)
	assert.Equal(t, audio.MediaVideo, s.MediaType)
	assert.Equal(t, audio.DispositionAttachedPic, s.Disposition)
	assert.Equal(t, picture.CodecPNG, s.CodecID)
	assert.Equal(t, 12, s.Params.Width)
	assert.Equal(t, 8, s.Params.Height)

	// Packet before the header is an ordering error.
	assert.ErrorIs(t, metadata.WriteCoverArtPacket(img, oc, index), output.ErrHeaderNotWritten)

	require.NoError(t, oc.WriteHeader())
	require.NoError(t, metadata.WriteCoverArtPacket(img, oc, index))
	require.NoError(t, oc.WriteTrailer())

	require.Len(t, rec.Packets, 1)
	assert.Equal(t, index, rec.Packets[0].StreamIndex)
	assert.True(t, rec.Packets[0].IsKey())
	assert.True(t, bytes.Equal(img, rec.Packets[0].Data))
}

func TestAddCoverArtStream_NoOp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		data   []byte
		format output.Format
	}{
		{"empty", nil, output.FLAC},
		{"unsupported format", audiotest.JPEG(4, 4), output.WAV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			oc, _ := newContext(t, tt.format)
			index, ok, err := metadata.AddCoverArtStream(tt.data, oc, tt.format)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, -1, index)
			assert.Len(t, oc.Streams(), 1)
		})
	}
}

func TestAddCoverArtStream_AfterHeader(t *testing.T) {
	t.Parallel()

	oc, _ := newContext(t, output.FLAC)
	require.NoError(t, oc.WriteHeader())

	_, ok, err := metadata.AddCoverArtStream(audiotest.JPEG(4, 4), oc, output.FLAC)
	assert.False(t, ok)
	assert.ErrorIs(t, err, output.ErrHeaderWritten)
}

func TestAddCoverArtAsVorbisComment(t *testing.T) {
	t.Parallel()

	img := audiotest.JPEG(20, 10)
	oc, rec := newContext(t, output.Vorbis)

	require.NoError(t, metadata.AddCoverArtAsVorbisComment(img, oc))
	require.NoError(t, oc.WriteHeader())

	b, err := picture.ParseBase64(rec.HeaderTags.Value(audio.TagPicture))
	require.NoError(t, err)
	assert.Equal(t, picture.FrontCover, b.Type)
	assert.Equal(t, picture.MIMEJPEG, b.MIMEType)
	assert.Equal(t, uint32(20), b.Width)
	assert.Equal(t, uint32(10), b.Height)
	assert.Equal(t, img, b.Data)
}

func TestAddCoverArtAsVorbisComment_Empty(t *testing.T) {
	t.Parallel()

	oc, _ := newContext(t, output.Opus)
	require.NoError(t, metadata.AddCoverArtAsVorbisComment(nil, oc))
	assert.Zero(t, oc.Tags.Len())
}

func TestCoverArtPathConflict(t *testing.T) {
	t.Parallel()

	img := audiotest.PNG(4, 4)

	oc, _ := newContext(t, output.FLAC)
	_, _, err := metadata.AddCoverArtStream(img, oc, output.FLAC)
	require.NoError(t, err)
	assert.ErrorIs(t, metadata.AddCoverArtAsVorbisComment(img, oc), metadata.ErrCoverArtPathConflict)

	oc, _ = newContext(t, output.FLAC)
	require.NoError(t, metadata.AddCoverArtAsVorbisComment(img, oc))
	_, ok, err := metadata.AddCoverArtStream(img, oc, output.FLAC)
	assert.False(t, ok)
	assert.ErrorIs(t, err, metadata.ErrCoverArtPathConflict)
	assert.Len(t, oc.Streams(), 1)
}

func TestAddCoverArt_PicksPath(t *testing.T) {
	t.Parallel()

	img := audiotest.JPEG(4, 4)

	oc, _ := newContext(t, output.Opus)
	index, err := metadata.AddCoverArt(img, oc, output.Opus)
	require.NoError(t, err)
	assert.Equal(t, -1, index)
	assert.NotEmpty(t, oc.Tags.Value(audio.TagPicture))

	oc, _ = newContext(t, output.MP3)
	index, err = metadata.AddCoverArt(img, oc, output.MP3)
	require.NoError(t, err)
	assert.Equal(t, 1, index)
}

func TestFromTags(t *testing.T) {
	t.Parallel()

	tags := audio.NewTags(
		[2]string{"TITLE", "x"},
		[2]string{"ALBUMARTIST", "y"},
		[2]string{"DATE", "2004-05-01"},
		[2]string{"TRACKNUMBER", "3/12"},
		[2]string{"DISC", "two"},
	)

	m := metadata.FromTags(tags)
	assert.Equal(t, "x", m.Title)
	assert.Equal(t, "y", m.AlbumArtist)
	assert.Equal(t, 2004, m.Year)
	assert.Equal(t, 3, m.TrackNumber)
	assert.Zero(t, m.DiscNumber)
	assert.False(t, m.IsEmpty())
	assert.True(t, metadata.AudioMetadata{Codec: "flac"}.IsEmpty())
}

func TestRead_NoTags(t *testing.T) {
	t.Parallel()

	_, err := metadata.Read(bytes.NewReader(bytes.Repeat([]byte("plain bytes "), 32)))
	assert.ErrorIs(t, err, metadata.ErrNoTags)
}
