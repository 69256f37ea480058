// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"github.com/go-audio/wav"
	"github.com/ik5/avkit/audio"
)

const tagCopyright = "COPYRIGHT"

func tagsFromMetadata(m *wav.Metadata) *audio.Tags {
	t := &audio.Tags{}
	if m == nil {
		return t
	}

	t.Set(audio.TagTitle, m.Title)
	t.Set(audio.TagArtist, m.Artist)
	t.Set(audio.TagAlbum, m.Product)
	t.Set(audio.TagGenre, m.Genre)
	t.Set(audio.TagDate, m.CreationDate)
	t.Set(audio.TagTrack, m.TrackNbr)
	t.Set(audio.TagComment, m.Comments)
	t.Set(audio.TagEncoder, m.Software)
	t.Set(tagCopyright, m.Copyright)

	return t
}

// metadataFromTags returns nil when nothing maps to an INFO field, so the
// encoder skips the LIST chunk.
func metadataFromTags(t *audio.Tags) *wav.Metadata {
	if t.Len() == 0 {
		return nil
	}

	m := &wav.Metadata{
		Title:        t.Value(audio.TagTitle),
		Artist:       t.Value(audio.TagArtist),
		Product:      t.Value(audio.TagAlbum),
		Genre:        t.Value(audio.TagGenre),
		CreationDate: t.Value(audio.TagDate),
		TrackNbr:     t.Value(audio.TagTrack),
		Comments:     t.Value(audio.TagComment),
		Software:     t.Value(audio.TagEncoder),
		Copyright:    t.Value(tagCopyright),
	}
	if m.Title == "" && m.Artist == "" && m.Product == "" && m.Genre == "" &&
		m.CreationDate == "" && m.TrackNbr == "" && m.Comments == "" &&
		m.Software == "" && m.Copyright == "" {
		return nil
	}

	return m
}
