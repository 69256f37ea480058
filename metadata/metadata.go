// SPDX-License-Identifier: EPL-2.0

package metadata

import (
	"strconv"
	"strings"
	"time"

	"github.com/ik5/avkit/audio"
)

// AudioMetadata describes one track. Zero numbers and empty strings mean
// unknown.
type AudioMetadata struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Genre       string
	Year        int
	TrackNumber int
	DiscNumber  int

	Duration   time.Duration
	Codec      string
	BitRate    int64
	SampleRate int
	BitDepth   int
	Channels   int

	CoverArt []byte
}

// IsEmpty reports whether no textual tag is set.
func (m AudioMetadata) IsEmpty() bool {
	return m.Title == "" && m.Artist == "" && m.Album == "" && m.AlbumArtist == "" &&
		m.Genre == "" && m.Year == 0 && m.TrackNumber == 0 && m.DiscNumber == 0
}

// Tags returns the well known tags of m. Unknown values are left out.
func (m AudioMetadata) Tags() *audio.Tags {
	t := &audio.Tags{}
	t.Set(audio.TagTitle, m.Title)
	t.Set(audio.TagArtist, m.Artist)
	t.Set(audio.TagAlbum, m.Album)
	t.Set(audio.TagAlbumArtist, m.AlbumArtist)
	t.Set(audio.TagGenre, m.Genre)
	if m.Year > 0 {
		t.Set(audio.TagDate, strconv.Itoa(m.Year))
	}
	if m.TrackNumber > 0 {
		t.Set(audio.TagTrack, strconv.Itoa(m.TrackNumber))
	}
	if m.DiscNumber > 0 {
		t.Set(audio.TagDisc, strconv.Itoa(m.DiscNumber))
	}

	return t
}

// FromTags fills the textual fields from a demuxer tag set. DATE keeps only
// the leading year and TRACK/DISC accept the "3/12" form.
func FromTags(t *audio.Tags) AudioMetadata {
	m := AudioMetadata{
		Title:       t.Value(audio.TagTitle),
		Artist:      t.Value(audio.TagArtist),
		Album:       t.Value(audio.TagAlbum),
		AlbumArtist: firstOf(t, audio.TagAlbumArtist, "ALBUMARTIST", "ALBUM ARTIST"),
		Genre:       t.Value(audio.TagGenre),
		Year:        leadingInt(firstOf(t, audio.TagDate, "YEAR")),
		TrackNumber: leadingInt(firstOf(t, audio.TagTrack, "TRACKNUMBER")),
		DiscNumber:  leadingInt(firstOf(t, audio.TagDisc, "DISCNUMBER")),
	}

	return m
}

func firstOf(t *audio.Tags, keys ...string) string {
	for _, k := range keys {
		if v := t.Value(k); v != "" {
			return v
		}
	}
	return ""
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
