// SPDX-License-Identifier: EPL-2.0

package metadata

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dhowden/tag"
)

// Read extracts tags and the embedded picture from ID3, MP4, FLAC or Ogg
// data. Stream properties are left zero.
func Read(rs io.ReadSeeker) (AudioMetadata, error) {
	m, err := tag.ReadFrom(rs)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return AudioMetadata{}, ErrNoTags
		}
		return AudioMetadata{}, fmt.Errorf("reading tags: %w", err)
	}

	md := AudioMetadata{
		Title:       m.Title(),
		Artist:      m.Artist(),
		Album:       m.Album(),
		AlbumArtist: m.AlbumArtist(),
		Genre:       m.Genre(),
		Year:        m.Year(),
		Codec:       string(m.FileType()),
	}
	md.TrackNumber, _ = m.Track()
	md.DiscNumber, _ = m.Disc()

	if p := m.Picture(); p != nil && len(p.Data) > 0 {
		md.CoverArt = p.Data
	}

	return md, nil
}

// ReadFile opens path and calls Read.
func ReadFile(path string) (AudioMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return AudioMetadata{}, fmt.Errorf("%w", err)
	}
	defer f.Close()

	return Read(f)
}

// RawTags returns every tag dhowden/tag found, formatted as strings.
func RawTags(rs io.ReadSeeker) (map[string]string, error) {
	m, err := tag.ReadFrom(rs)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return nil, ErrNoTags
		}
		return nil, fmt.Errorf("reading tags: %w", err)
	}

	out := make(map[string]string, len(m.Raw()))
	for k, v := range m.Raw() {
		switch v := v.(type) {
		case string:
			out[k] = v
		case *tag.Picture:
			out[k] = fmt.Sprintf("%s picture, %d bytes", v.MIMEType, len(v.Data))
		case *tag.Comm:
			out[k] = v.Text
		case []byte:
			out[k] = fmt.Sprintf("%d bytes", len(v))
		default:
			out[k] = fmt.Sprint(v)
		}
	}

	return out, nil
}
