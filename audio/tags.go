// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"slices"
	"strings"
)

// Well known tag keys.
const (
	TagTitle       = "TITLE"
	TagArtist      = "ARTIST"
	TagAlbum       = "ALBUM"
	TagAlbumArtist = "ALBUM_ARTIST"
	TagGenre       = "GENRE"
	TagDate        = "DATE"
	TagTrack       = "TRACK"
	TagDisc        = "DISC"
	TagComment     = "COMMENT"
	TagEncoder     = "ENCODER"

	// TagPicture carries a base64 FLAC picture block in Vorbis comments.
	TagPicture = "METADATA_BLOCK_PICTURE"
)

// Tags is an insertion-ordered set of string tags. Keys are compared case
// insensitively and stored upper-cased. The zero value is ready to use.
type Tags struct {
	keys   []string
	values map[string]string
}

// NewTags builds a tag set from key/value pairs.
func NewTags(pairs ...[2]string) *Tags {
	t := &Tags{}
	for _, p := range pairs {
		t.Set(p[0], p[1])
	}
	return t
}

// CanonicalKey returns the stored form of key.
func CanonicalKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// Set stores value under key. An empty value removes the key.
func (t *Tags) Set(key, value string) {
	k := CanonicalKey(key)
	if k == "" {
		return
	}
	if value == "" {
		t.Delete(k)
		return
	}

	if t.values == nil {
		t.values = make(map[string]string)
	}
	if _, ok := t.values[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.values[k] = value
}

// Get returns the value stored under key.
func (t *Tags) Get(key string) (string, bool) {
	if t == nil || t.values == nil {
		return "", false
	}
	v, ok := t.values[CanonicalKey(key)]
	return v, ok
}

// Value returns the value stored under key or "".
func (t *Tags) Value(key string) string {
	v, _ := t.Get(key)
	return v
}

// Delete removes key.
func (t *Tags) Delete(key string) {
	if t == nil || t.values == nil {
		return
	}
	k := CanonicalKey(key)
	if _, ok := t.values[k]; !ok {
		return
	}
	delete(t.values, k)
	t.keys = slices.DeleteFunc(t.keys, func(s string) bool { return s == k })
}

// Len returns the number of tags.
func (t *Tags) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the keys in insertion order.
func (t *Tags) Keys() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.keys)
}

// Each calls fn for every tag in insertion order.
func (t *Tags) Each(fn func(key, value string)) {
	if t == nil {
		return
	}
	for _, k := range t.keys {
		fn(k, t.values[k])
	}
}

// Clone returns an independent copy.
func (t *Tags) Clone() *Tags {
	c := &Tags{}
	t.Each(c.Set)
	return c
}
