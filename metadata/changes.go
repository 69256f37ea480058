// SPDX-License-Identifier: EPL-2.0

package metadata

import (
	"fmt"
	"strconv"

	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/output"
	"github.com/samber/lo"
)

// Changes are edits to apply on top of copied tags. Nil fields are left
// alone; a pointer to "" or 0 removes the tag.
type Changes struct {
	Title       *string
	Artist      *string
	Album       *string
	Genre       *string
	Year        *int
	TrackNumber *int
	DiscNumber  *int

	// ExtendedTags are raw keys such as COMPOSER.
	ExtendedTags map[string]string
	// CustomTags are user defined keys.
	CustomTags map[string]string
	// EmbedCustomTagsInComment writes CustomTags as KEY=value lines in
	// COMMENT instead of separate tags.
	EmbedCustomTagsInComment bool
}

// IsEmpty reports whether c changes nothing.
func (c Changes) IsEmpty() bool {
	return c.Title == nil && c.Artist == nil && c.Album == nil && c.Genre == nil &&
		c.Year == nil && c.TrackNumber == nil && c.DiscNumber == nil &&
		len(c.ExtendedTags) == 0 && len(c.CustomTags) == 0
}

func itoa(n *int) string {
	if *n <= 0 {
		return ""
	}
	return strconv.Itoa(*n)
}

// sortedTags returns m in key order so output is deterministic.
func sortedTags(m map[string]string) []CustomTag {
	keys := lo.Keys(m)
	tags := lo.Map(keys, func(k string, _ int) CustomTag {
		return CustomTag{Key: audio.CanonicalKey(k), Value: m[k]}
	})
	return sortByKey(tags)
}

// ApplyChanges writes c onto oc. It must run before the header.
func ApplyChanges(c Changes, oc *output.Context) error {
	set := func(key string, v *string) error {
		if v == nil {
			return nil
		}
		return oc.SetTag(key, *v)
	}
	setInt := func(key string, v *int) error {
		if v == nil {
			return nil
		}
		return oc.SetTag(key, itoa(v))
	}

	steps := []error{
		set(audio.TagTitle, c.Title),
		set(audio.TagArtist, c.Artist),
		set(audio.TagAlbum, c.Album),
		set(audio.TagGenre, c.Genre),
		setInt(audio.TagDate, c.Year),
		setInt(audio.TagTrack, c.TrackNumber),
		setInt(audio.TagDisc, c.DiscNumber),
	}
	if err, ok := lo.Find(steps, func(err error) bool { return err != nil }); ok {
		return fmt.Errorf("applying changes: %w", err)
	}

	for _, t := range sortedTags(c.ExtendedTags) {
		if err := oc.SetTag(t.Key, t.Value); err != nil {
			return fmt.Errorf("applying changes: %w", err)
		}
	}

	custom := sortedTags(c.CustomTags)
	if !c.EmbedCustomTagsInComment {
		for _, t := range custom {
			if err := oc.SetTag(t.Key, t.Value); err != nil {
				return fmt.Errorf("applying changes: %w", err)
			}
		}
		return nil
	}

	if len(custom) == 0 {
		return nil
	}

	comment := FormatCustomTags(custom, "=")
	if prev := oc.Tags.Value(audio.TagComment); prev != "" {
		comment = prev + "\n" + comment
	}
	if err := oc.SetTag(audio.TagComment, comment); err != nil {
		return fmt.Errorf("applying changes: %w", err)
	}

	return nil
}
