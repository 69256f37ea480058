// SPDX-License-Identifier: EPL-2.0

package metadata

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Separators accepted between a custom tag key and value, in order of
// precedence. Trying "=" first lets values contain ":" and "|".
var Separators = []string{"=", ":", "|"}

// CustomTag is one user supplied key/value pair. Key is upper-cased.
type CustomTag struct {
	Key   string
	Value string
}

func splitTag(line, sep string) (CustomTag, bool) {
	key, value, found := strings.Cut(line, sep)
	if !found {
		return CustomTag{}, false
	}

	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return CustomTag{}, false
	}

	return CustomTag{Key: strings.ToUpper(key), Value: value}, true
}

// ParseCustomTag parses "KEY=value", "KEY:value" or "KEY|value".
func ParseCustomTag(line string) (CustomTag, bool) {
	for _, sep := range Separators {
		if tag, ok := splitTag(line, sep); ok {
			return tag, true
		}
	}
	return CustomTag{}, false
}

// FormatCustomTag renders key and value joined by sep ("=" when empty).
func FormatCustomTag(key, value, sep string) string {
	if sep == "" {
		sep = "="
	}
	return key + sep + value
}

// DetectSeparator returns the separator of the first pair in s.
func DetectSeparator(s string) (string, bool) {
	first, _, _ := strings.Cut(s, "\n")

	return lo.Find(Separators, func(sep string) bool {
		_, ok := splitTag(first, sep)
		return ok
	})
}

// ParseCustomTags parses one pair per line, using the separator detected on
// the first line for every line. Lines that do not parse are skipped.
func ParseCustomTags(s string) []CustomTag {
	sep, ok := DetectSeparator(s)
	if !ok {
		return nil
	}
	return ParseCustomTagsWith(s, sep)
}

// ParseCustomTagsWith parses one pair per line split on sep.
func ParseCustomTagsWith(s, sep string) []CustomTag {
	return lo.FilterMap(strings.Split(s, "\n"), func(line string, _ int) (CustomTag, bool) {
		return splitTag(strings.TrimSpace(line), sep)
	})
}

// FormatCustomTags renders tags one per line.
func FormatCustomTags(tags []CustomTag, sep string) string {
	return strings.Join(lo.Map(tags, func(t CustomTag, _ int) string {
		return FormatCustomTag(t.Key, t.Value, sep)
	}), "\n")
}

func sortByKey(tags []CustomTag) []CustomTag {
	slices.SortFunc(tags, func(a, b CustomTag) int { return cmp.Compare(a.Key, b.Key) })
	return tags
}
