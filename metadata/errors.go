// SPDX-License-Identifier: EPL-2.0

package metadata

import "errors"

var (
	// ErrCoverArtPathConflict is returned when cover art is added both as an
	// attached picture stream and as a METADATA_BLOCK_PICTURE tag.
	ErrCoverArtPathConflict = errors.New("cover art already added through the other path")
	ErrNoTags               = errors.New("no tags found")
)
