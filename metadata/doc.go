// SPDX-License-Identifier: EPL-2.0

// Package metadata reads tags from audio files and writes tags and cover art
// into output containers.
//
// Writing follows the container order rules of output.Context. Cover art
// goes in one of two ways:
//
//   - as an attached picture stream: AddCoverArtStream before the header,
//     WriteCoverArtPacket after it;
//   - as a METADATA_BLOCK_PICTURE comment (Ogg family): AddCoverArtAsVorbisComment
//     before the header.
//
// Using both on the same output fails with ErrCoverArtPathConflict.
package metadata
