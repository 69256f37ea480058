// SPDX-License-Identifier: EPL-2.0

// Package picture builds FLAC PICTURE metadata blocks for cover art.
//
// The block layout is the one FLAC uses for its PICTURE metadata block and
// Vorbis comments use under METADATA_BLOCK_PICTURE (base64 encoded). All
// integers are big-endian uint32:
//
//	type | mime length | mime | description length | description |
//	width | height | depth | indexed colors | data length | data
//
// Image dimensions are read straight from PNG and JPEG headers without
// decoding the image. Parsing never fails: unknown or damaged images report
// 1x1 so the block stays valid.
package picture
