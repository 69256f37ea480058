// SPDX-License-Identifier: EPL-2.0

package output

import (
	"strings"

	"github.com/samber/lo"
)

// Format is a target container/codec for conversion.
type Format int

const (
	// Lossless
	FLAC Format = iota
	ALAC
	WAV
	AIFF
	WavPack
	// Lossy
	MP3
	AAC
	Opus
	Vorbis
)

type formatInfo struct {
	name        string
	ext         string
	display     string
	lossless    bool
	coverArt    bool
	oggFamily   bool
	bitrateMode bool
}

var formats = map[Format]formatInfo{
	FLAC:    {name: "flac", ext: "flac", display: "FLAC", lossless: true, coverArt: true},
	ALAC:    {name: "alac", ext: "m4a", display: "ALAC (Apple Lossless)", lossless: true, coverArt: true},
	WAV:     {name: "wav", ext: "wav", display: "WAV", lossless: true},
	AIFF:    {name: "aiff", ext: "aiff", display: "AIFF", lossless: true},
	WavPack: {name: "wavpack", ext: "wv", display: "WavPack", lossless: true},
	MP3:     {name: "mp3", ext: "mp3", display: "MP3", coverArt: true, bitrateMode: true},
	AAC:     {name: "aac", ext: "m4a", display: "AAC", coverArt: true, bitrateMode: true},
	Opus:    {name: "opus", ext: "opus", display: "Opus", coverArt: true, oggFamily: true, bitrateMode: true},
	Vorbis:  {name: "vorbis", ext: "ogg", display: "Vorbis", coverArt: true, oggFamily: true, bitrateMode: true},
}

// Formats returns every known format in declaration order.
func Formats() []Format {
	return []Format{FLAC, ALAC, WAV, AIFF, WavPack, MP3, AAC, Opus, Vorbis}
}

func (f Format) String() string { return formats[f].name }

// Extension is the file extension without the dot.
func (f Format) Extension() string { return formats[f].ext }

func (f Format) DisplayName() string { return formats[f].display }

func (f Format) IsLossless() bool { return formats[f].lossless }

// SupportsCoverArt reports whether the container can carry embedded art.
func (f Format) SupportsCoverArt() bool { return formats[f].coverArt }

// UsesOggContainer reports whether cover art must be embedded as a
// METADATA_BLOCK_PICTURE comment instead of an attached picture stream.
func (f Format) UsesOggContainer() bool { return formats[f].oggFamily }

// SupportsBitrateMode reports whether the codec is lossy with a bitrate knob.
func (f Format) SupportsBitrateMode() bool { return formats[f].bitrateMode }

// ParseFormat looks a format up by short name.
func ParseFormat(name string) (Format, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	return lo.Find(Formats(), func(f Format) bool { return f.String() == name })
}

// FormatForExtension returns the first format using ext. "m4a" resolves to
// ALAC.
func FormatForExtension(ext string) (Format, bool) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "aif" {
		ext = "aiff"
	}
	return lo.Find(Formats(), func(f Format) bool { return f.Extension() == ext })
}
