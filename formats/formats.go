// SPDX-License-Identifier: EPL-2.0

// Package formats wires every container backend into the registries.
package formats

import (
	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/formats/aiff"
	"github.com/ik5/avkit/formats/flac"
	"github.com/ik5/avkit/formats/mp3"
	"github.com/ik5/avkit/formats/vorbis"
	"github.com/ik5/avkit/formats/wav"
	"github.com/ik5/avkit/output"
)

// Register adds every input format to r.
func Register(r *audio.Registry) {
	r.RegisterInput(wav.Format{})
	r.RegisterInput(aiff.Format{})
	r.RegisterInput(flac.Format{})
	r.RegisterInput(mp3.Format{})
	r.RegisterInput(vorbis.Format{})
}

// NewRegistry returns a registry with the PCM codecs and every input format.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	Register(r)
	return r
}

// NewMuxers returns the output formats that have a Go muxer.
func NewMuxers() *output.Registry {
	r := output.NewRegistry()
	r.Register(output.WAV, wav.NewMuxer)
	r.Register(output.AIFF, aiff.NewMuxer)
	r.Register(output.FLAC, flac.NewMuxer)
	return r
}
