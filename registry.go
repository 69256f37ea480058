// SPDX-License-Identifier: EPL-2.0

package avkit

import (
	"sync"

	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/formats"
	"github.com/ik5/avkit/output"
)

var (
	defaultInputs = sync.OnceValue(formats.NewRegistry)
	defaultMuxers = sync.OnceValue(formats.NewMuxers)
)

// Inputs is the shared registry of every input format.
func Inputs() *audio.Registry { return defaultInputs() }

// Muxers is the shared registry of every output format with a muxer.
func Muxers() *output.Registry { return defaultMuxers() }
