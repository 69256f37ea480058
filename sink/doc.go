// SPDX-License-Identifier: EPL-2.0

// Package sink provides audio outputs for playback.
//
// NewOto plays through the system device with github.com/ebitengine/oto/v3.
// It needs cgo on Linux and reports ErrUnavailable in other builds. oto
// allows a single device context per process, so every Oto output shares it
// and a later Configure with another layout fails with ErrFormatChange.
//
// Null consumes buffers without playing them and keeps count, for dry runs
// and tests.
package sink
