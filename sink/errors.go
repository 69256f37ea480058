// SPDX-License-Identifier: EPL-2.0

package sink

import "errors"

var (
	// ErrUnavailable is returned when the binary has no audio backend
	ErrUnavailable = errors.New("audio output unavailable in this build")

	// ErrNotConfigured is returned by Start and Schedule before Configure
	ErrNotConfigured = errors.New("audio output not configured")

	// ErrFormatChange is returned when the device already runs another layout
	ErrFormatChange = errors.New("audio output cannot change format")

	// ErrClosed is returned after Close
	ErrClosed = errors.New("audio output closed")

	ErrInvalidLayout = errors.New("invalid sample rate or channel count")
)
