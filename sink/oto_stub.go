// SPDX-License-Identifier: EPL-2.0

//go:build !((linux && cgo) || windows || darwin)

package sink

// NewOto reports ErrUnavailable: oto needs cgo on this platform.
func NewOto(...Option) (Output, error) {
	return nil, ErrUnavailable
}
