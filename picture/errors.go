// SPDX-License-Identifier: EPL-2.0

package picture

import "errors"

var (
	ErrEmptyImage      = errors.New("empty image data")
	ErrShortBlock      = errors.New("picture block too short")
	ErrFieldOverflow   = errors.New("picture block field exceeds data")
	ErrInvalidEncoding = errors.New("invalid base64 picture block")
)
