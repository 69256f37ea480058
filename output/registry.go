// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"io"
	"sync"
)

// MuxerFactory creates a muxer writing to w.
type MuxerFactory func(w io.WriteSeeker) Muxer

// Registry for muxers by output format.
type Registry struct {
	muxers map[Format]MuxerFactory

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		muxers: make(map[Format]MuxerFactory),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(f Format, m MuxerFactory) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.muxers[f] = m
}

func (r *Registry) Get(f Format) (MuxerFactory, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	m, ok := r.muxers[f]
	return m, ok
}

// Create returns a context for f writing to w.
func (r *Registry) Create(f Format, w io.WriteSeeker, opts ...Option) (*Context, error) {
	m, ok := r.Get(f)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoMuxer, f)
	}
	return NewContext(f, m(w), opts...), nil
}
