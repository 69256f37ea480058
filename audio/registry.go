// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"strings"
	"sync"
)

// Registry for input formats by name (e.g., "wav", "mp3", "ogg") and for
// decoders by codec ID.
type Registry struct {
	inputs map[string]InputFormat
	order  []string
	codecs map[string]DecoderFactory

	mtx *sync.Mutex
}

// NewRegistry returns a registry with the PCM decoders already registered.
func NewRegistry() *Registry {
	r := &Registry{
		inputs: make(map[string]InputFormat),
		codecs: make(map[string]DecoderFactory),
		mtx:    &sync.Mutex{},
	}
	registerPCMCodecs(r)

	return r
}

// RegisterInput adds or replaces an input format.
func (r *Registry) RegisterInput(f InputFormat) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	name := strings.ToLower(f.Name())
	if _, ok := r.inputs[name]; !ok {
		r.order = append(r.order, name)
	}
	r.inputs[name] = f
}

// Input returns the input format registered under name or extension.
func (r *Registry) Input(name string) (InputFormat, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	name = strings.TrimPrefix(strings.ToLower(name), ".")
	if f, ok := r.inputs[name]; ok {
		return f, true
	}
	for _, n := range r.order {
		for _, ext := range r.inputs[n].Extensions() {
			if ext == name {
				return r.inputs[n], true
			}
		}
	}

	return nil, false
}

// Inputs returns the registered input formats in registration order.
func (r *Registry) Inputs() []InputFormat {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]InputFormat, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.inputs[n])
	}
	return out
}

// Probe returns the input format with the highest non-zero score.
func (r *Registry) Probe(header []byte) (InputFormat, bool) {
	var (
		best      InputFormat
		bestScore int
	)
	for _, f := range r.Inputs() {
		if score := f.Probe(header); score > bestScore {
			best, bestScore = f, score
		}
	}

	return best, best != nil
}

// RegisterCodec adds or replaces the decoder factory for codecID.
func (r *Registry) RegisterCodec(codecID string, f DecoderFactory) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[codecID] = f
}

// FindDecoder returns the decoder factory registered for codecID.
func (r *Registry) FindDecoder(codecID string) (DecoderFactory, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	f, ok := r.codecs[codecID]
	return f, ok
}
