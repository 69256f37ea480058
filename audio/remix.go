// SPDX-License-Identifier: EPL-2.0

package audio

// Remix maps n samples of the planes in src onto the planes in dst.
//
// Equal channel counts copy, a single output channel averages every input
// channel, a single input channel is repeated on every output channel. For
// other layouts output channel j averages the input channels i with
// i%len(dst) == j when downmixing and repeats input channel j%len(src) when
// upmixing.
func Remix(dst, src [][]float32, n int) {
	in, out := len(src), len(dst)

	switch {
	case in == out:
		for c := range out {
			copy(dst[c][:n], src[c][:n])
		}
	case out == 1:
		mixToMono(dst[0], src, n)
	case in == 1:
		for c := range out {
			copy(dst[c][:n], src[0][:n])
		}
	case in > out:
		for j := range out {
			d := dst[j][:n]
			copy(d, src[j][:n])
			count := float32(1)
			for i := j + out; i < in; i += out {
				for k, v := range src[i][:n] {
					d[k] += v
				}
				count++
			}
			inv := 1 / count
			for k := range d {
				d[k] *= inv
			}
		}
	default:
		for j := range out {
			copy(dst[j][:n], src[j%in][:n])
		}
	}
}

func mixToMono(dst []float32, src [][]float32, n int) {
	channels := len(src)

	// Unrolled loop for common cases
	switch channels {
	case 2: // Stereo (most common)
		l, r := src[0][:n], src[1][:n]
		for f := range n {
			dst[f] = (l[f] + r[f]) * 0.5
		}
	case 4: // Quad
		for f := range n {
			sum := src[0][f] + src[1][f] + src[2][f] + src[3][f]
			dst[f] = sum * 0.25
		}
	default: // Generic path
		invChannels := float32(1.0) / float32(channels)
		for f := range n {
			sum := float32(0)
			for c := range channels {
				sum += src[c][f]
			}
			dst[f] = sum * invChannels
		}
	}
}
