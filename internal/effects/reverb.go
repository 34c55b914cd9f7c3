// ABOUTME: Discrete-echo reverb applied per audio block
// ABOUTME: Sums delayed, decayed copies of the block and clamps the result
package effects

import "math"

// Default echo shape.
const (
	DefaultDecayFactor = 0.6
	DefaultNumEchoes   = 5
)

// Reverb approximates a room-size-proportional decay tail by adding delayed,
// decayed copies of the input block. It carries no state between calls: each
// block is processed from its raw samples alone, so echoes whose delay
// exceeds one block length are truncated at the block boundary. That keeps
// the per-callback cost bounded with no cross-block buffer to manage, at the
// price of fidelity for long reverb times.
type Reverb struct {
	SampleRate  int
	DecayFactor float64
	NumEchoes   int
}

// New creates a reverb with the default decay factor and echo count.
func New(sampleRate int) *Reverb {
	return &Reverb{
		SampleRate:  sampleRate,
		DecayFactor: DefaultDecayFactor,
		NumEchoes:   DefaultNumEchoes,
	}
}

// Process writes src plus its echo contributions into dst, clamped to
// [-1, 1]. dst and src must have the same length and must not overlap.
// reverbTime is the total reverb tail in seconds; the echoes are spaced
// reverbTime/NumEchoes apart. Pure: identical inputs produce identical
// output, and nothing is allocated.
func (r *Reverb) Process(dst, src []float32, reverbTime float64) {
	copy(dst, src)

	if r.NumEchoes > 0 {
		delay := int((reverbTime / float64(r.NumEchoes)) * float64(r.SampleRate))
		if delay < 0 {
			delay = 0
		}

		for i := 1; i <= r.NumEchoes; i++ {
			offset := delay * i
			if offset >= len(src) {
				break
			}
			decay := float32(math.Pow(r.DecayFactor, float64(i)))
			for j := offset; j < len(src); j++ {
				dst[j] += src[j-offset] * decay
			}
		}
	}

	for i, v := range dst {
		dst[i] = clamp(v)
	}
}

// Apply is a convenience wrapper around Process that allocates the output.
func (r *Reverb) Apply(src []float32, reverbTime float64) []float32 {
	dst := make([]float32, len(src))
	r.Process(dst, src, reverbTime)
	return dst
}

func clamp(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
