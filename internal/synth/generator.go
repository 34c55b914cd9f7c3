// ABOUTME: Phase-continuous sine generator
// ABOUTME: Fills sample blocks while carrying phase across block boundaries
package synth

import "math"

// Generator produces blocks of a sine wave. The phase counter carries across
// Fill calls so consecutive blocks join without a click, and wraps modulo the
// sample rate to bound its magnitude. It is owned by the engine's stream
// source and only advanced on the audio pull path.
type Generator struct {
	sampleRate int
	phase      int
}

// NewGenerator creates a generator for the given sample rate.
func NewGenerator(sampleRate int) *Generator {
	return &Generator{sampleRate: sampleRate}
}

// Fill writes len(dst) sine samples at the given frequency and amplitude,
// continuing from the running phase.
func (g *Generator) Fill(dst []float32, freq, amp float64) {
	for i := range dst {
		t := float64(g.phase+i) / float64(g.sampleRate)
		dst[i] = float32(amp * math.Sin(2*math.Pi*freq*t))
	}
	g.phase = (g.phase + len(dst)) % g.sampleRate
}

// Phase returns the current phase counter in samples.
func (g *Generator) Phase() int {
	return g.phase
}
