// ABOUTME: Tests for the sine generator
// ABOUTME: Tests phase continuity across blocks and phase wrapping
package synth

import (
	"math"
	"testing"
)

func TestFillMatchesFormula(t *testing.T) {
	g := NewGenerator(16000)

	block := make([]float32, 64)
	g.Fill(block, 440, 0.5)

	for i, v := range block {
		expected := 0.5 * math.Sin(2*math.Pi*440*float64(i)/16000)
		if math.Abs(float64(v)-expected) > 1e-6 {
			t.Fatalf("sample %d: expected %v, got %v", i, expected, v)
		}
	}
}

// Two consecutive blocks with carried phase must equal one double-length
// block sample-for-sample.
func TestPhaseContinuity(t *testing.T) {
	const blockSize = 1024

	a := NewGenerator(16000)
	first := make([]float32, blockSize)
	second := make([]float32, blockSize)
	a.Fill(first, 330, 0.4)
	a.Fill(second, 330, 0.4)

	b := NewGenerator(16000)
	double := make([]float32, 2*blockSize)
	b.Fill(double, 330, 0.4)

	for i := 0; i < blockSize; i++ {
		if math.Abs(float64(first[i])-float64(double[i])) > 1e-6 {
			t.Fatalf("first block sample %d: expected %v, got %v", i, double[i], first[i])
		}
		if math.Abs(float64(second[i])-float64(double[blockSize+i])) > 1e-6 {
			t.Fatalf("second block sample %d: expected %v, got %v", i, double[blockSize+i], second[i])
		}
	}
}

func TestPhaseWrapsModuloSampleRate(t *testing.T) {
	g := NewGenerator(16000)

	block := make([]float32, 1024)
	for i := 0; i < 20; i++ {
		g.Fill(block, 440, 0.2)
	}

	if g.Phase() != (20*1024)%16000 {
		t.Errorf("expected phase %d, got %d", (20*1024)%16000, g.Phase())
	}
	if g.Phase() < 0 || g.Phase() >= 16000 {
		t.Errorf("phase out of bounds: %d", g.Phase())
	}
}

// Integer frequencies complete whole cycles per second, so the waveform is
// continuous across the modulo wrap as well.
func TestWrapContinuousForIntegerFrequency(t *testing.T) {
	const rate = 16000

	g := NewGenerator(rate)
	block := make([]float32, rate) // Exactly one second, wraps to phase 0
	g.Fill(block, 440, 0.5)

	next := make([]float32, 16)
	g.Fill(next, 440, 0.5)

	for i := range next {
		if math.Abs(float64(next[i])-float64(block[i])) > 1e-6 {
			t.Fatalf("sample %d after wrap: expected %v, got %v", i, block[i], next[i])
		}
	}
}
