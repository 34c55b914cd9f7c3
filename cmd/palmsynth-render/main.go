// ABOUTME: Offline renderer for auditioning parameter settings
// ABOUTME: Runs the synthesis chain without a device and writes a WAV file
package main

import (
	"flag"
	"log"
	"os"

	"github.com/palmsynth/palmsynth-go/internal/effects"
	"github.com/palmsynth/palmsynth-go/internal/synth"
	"github.com/palmsynth/palmsynth-go/internal/wav"
)

var (
	out        = flag.String("out", "palmsynth.wav", "Output WAV path")
	seconds    = flag.Float64("seconds", 2.0, "Duration to render")
	freq       = flag.Float64("freq", 440, "Frequency in Hz")
	amp        = flag.Float64("amp", 0.2, "Amplitude (0-1)")
	room       = flag.Float64("room", 0.3, "Reverb time in seconds")
	sampleRate = flag.Int("sample-rate", synth.DefaultSampleRate, "Sample rate in Hz")
	blockSize  = flag.Int("block-size", synth.DefaultBlockSize, "Samples per block")
)

func main() {
	flag.Parse()

	if *seconds <= 0 {
		log.Fatalf("duration must be positive, got %v", *seconds)
	}

	gen := synth.NewGenerator(*sampleRate)
	reverb := effects.New(*sampleRate)

	total := int(*seconds * float64(*sampleRate))
	raw := make([]float32, *blockSize)
	wet := make([]float32, *blockSize)
	rendered := make([]float32, 0, total)

	// Render block by block, exactly as the live engine does, so block-edge
	// reverb truncation is audible in the output too.
	for len(rendered) < total {
		gen.Fill(raw, *freq, *amp)
		reverb.Process(wet, raw, *room)

		n := total - len(rendered)
		if n > len(wet) {
			n = len(wet)
		}
		rendered = append(rendered, wet[:n]...)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("error creating %s: %v", *out, err)
	}
	defer f.Close()

	if err := wav.Write(f, rendered, *sampleRate); err != nil {
		log.Fatalf("error writing WAV: %v", err)
	}

	log.Printf("Rendered %.2fs at %.1fHz to %s (%d samples)",
		*seconds, *freq, *out, len(rendered))
}
