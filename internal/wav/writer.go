// ABOUTME: Minimal WAV writer for rendered output
// ABOUTME: Writes mono 32-bit IEEE-float samples with a RIFF header
package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	formatIEEEFloat = 3
	bitsPerSample   = 32
)

// Write encodes mono float32 samples as an IEEE-float WAV stream.
func Write(w io.Writer, samples []float32, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	dataSize := len(samples) * 4
	byteRate := sampleRate * 4

	// RIFF header, extended fmt chunk (18 bytes), fact chunk, data chunk.
	riffSize := 4 + (8 + 18) + (8 + 4) + (8 + dataSize)

	var header []interface{}
	header = append(header,
		[]byte("RIFF"), uint32(riffSize), []byte("WAVE"),
		[]byte("fmt "), uint32(18),
		uint16(formatIEEEFloat), // Format tag
		uint16(1),               // Channels
		uint32(sampleRate),
		uint32(byteRate),
		uint16(4), // Block align
		uint16(bitsPerSample),
		uint16(0), // Extension size
		[]byte("fact"), uint32(4), uint32(len(samples)),
		[]byte("data"), uint32(dataSize),
	)

	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	buf := make([]byte, 4)
	for _, s := range samples {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(s))
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
	}
	return nil
}
