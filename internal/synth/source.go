// ABOUTME: Sample source pulled by the audio device
// ABOUTME: Renders sine blocks through the reverb and encodes float32 PCM
package synth

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/palmsynth/palmsynth-go/internal/effects"
	"github.com/palmsynth/palmsynth-go/internal/params"
)

// streamSource feeds the output device. Its Read runs on the audio
// goroutine: one fixed-size block is rendered at a time from an atomic
// parameter snapshot, with all buffers preallocated, so each pull is
// bounded work. When the store goes inactive it returns io.EOF — the
// "do not reschedule me" signal — and the engine tears the stream down.
type streamSource struct {
	store  *params.Store
	reverb *effects.Reverb
	gen    *Generator

	sampleRate int
	raw        []float32
	wet        []float32
	block      []byte
	unread     []byte

	faultMu sync.Mutex
	fault   error
}

func newStreamSource(store *params.Store, cfg Config) *streamSource {
	reverb := effects.New(cfg.SampleRate)
	reverb.DecayFactor = cfg.DecayFactor
	reverb.NumEchoes = cfg.NumEchoes

	return &streamSource{
		store:      store,
		reverb:     reverb,
		gen:        NewGenerator(cfg.SampleRate),
		sampleRate: cfg.SampleRate,
		raw:        make([]float32, cfg.BlockSize),
		wet:        make([]float32, cfg.BlockSize),
		block:      make([]byte, cfg.BlockSize*4),
	}
}

// Read implements io.Reader for the device. A panic on the audio goroutine
// is converted into a stream fault instead of crashing the process.
func (s *streamSource) Read(p []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrStreamFault, r)
			s.setFault(err)
			n = 0
		}
	}()

	if err := s.Fault(); err != nil {
		return 0, err
	}

	for n < len(p) {
		if len(s.unread) == 0 {
			if !s.store.Active() {
				if n > 0 {
					return n, nil
				}
				return 0, io.EOF
			}
			s.renderBlock()
		}
		c := copy(p[n:], s.unread)
		n += c
		s.unread = s.unread[c:]
	}
	return n, nil
}

// renderBlock runs one callback's worth of synthesis: snapshot, sine block,
// reverb, clamp, encode.
func (s *streamSource) renderBlock() {
	freq, amp, room := s.store.Snapshot()
	freq, amp, room = s.sanitize(freq, amp, room)

	s.gen.Fill(s.raw, freq, amp)
	s.reverb.Process(s.wet, s.raw, room)

	for i, v := range s.wet {
		binary.LittleEndian.PutUint32(s.block[i*4:], math.Float32bits(v))
	}
	s.unread = s.block
}

// sanitize clamps controller-supplied values at the synthesis boundary.
// Upstream gesture noise can produce extreme or non-finite targets; those
// must distort at worst, never crash or overflow the device range.
func (s *streamSource) sanitize(freq, amp, room float64) (float64, float64, float64) {
	nyquist := float64(s.sampleRate) / 2
	switch {
	case math.IsNaN(freq) || math.IsInf(freq, 0):
		freq = params.DefaultFrequency
	case freq < 0:
		freq = 0
	case freq > nyquist:
		freq = nyquist
	}

	switch {
	case math.IsNaN(amp) || math.IsInf(amp, 0):
		amp = 0
	case amp < 0:
		amp = 0
	case amp > 1:
		amp = 1
	}

	if math.IsNaN(room) || math.IsInf(room, 0) || room < 0 {
		room = 0
	}
	return freq, amp, room
}

func (s *streamSource) setFault(err error) {
	s.faultMu.Lock()
	if s.fault == nil {
		s.fault = err
	}
	s.faultMu.Unlock()
}

// Fault returns the first error recorded on the audio goroutine, if any.
func (s *streamSource) Fault() error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	return s.fault
}
