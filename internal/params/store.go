// ABOUTME: Thread-safe holder of the current synthesis parameters
// ABOUTME: Smoothed updates from the controller, atomic snapshots for the audio callback
package params

import "sync"

// DefaultAlpha is the exponential smoothing factor applied by SetSmoothed.
const DefaultAlpha = 0.2

// Defaults used until the controller supplies targets.
const (
	DefaultFrequency = 440.0 // A4
	DefaultAmplitude = 0.2
	DefaultRoomSize  = 0.3 // Reverb time in seconds
)

// Store holds the current synthesis parameters. The controller goroutine
// writes targets at video-frame cadence; the audio callback snapshots the
// whole record once per block. A single mutex serializes every access so the
// three fields are never observed partially updated.
type Store struct {
	mu        sync.Mutex
	frequency float64
	amplitude float64
	roomSize  float64
	alpha     float64
	active    bool
}

// NewStore creates a store with the default parameters and smoothing factor.
func NewStore() *Store {
	return &Store{
		frequency: DefaultFrequency,
		amplitude: DefaultAmplitude,
		roomSize:  DefaultRoomSize,
		alpha:     DefaultAlpha,
	}
}

// SetAlpha overrides the smoothing factor. Values outside (0, 1] are ignored.
func (s *Store) SetAlpha(alpha float64) {
	if alpha <= 0 || alpha > 1 {
		return
	}
	s.mu.Lock()
	s.alpha = alpha
	s.mu.Unlock()
}

// SetFrequency overwrites the frequency in Hz.
func (s *Store) SetFrequency(freq float64) {
	s.mu.Lock()
	s.frequency = freq
	s.mu.Unlock()
}

// SetAmplitude overwrites the amplitude (nominal range 0..1).
func (s *Store) SetAmplitude(amp float64) {
	s.mu.Lock()
	s.amplitude = amp
	s.mu.Unlock()
}

// SetRoomSize overwrites the reverb time in seconds.
func (s *Store) SetRoomSize(room float64) {
	s.mu.Lock()
	s.roomSize = room
	s.mu.Unlock()
}

// SetSmoothed moves each parameter toward its target by the smoothing
// factor: current = current*(1-alpha) + target*alpha. This is the primary
// update path from the gesture controller; the smoothing suppresses jitter
// from noisy per-frame landmark estimates and de-zippers the audio even
// though updates arrive far slower than the sample rate.
func (s *Store) SetSmoothed(freq, amp, room float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frequency = s.frequency*(1-s.alpha) + freq*s.alpha
	s.amplitude = s.amplitude*(1-s.alpha) + amp*s.alpha
	s.roomSize = s.roomSize*(1-s.alpha) + room*s.alpha
}

// Snapshot returns the current (frequency, amplitude, roomSize) as one
// atomic read. Called once per audio callback invocation.
func (s *Store) Snapshot() (freq, amp, room float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frequency, s.amplitude, s.roomSize
}

// Start marks the store active. Idempotent.
func (s *Store) Start() {
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()
}

// Stop clears the active flag. The audio callback checks it at the start of
// every block, so a stop is observed within one block period.
func (s *Store) Stop() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

// Active reports whether the engine should keep producing blocks.
func (s *Store) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
