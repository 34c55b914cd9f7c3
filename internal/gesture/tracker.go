// ABOUTME: Per-frame gesture accumulation with rolling-average smoothing
// ABOUTME: Emits averaged control targets every few video frames
package gesture

// Window and cadence matching the tracker's video-frame rate.
const (
	smoothingWindow = 5
	updateInterval  = 5
)

// Frame is one video frame's worth of detected landmarks. Nil pointers mean
// the corresponding hand was not detected.
type Frame struct {
	LeftPalm   *Point
	RightThumb *Point
	RightIndex *Point
}

// Present reports whether any hand was detected in the frame.
func (f Frame) Present() bool {
	return f.LeftPalm != nil || (f.RightThumb != nil && f.RightIndex != nil)
}

// Targets carries averaged control values. A Has flag is false until the
// corresponding hand has been observed at least once; the caller keeps its
// current value for that control.
type Targets struct {
	Frequency float64
	Amplitude float64
	RoomSize  float64

	HasPitch bool
	HasRoom  bool
}

// Tracker accumulates per-frame landmark observations and emits
// rolling-average targets every updateInterval-th frame. The averaging is a
// first smoothing stage; the parameter store applies exponential smoothing
// on top.
type Tracker struct {
	freq  *rollingAverage
	amp   *rollingAverage
	room  *rollingAverage
	frame int
}

// NewTracker creates a tracker with the default window and cadence.
func NewTracker() *Tracker {
	return &Tracker{
		freq: newRollingAverage(smoothingWindow),
		amp:  newRollingAverage(smoothingWindow),
		room: newRollingAverage(smoothingWindow),
	}
}

// Observe records one frame. It returns averaged targets and true when this
// frame completes an update interval with at least one hand present.
func (t *Tracker) Observe(f Frame) (Targets, bool) {
	if f.LeftPalm != nil {
		freq, amp := PalmToPitch(*f.LeftPalm)
		t.freq.push(freq)
		t.amp.push(amp)
	}
	if f.RightThumb != nil && f.RightIndex != nil {
		t.room.push(PinchToRoomSize(*f.RightThumb, *f.RightIndex))
	}

	t.frame++
	if t.frame%updateInterval != 0 || !f.Present() {
		return Targets{}, false
	}

	return t.targets(), true
}

func (t *Tracker) targets() Targets {
	out := Targets{}
	if t.freq.len() > 0 {
		out.Frequency = t.freq.average()
		out.Amplitude = t.amp.average()
		out.HasPitch = true
	}
	if t.room.len() > 0 {
		out.RoomSize = t.room.average()
		out.HasRoom = true
	}
	return out
}

// rollingAverage keeps the last n pushed values.
type rollingAverage struct {
	window int
	values []float64
}

func newRollingAverage(window int) *rollingAverage {
	return &rollingAverage{window: window}
}

func (r *rollingAverage) push(v float64) {
	r.values = append(r.values, v)
	if len(r.values) > r.window {
		r.values = r.values[1:]
	}
}

func (r *rollingAverage) len() int {
	return len(r.values)
}

func (r *rollingAverage) average() float64 {
	if len(r.values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range r.values {
		sum += v
	}
	return sum / float64(len(r.values))
}
