// ABOUTME: Tests for the gesture tracker
// ABOUTME: Tests update cadence, rolling averages, and hand absence
package gesture

import (
	"math"
	"testing"
)

func TestObserveEmitsEveryFifthFrame(t *testing.T) {
	tr := NewTracker()
	palm := &Point{X: 0.5, Y: 0.5}

	for i := 1; i <= 10; i++ {
		_, ok := tr.Observe(Frame{LeftPalm: palm})
		wantOK := i%5 == 0
		if ok != wantOK {
			t.Errorf("frame %d: expected ok=%v, got %v", i, wantOK, ok)
		}
	}
}

func TestObserveAveragesWindow(t *testing.T) {
	tr := NewTracker()

	// Palm x moves 0.1, 0.2, ..., 0.5; window covers all five frames.
	var targets Targets
	var ok bool
	for i := 1; i <= 5; i++ {
		palm := &Point{X: float64(i) * 0.1, Y: 0.5}
		targets, ok = tr.Observe(Frame{LeftPalm: palm})
	}
	if !ok {
		t.Fatal("expected targets on the fifth frame")
	}
	if !targets.HasPitch {
		t.Fatal("expected pitch targets after left-hand frames")
	}

	// Mean of the five per-frame frequencies is the frequency at mean x.
	wantFreq, wantAmp := PalmToPitch(Point{X: 0.3, Y: 0.5})
	if math.Abs(targets.Frequency-wantFreq) > 1e-9 {
		t.Errorf("expected averaged frequency %v, got %v", wantFreq, targets.Frequency)
	}
	if math.Abs(targets.Amplitude-wantAmp) > 1e-9 {
		t.Errorf("expected averaged amplitude %v, got %v", wantAmp, targets.Amplitude)
	}
}

func TestObserveWithoutHands(t *testing.T) {
	tr := NewTracker()

	for i := 0; i < 10; i++ {
		if _, ok := tr.Observe(Frame{}); ok {
			t.Fatal("expected no targets for empty frames")
		}
	}
}

func TestRightHandOnlySetsRoomOnly(t *testing.T) {
	tr := NewTracker()

	var targets Targets
	var ok bool
	for i := 0; i < 5; i++ {
		targets, ok = tr.Observe(Frame{
			RightThumb: &Point{X: 0.4, Y: 0.5},
			RightIndex: &Point{X: 0.6, Y: 0.5},
		})
	}
	if !ok {
		t.Fatal("expected targets on the fifth frame")
	}
	if targets.HasPitch {
		t.Error("expected no pitch targets without a left hand")
	}
	if !targets.HasRoom {
		t.Error("expected room target from right-hand pinch")
	}
}

func TestRollingAverageWindow(t *testing.T) {
	r := newRollingAverage(3)

	for _, v := range []float64{1, 2, 3, 4, 5} {
		r.push(v)
	}

	// Only the last three survive.
	if got := r.average(); got != 4 {
		t.Errorf("expected average 4, got %v", got)
	}
	if r.len() != 3 {
		t.Errorf("expected window length 3, got %d", r.len())
	}
}

func TestFramePresent(t *testing.T) {
	if (Frame{}).Present() {
		t.Error("empty frame should not be present")
	}
	if !(Frame{LeftPalm: &Point{}}).Present() {
		t.Error("left palm should count as present")
	}
	if (Frame{RightThumb: &Point{}}).Present() {
		t.Error("thumb without index should not count as present")
	}
	if !(Frame{RightThumb: &Point{}, RightIndex: &Point{}}).Present() {
		t.Error("thumb and index should count as present")
	}
}
