// ABOUTME: Maps hand-landmark geometry to synthesis control targets
// ABOUTME: Palm position drives pitch and loudness, pinch distance drives reverb
package gesture

import "math"

// Mapping ranges. Landmark coordinates are normalized 0..1 with x increasing
// left-to-right in the mirrored camera view.
const (
	MinFrequency = 220.0
	MaxFrequency = 880.0

	MinAmplitude = 0.1
	MaxAmplitude = 0.5

	// Thumb-to-index distance observed across a typical pinch gesture.
	minPinchDist = 0.03
	maxPinchDist = 0.4

	MinRoomSize = 0.1
	MaxRoomSize = 1.0
)

// Point is a normalized landmark coordinate.
type Point struct {
	X float64
	Y float64
}

// PalmToPitch maps a left-palm position to frequency and amplitude targets.
// Horizontal position sweeps the pitch range, vertical position the loudness
// range; both axes are mirrored so moving right and up raises them.
func PalmToPitch(palm Point) (freq, amp float64) {
	x := 1.0 - palm.X
	freq = MinFrequency + (MaxFrequency-MinFrequency)*x

	y := 1.0 - palm.Y
	amp = MinAmplitude + (MaxAmplitude-MinAmplitude)*y
	return freq, amp
}

// PinchToRoomSize maps the right-hand thumb-to-index distance to a reverb
// time. The distance is normalized over the usable pinch range and clamped.
func PinchToRoomSize(thumb, index Point) float64 {
	dist := math.Hypot(thumb.X-index.X, thumb.Y-index.Y)

	norm := (dist - minPinchDist) / (maxPinchDist - minPinchDist)
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	return MinRoomSize + (MaxRoomSize-MinRoomSize)*norm
}
