// ABOUTME: Error kinds surfaced by the synthesis engine
// ABOUTME: Sentinels for device-open failure and mid-stream faults
package synth

import "errors"

var (
	// ErrDeviceUnavailable reports that the output device could not be
	// opened or configured. Start fails synchronously with it and the
	// engine stays stopped; retrying is the caller's decision.
	ErrDeviceUnavailable = errors.New("audio device unavailable")

	// ErrStreamFault reports a failure inside the audio pull path. The
	// stream instance is torn down and the fault surfaces from Stop or the
	// next Start.
	ErrStreamFault = errors.New("audio stream fault")
)
