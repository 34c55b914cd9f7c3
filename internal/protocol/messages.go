// ABOUTME: Control protocol message type definitions
// ABOUTME: JSON structs exchanged between hand trackers and the bridge
package protocol

// ProtocolVersion identifies the control protocol revision.
const ProtocolVersion = 1

// Message is the top-level wrapper for all protocol messages.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ClientHello is sent by a tracker to initiate the handshake.
type ClientHello struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
}

// ServerHello is the bridge's response to client/hello.
type ServerHello struct {
	ServerID string `json:"server_id"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
}

// ControlTargets carries already-derived control scalars.
type ControlTargets struct {
	Frequency float64 `json:"frequency"`
	Amplitude float64 `json:"amplitude"`
	RoomSize  float64 `json:"room_size"`
}

// Landmark is a normalized hand-landmark coordinate.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ControlGesture carries raw landmark geometry for one video frame. Absent
// hands are omitted; a frame with no hands at all signals the engine to
// stop.
type ControlGesture struct {
	LeftPalm   *Landmark `json:"left_palm,omitempty"`
	RightThumb *Landmark `json:"right_thumb,omitempty"`
	RightIndex *Landmark `json:"right_index,omitempty"`
}

// EngineState reports the engine back to the tracker.
type EngineState struct {
	Running   bool    `json:"running"`
	Frequency float64 `json:"frequency"`
	Amplitude float64 `json:"amplitude"`
	RoomSize  float64 `json:"room_size"`
}

// ServerError reports a rejected message or connection.
type ServerError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
