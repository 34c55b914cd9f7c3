// ABOUTME: Version constants for the palmsynth project
// ABOUTME: Identifies the product in logs and handshakes
package version

const (
	Version      = "0.1.0"
	Product      = "Palmsynth"
	Manufacturer = "Palmsynth Project"
)
