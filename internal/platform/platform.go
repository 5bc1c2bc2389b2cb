// Package platform defines the platform identifier consumed by the binding engine.
// The engine itself never sniffs the OS; the identifier is supplied by the
// outer shell (CLI flag, config, or the Probe helper wired in cmd).
package platform

import "fmt"

// Platform identifies which default/override column of a binding applies.
type Platform string

const (
	Mac     Platform = "mac"
	Windows Platform = "windows"
)

// Valid reports whether p is a known platform identifier.
func (p Platform) Valid() bool {
	return p == Mac || p == Windows
}

// String returns the raw identifier.
func (p Platform) String() string {
	return string(p)
}

// Parse converts a raw string into a Platform.
func Parse(s string) (Platform, error) {
	p := Platform(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown platform %q (must be \"mac\" or \"windows\")", s)
	}
	return p, nil
}

// All returns both supported platforms in a stable order.
func All() []Platform {
	return []Platform{Mac, Windows}
}
