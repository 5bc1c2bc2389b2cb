package platform

import "runtime"

// Probe guesses the platform from the host OS. It exists for the CLI layer
// only; the binding engine always receives the platform as an explicit input.
// Anything that is not macOS maps to the windows binding column, matching the
// two-column catalog.
func Probe() Platform {
	if runtime.GOOS == "darwin" {
		return Mac
	}
	return Windows
}
