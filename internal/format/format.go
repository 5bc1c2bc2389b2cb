// Package format renders key combinations as display/storage strings and
// converts stored strings into registrar-ready accelerators.
package format

import (
	"strings"

	"github.com/whisprhq/keybind/internal/capture"
	"github.com/whisprhq/keybind/internal/platform"
)

const separator = " + "

// Format renders a combination for one platform. The result is both the
// canonical storage representation and the uniqueness key for conflict
// detection.
//
// Modifier order is fixed per platform. The mac branch emits only cmd, ctrl,
// and shift: a held alt/option is dropped from the persisted string. That
// matches the legacy behavior this engine replaces and is kept deliberately;
// changing it would silently re-key every persisted mac binding.
func Format(c capture.Combination, p platform.Platform) string {
	var parts []string
	if p == platform.Mac {
		if c.Cmd {
			parts = append(parts, "⌘")
		}
		if c.Ctrl {
			parts = append(parts, "Ctrl")
		}
		if c.Shift {
			parts = append(parts, "Shift")
		}
	} else {
		if c.Ctrl {
			parts = append(parts, "Ctrl")
		}
		if c.Shift {
			parts = append(parts, "Shift")
		}
		if c.Alt {
			parts = append(parts, "Alt")
		}
	}
	if c.Key != "" {
		parts = append(parts, c.Key)
	}
	return strings.Join(parts, separator)
}
