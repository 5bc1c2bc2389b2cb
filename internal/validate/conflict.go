package validate

import (
	"fmt"

	"github.com/whisprhq/keybind/internal/binding"
	"github.com/whisprhq/keybind/internal/platform"
)

// Conflict checks a candidate formatted binding against every other command's
// effective binding on the platform. A linear scan is fine: the catalog holds
// tens of entries, first match wins.
//
// Call this only after Check passes; an invalid combination should not be
// reported as a conflict.
func Conflict(reg *binding.Registry, editingKey, candidate string, p platform.Platform) *ValidationError {
	for _, cmd := range reg.Commands() {
		if cmd.Key == editingKey {
			continue
		}
		effective, err := reg.EffectiveBinding(cmd.Key, p)
		if err != nil {
			continue
		}
		if effective == candidate {
			return &ValidationError{
				Message: fmt.Sprintf("already used by %q", cmd.Title),
			}
		}
	}
	return nil
}
