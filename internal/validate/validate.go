// Package validate enforces binding well-formedness rules and checks proposed
// bindings against every other command's effective binding.
package validate

import (
	"fmt"

	"github.com/whisprhq/keybind/internal/capture"
	"github.com/whisprhq/keybind/internal/platform"
)

// ValidationError is a locally recoverable rule failure. It surfaces inline
// on the preview state and blocks commit; it never propagates past the
// editing UI.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Result is the validation outcome for a finalized combination.
// A present Err always takes precedence for blocking purposes. A warning
// without an error allows save but is shown to the caller.
type Result struct {
	Err     *ValidationError
	Warning string
}

// OK reports whether the combination may be committed.
func (r Result) OK() bool {
	return r.Err == nil
}

// Check applies the well-formedness rules in order, first failure wins, then
// computes the non-blocking OS-shortcut warning when all rules pass.
func Check(c capture.Combination, p platform.Platform) Result {
	if c.Key == "" {
		return Result{Err: &ValidationError{
			Message: "press a key after holding modifiers",
		}}
	}

	if !c.HasModifier() {
		allowed := "Ctrl/Shift/Alt"
		if p == platform.Mac {
			allowed = "⌘/Ctrl/Shift"
		}
		return Result{Err: &ValidationError{
			Message: fmt.Sprintf("hold at least one modifier (%s) before pressing a key", allowed),
		}}
	}

	if capture.IsAlphanumeric(c.Key) && !c.HasStrongModifier() {
		return Result{Err: &ValidationError{
			Message: "shift alone would conflict with normal typing; add Ctrl, ⌘, or Alt for letter and digit keys",
		}}
	}

	return Result{Warning: reservedWarning(c)}
}

// reservedCombos are well-known OS/editor shortcuts. Colliding with one is
// never an error - just a heads-up attached to a successful validation.
var reservedCombos = map[string]string{
	"A": "Select All",
	"C": "Copy",
	"V": "Paste",
	"Z": "Undo",
}

func reservedWarning(c capture.Combination) string {
	if c.Shift || c.Alt {
		return ""
	}
	if !c.Ctrl && !c.Cmd {
		return ""
	}
	name, ok := reservedCombos[c.Key]
	if !ok {
		return ""
	}
	return fmt.Sprintf("this combination matches the system %q shortcut", name)
}
