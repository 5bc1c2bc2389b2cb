package binding

import "fmt"

// InvalidCommandError indicates a commit or reset was requested against an
// unknown command id. This is a programmer error: fatal to the calling
// operation, but it never corrupts registry state.
type InvalidCommandError struct {
	Key string
}

func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("shortcut command %q not found", e.Key)
}
