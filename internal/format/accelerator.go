package format

import "strings"

// Accelerator converts a stored display string like "⌘ + Shift + ↑" into the
// accelerator form the OS registrar understands, e.g. "Cmd+Shift+Up".
// The cmd token maps to Cmd on mac and Ctrl elsewhere. Unrecognized
// multi-character tokens are capitalized and passed through so exotic key
// names still register. Returns false for an empty or all-whitespace input;
// such entries are skipped at registration time.
func Accelerator(verbose string, isMac bool) (string, bool) {
	if verbose == "" {
		return "", false
	}

	var parts []string
	for _, raw := range strings.Split(verbose, "+") {
		part := strings.TrimSpace(raw)
		if part == "" {
			continue
		}
		parts = append(parts, acceleratorToken(part, isMac))
	}

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "+"), true
}

func acceleratorToken(part string, isMac bool) string {
	switch strings.ToLower(part) {
	case "⌘", "cmd", "command":
		if isMac {
			return "Cmd"
		}
		return "Ctrl"
	case "ctrl", "control":
		return "Ctrl"
	case "shift":
		return "Shift"
	case "alt", "⌥", "option":
		return "Alt"
	case "↑", "up":
		return "Up"
	case "↓", "down":
		return "Down"
	case "←", "left":
		return "Left"
	case "→", "right":
		return "Right"
	case "↵", "enter", "return":
		return "Enter"
	case "esc", "escape":
		return "Escape"
	case "space":
		return "Space"
	case "tab":
		return "Tab"
	}

	if len([]rune(part)) == 1 {
		return strings.ToUpper(part)
	}
	// Capitalize multi-character key names: "pageup" -> "Pageup"
	runes := []rune(part)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
