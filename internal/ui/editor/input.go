package editor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/whisprhq/keybind/internal/capture"
)

// keyNames maps Bubble Tea key tokens to the raw key identifiers the capture
// layer normalizes.
var keyNames = map[string]string{
	"enter": "Enter",
	"up":    "ArrowUp",
	"down":  "ArrowDown",
	"left":  "ArrowLeft",
	"right": "ArrowRight",
	"space": "Space",
	" ":     "Space",
	"esc":   "Escape",
	"tab":   "Tab",
}

// RawFromKeyMsg converts a Bubble Tea key message into a raw key signal for
// the capture session.
//
// Terminals deliver ctrl, alt, and shift but cannot deliver the platform
// command key; recording a ⌘ combination requires the desktop input layer.
// Shift on a letter arrives as the uppercase rune, so a single uppercase rune
// is decoded as shift plus the letter.
func RawFromKeyMsg(msg tea.KeyMsg) (capture.RawKey, bool) {
	var raw capture.RawKey

	tokens := strings.Split(msg.String(), "+")
	if len(tokens) == 0 {
		return raw, false
	}

	for _, mod := range tokens[:len(tokens)-1] {
		switch mod {
		case "ctrl":
			raw.Ctrl = true
		case "alt":
			raw.Alt = true
		case "shift":
			raw.Shift = true
		}
	}

	key := tokens[len(tokens)-1]
	if name, ok := keyNames[key]; ok {
		raw.Key = name
		return raw, true
	}

	if utf8.RuneCountInString(key) == 1 {
		r, _ := utf8.DecodeRuneInString(key)
		if unicode.IsUpper(r) {
			raw.Shift = true
		}
		raw.Key = key
		return raw, true
	}

	// Function keys and anything else pass through verbatim; validation
	// downstream decides whether they are acceptable.
	raw.Key = key
	return raw, true
}
