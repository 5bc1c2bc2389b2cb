// Package capture implements the shortcut recording workflow: normalizing raw
// key-press signals and driving the ready → listening → preview session
// state machine.
package capture

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RawKey is a raw key-press signal as delivered by the input layer: a key
// identifier plus the modifier flags held at the moment of the press.
type RawKey struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
	Alt   bool
}

// Combination is the working key combination of a capture session.
// It exists only for the lifetime of one session and is discarded on commit
// or cancel.
type Combination struct {
	Ctrl  bool
	Cmd   bool
	Shift bool
	Alt   bool
	Key   string
}

// IsZero reports whether nothing has been captured yet.
func (c Combination) IsZero() bool {
	return c == Combination{}
}

// HasModifier reports whether any modifier flag is set.
func (c Combination) HasModifier() bool {
	return c.Ctrl || c.Cmd || c.Shift || c.Alt
}

// HasStrongModifier reports whether ctrl, cmd, or alt is set.
// Shift alone does not qualify: a shifted letter is just typing.
func (c Combination) HasStrongModifier() bool {
	return c.Ctrl || c.Cmd || c.Alt
}

// modifierNames are the key identifiers that are swallowed while listening:
// a combination is not captured until a non-modifier key arrives.
var modifierNames = map[string]struct{}{
	"Control": {},
	"Ctrl":    {},
	"Meta":    {},
	"Cmd":     {},
	"Command": {},
	"Shift":   {},
	"Alt":     {},
	"Option":  {},
}

// IsModifierKey reports whether the raw key identifier is a bare modifier.
func IsModifierKey(key string) bool {
	_, ok := modifierNames[key]
	return ok
}

// canonicalNames renames well-known keys to their display glyphs.
var canonicalNames = map[string]string{
	"Enter":      "↵",
	"ArrowUp":    "↑",
	"ArrowDown":  "↓",
	"ArrowLeft":  "←",
	"ArrowRight": "→",
	"Space":      "Space",
	" ":          "Space",
	"Escape":     "Esc",
	"Tab":        "Tab",
}

// CanonicalKey maps a raw key identifier to its canonical name. Single
// printable characters are upper-cased; anything unrecognized passes through
// verbatim so user input is never silently lost - validation happens
// downstream.
func CanonicalKey(key string) string {
	if canonical, ok := canonicalNames[key]; ok {
		return canonical
	}
	if utf8.RuneCountInString(key) == 1 {
		return strings.ToUpper(key)
	}
	return key
}

// IsAlphanumeric reports whether the canonical key is a single letter or
// digit, which triggers the strong-modifier rule.
func IsAlphanumeric(key string) bool {
	if utf8.RuneCountInString(key) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(key)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Freeze normalizes a non-modifier raw key into a finalized Combination,
// capturing the modifier flags held alongside it. The caller must have
// filtered bare modifiers with IsModifierKey first.
func Freeze(raw RawKey) Combination {
	return Combination{
		Ctrl:  raw.Ctrl,
		Cmd:   raw.Meta,
		Shift: raw.Shift,
		Alt:   raw.Alt,
		Key:   CanonicalKey(raw.Key),
	}
}
