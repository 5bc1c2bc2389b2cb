// Package store persists the shortcut settings map and defines the adapter
// contract the engine consumes.
package store

import (
	"errors"
	"fmt"

	"github.com/whisprhq/keybind/internal/binding"
	"github.com/whisprhq/keybind/internal/platform"
)

// ErrNotExist is returned by Load when no settings have been persisted yet.
// Callers fall back to catalog defaults; this is not a failure.
var ErrNotExist = errors.New("settings not persisted yet")

// PersistenceError wraps a save/load failure from the underlying medium.
// Recovery is local: the in-memory registry stays unchanged on save failure,
// and load failures fall back to catalog defaults.
type PersistenceError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("settings %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// PlatformShortcut is the default binding pair as persisted.
type PlatformShortcut struct {
	Mac     string `json:"mac" yaml:"mac"`
	Windows string `json:"windows" yaml:"windows"`
}

// CustomShortcut is the sparse override pair. A platform's field is empty
// when that platform is not customized; the whole struct is omitted when no
// platform remains overridden.
type CustomShortcut struct {
	Mac     string `json:"mac,omitempty" yaml:"mac,omitempty"`
	Windows string `json:"windows,omitempty" yaml:"windows,omitempty"`
}

// Entry is one command's persisted record.
type Entry struct {
	Key             string           `json:"key" yaml:"key"`
	Title           string           `json:"title" yaml:"title"`
	Description     string           `json:"description" yaml:"description"`
	Category        string           `json:"category" yaml:"category"`
	DefaultShortcut PlatformShortcut `json:"defaultShortcut" yaml:"defaultShortcut"`
	CustomShortcut  *CustomShortcut  `json:"customShortcut,omitempty" yaml:"customShortcut,omitempty"`
}

// Settings is the persisted shape, keyed by command id.
type Settings map[string]Entry

// Store is the persistence adapter contract. Save returns whether the write
// was accepted and durable, not merely that no error surfaced.
type Store interface {
	Load() (Settings, error)
	Save(Settings) (bool, error)
}

// Snapshot serializes the registry's current state into the persisted shape.
func Snapshot(reg *binding.Registry) Settings {
	s := make(Settings)
	for _, cmd := range reg.Commands() {
		entry := Entry{
			Key:         cmd.Key,
			Title:       cmd.Title,
			Description: cmd.Description,
			Category:    string(cmd.Category),
			DefaultShortcut: PlatformShortcut{
				Mac:     cmd.Default.Mac,
				Windows: cmd.Default.Windows,
			},
		}

		mac, hasMac := reg.Override(cmd.Key, platform.Mac)
		win, hasWin := reg.Override(cmd.Key, platform.Windows)
		if hasMac || hasWin {
			entry.CustomShortcut = &CustomShortcut{Mac: mac, Windows: win}
		}

		s[cmd.Key] = entry
	}
	return s
}

// Overrides extracts the sparse override map from loaded settings. Persisted
// defaults and titles are ignored: the static catalog is authoritative for
// everything except the user's customizations.
func Overrides(s Settings) map[string]map[platform.Platform]string {
	out := make(map[string]map[platform.Platform]string)
	for key, entry := range s {
		if entry.CustomShortcut == nil {
			continue
		}
		byPlatform := make(map[platform.Platform]string, 2)
		if entry.CustomShortcut.Mac != "" {
			byPlatform[platform.Mac] = entry.CustomShortcut.Mac
		}
		if entry.CustomShortcut.Windows != "" {
			byPlatform[platform.Windows] = entry.CustomShortcut.Windows
		}
		if len(byPlatform) > 0 {
			out[key] = byPlatform
		}
	}
	return out
}
