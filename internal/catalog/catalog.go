// Package catalog defines the static command catalog: every action that can
// carry a keyboard shortcut, with its per-platform default binding.
// Commands are created once at startup and never added or removed at runtime.
package catalog

import (
	"fmt"

	"github.com/whisprhq/keybind/internal/platform"
)

// Category groups commands for display purposes only; no logic branches on it.
type Category string

const (
	CategoryCore       Category = "core"
	CategoryNavigation Category = "navigation"
	CategoryMedia      Category = "media"
	CategorySystem     Category = "system"
	CategoryMovement   Category = "movement"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryCore, CategoryNavigation, CategoryMedia, CategorySystem, CategoryMovement:
		return true
	}
	return false
}

// PlatformBinding holds the immutable default binding for each platform.
type PlatformBinding struct {
	Mac     string
	Windows string
}

// For returns the default binding for the given platform.
func (b PlatformBinding) For(p platform.Platform) string {
	if p == platform.Mac {
		return b.Mac
	}
	return b.Windows
}

// Command is a catalog entry: a bindable action with stable identity.
type Command struct {
	Key         string
	Title       string
	Description string
	Category    Category
	Default     PlatformBinding
}

// Default returns the built-in command catalog in display order.
func Default() []Command {
	return []Command{
		{
			Key:         "screenshot",
			Title:       "Screenshot",
			Description: "Capture screenshot to load it in your preferred AI",
			Category:    CategoryCore,
			Default:     PlatformBinding{Mac: "⌘ + S", Windows: "Ctrl + S"},
		},
		{
			Key:         "generate",
			Title:       "Generate Response",
			Description: "Generate AI response from your input",
			Category:    CategoryCore,
			Default:     PlatformBinding{Mac: "⌘ + ↵", Windows: "Ctrl + ↵"},
		},
		{
			Key:         "retry-prompt",
			Title:       "Retry Prompt",
			Description: "Use the shortcut to try again with your Retry Prompt",
			Category:    CategoryCore,
			Default:     PlatformBinding{Mac: "⌘ + T", Windows: "Ctrl + T"},
		},
		{
			Key:         "record",
			Title:       "Record Audio",
			Description: "Enable recording of microphone and system audio",
			Category:    CategoryMedia,
			Default:     PlatformBinding{Mac: "⌘ + R", Windows: "Ctrl + R"},
		},
		{
			Key:         "home",
			Title:       "Go Home",
			Description: "Return to the main dashboard page",
			Category:    CategoryNavigation,
			Default:     PlatformBinding{Mac: "⌘ + B", Windows: "Ctrl + B"},
		},
		{
			Key:         "scroll-up",
			Title:       "Scroll Chat Up",
			Description: "Scroll up in the AI chat window",
			Category:    CategoryMovement,
			Default:     PlatformBinding{Mac: "⌘ + Shift + ↑", Windows: "Ctrl + Shift + ↑"},
		},
		{
			Key:         "scroll-down",
			Title:       "Scroll Chat Down",
			Description: "Scroll down in the AI chat window",
			Category:    CategoryMovement,
			Default:     PlatformBinding{Mac: "⌘ + Shift + ↓", Windows: "Ctrl + Shift + ↓"},
		},
		{
			Key:         "move-up",
			Title:       "Move Window Up",
			Description: "Move the assistant window upward",
			Category:    CategoryMovement,
			Default:     PlatformBinding{Mac: "⌘ + ↑", Windows: "Ctrl + ↑"},
		},
		{
			Key:         "move-down",
			Title:       "Move Window Down",
			Description: "Move the assistant window downward",
			Category:    CategoryMovement,
			Default:     PlatformBinding{Mac: "⌘ + ↓", Windows: "Ctrl + ↓"},
		},
		{
			Key:         "move-left",
			Title:       "Move Window Left",
			Description: "Move the assistant window to the left",
			Category:    CategoryMovement,
			Default:     PlatformBinding{Mac: "⌘ + ←", Windows: "Ctrl + ←"},
		},
		{
			Key:         "move-right",
			Title:       "Move Window Right",
			Description: "Move the assistant window to the right",
			Category:    CategoryMovement,
			Default:     PlatformBinding{Mac: "⌘ + →", Windows: "Ctrl + →"},
		},
		{
			Key:         "hide-show",
			Title:       "Hide/Show Window",
			Description: "Toggle visibility of the assistant window",
			Category:    CategorySystem,
			Default:     PlatformBinding{Mac: "⌘ + H", Windows: "Ctrl + H"},
		},
		{
			Key:         "quit",
			Title:       "Emergency Exit",
			Description: "Instantly close the assistant (kill switch)",
			Category:    CategorySystem,
			Default:     PlatformBinding{Mac: "⌘ + Q", Windows: "Ctrl + W"},
		},
	}
}

// Validate checks catalog-level invariants: unique keys, known categories,
// and a non-empty default binding on both platforms for every command.
func Validate(commands []Command) error {
	seen := make(map[string]struct{}, len(commands))
	for i, c := range commands {
		if c.Key == "" {
			return fmt.Errorf("command %d: key is required", i)
		}
		if _, dup := seen[c.Key]; dup {
			return fmt.Errorf("command %q: duplicate key", c.Key)
		}
		seen[c.Key] = struct{}{}

		if !c.Category.Valid() {
			return fmt.Errorf("command %q: invalid category %q", c.Key, c.Category)
		}
		if c.Default.Mac == "" || c.Default.Windows == "" {
			return fmt.Errorf("command %q: default binding required for both platforms", c.Key)
		}
	}
	return nil
}
