// Package binding holds the in-memory registry mapping commands to their
// default and user-overridden shortcut bindings.
package binding

import (
	"fmt"

	"github.com/whisprhq/keybind/internal/catalog"
	"github.com/whisprhq/keybind/internal/log"
	"github.com/whisprhq/keybind/internal/platform"
)

// Registry owns the command catalog plus the sparse per-platform overrides.
// All operations are synchronous; the registry is exclusively owned by the
// single UI thread and needs no locking.
//
// Commit assumes the caller has already run the conflict gate: uniqueness of
// effective bindings per platform is a precondition, not re-checked here.
// Callers bypassing the capture-session path must re-check themselves.
type Registry struct {
	commands  map[string]catalog.Command
	order     []string
	overrides map[string]map[platform.Platform]string
}

// NewRegistry creates a registry from the built-in catalog.
func NewRegistry() *Registry {
	r, err := NewRegistryFromCatalog(catalog.Default())
	if err != nil {
		// The built-in catalog is validated by tests; a failure here is a bug.
		panic(fmt.Sprintf("built-in catalog invalid: %v", err))
	}
	return r
}

// NewRegistryFromCatalog creates a registry from an explicit command list,
// validating catalog invariants first.
func NewRegistryFromCatalog(commands []catalog.Command) (*Registry, error) {
	if err := catalog.Validate(commands); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}

	r := &Registry{
		commands:  make(map[string]catalog.Command, len(commands)),
		order:     make([]string, 0, len(commands)),
		overrides: make(map[string]map[platform.Platform]string),
	}
	for _, c := range commands {
		r.commands[c.Key] = c
		r.order = append(r.order, c.Key)
	}
	return r, nil
}

// Commands returns the catalog in display order.
func (r *Registry) Commands() []catalog.Command {
	out := make([]catalog.Command, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.commands[key])
	}
	return out
}

// Command looks up a single catalog entry.
func (r *Registry) Command(key string) (catalog.Command, error) {
	c, ok := r.commands[key]
	if !ok {
		return catalog.Command{}, &InvalidCommandError{Key: key}
	}
	return c, nil
}

// EffectiveBinding returns the override for (key, p) if present, else the
// catalog default. It never fails for a known command.
func (r *Registry) EffectiveBinding(key string, p platform.Platform) (string, error) {
	c, ok := r.commands[key]
	if !ok {
		return "", &InvalidCommandError{Key: key}
	}
	if custom, ok := r.overrides[key][p]; ok {
		return custom, nil
	}
	return c.Default.For(p), nil
}

// EffectiveBindings returns every command's effective binding for a platform,
// keyed by command id.
func (r *Registry) EffectiveBindings(p platform.Platform) map[string]string {
	out := make(map[string]string, len(r.order))
	for _, key := range r.order {
		b, _ := r.EffectiveBinding(key, p)
		out[key] = b
	}
	return out
}

// Override returns the user override for (key, p) and whether one exists.
func (r *Registry) Override(key string, p platform.Platform) (string, bool) {
	custom, ok := r.overrides[key][p]
	return custom, ok
}

// HasOverride reports whether any platform override exists for the command.
func (r *Registry) HasOverride(key string) bool {
	return len(r.overrides[key]) > 0
}

// Commit writes or overwrites the override for (key, p).
// Precondition: formatted has passed validation and the conflict gate.
func (r *Registry) Commit(key string, p platform.Platform, formatted string) error {
	if _, ok := r.commands[key]; !ok {
		return &InvalidCommandError{Key: key}
	}
	if r.overrides[key] == nil {
		r.overrides[key] = make(map[platform.Platform]string, 2)
	}
	r.overrides[key][p] = formatted
	log.Debug(log.CatRegistry, "committed override", "command", key, "platform", p, "binding", formatted)
	return nil
}

// ResetOne removes the entire override for a command (both platforms),
// reverting it to catalog defaults.
func (r *Registry) ResetOne(key string) error {
	if _, ok := r.commands[key]; !ok {
		return &InvalidCommandError{Key: key}
	}
	delete(r.overrides, key)
	log.Debug(log.CatRegistry, "reset override", "command", key)
	return nil
}

// ResetAll removes every command's override.
func (r *Registry) ResetAll() {
	r.overrides = make(map[string]map[platform.Platform]string)
	log.Debug(log.CatRegistry, "reset all overrides")
}

// Overrides returns a deep copy of the sparse override map.
func (r *Registry) Overrides() map[string]map[platform.Platform]string {
	out := make(map[string]map[platform.Platform]string, len(r.overrides))
	for key, byPlatform := range r.overrides {
		if len(byPlatform) == 0 {
			continue
		}
		cp := make(map[platform.Platform]string, len(byPlatform))
		for p, v := range byPlatform {
			cp[p] = v
		}
		out[key] = cp
	}
	return out
}

// SetOverrides replaces the override map wholesale, e.g. after loading
// persisted settings. Overrides for unknown commands are dropped with a
// warning rather than failing the load: a stale settings file must not brick
// the editor.
func (r *Registry) SetOverrides(overrides map[string]map[platform.Platform]string) {
	clean := make(map[string]map[platform.Platform]string, len(overrides))
	for key, byPlatform := range overrides {
		if _, ok := r.commands[key]; !ok {
			log.Warn(log.CatRegistry, "dropping override for unknown command", "command", key)
			continue
		}
		cp := make(map[platform.Platform]string, len(byPlatform))
		for p, v := range byPlatform {
			if !p.Valid() || v == "" {
				log.Warn(log.CatRegistry, "dropping malformed override", "command", key, "platform", p)
				continue
			}
			cp[p] = v
		}
		if len(cp) > 0 {
			clean[key] = cp
		}
	}
	r.overrides = clean
}
