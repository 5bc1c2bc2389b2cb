// Package registrar defines the contract for the external collaborator that
// applies OS-level global hotkeys after a successful save. The engine only
// hands over a validated accelerator set; how registration happens is the
// collaborator's business.
package registrar

import (
	"context"
	"fmt"

	"github.com/whisprhq/keybind/internal/binding"
	"github.com/whisprhq/keybind/internal/format"
	"github.com/whisprhq/keybind/internal/log"
	"github.com/whisprhq/keybind/internal/platform"
	"github.com/whisprhq/keybind/internal/pubsub"
)

// RegistrarError wraps a refresh failure. The saved bindings remain logically
// valid even when OS-level re-registration fails; callers surface this as a
// warning and never roll back.
type RegistrarError struct {
	Err error
}

func (e *RegistrarError) Error() string {
	return fmt.Sprintf("hotkey refresh failed: %v", e.Err)
}

func (e *RegistrarError) Unwrap() error {
	return e.Err
}

// Registrar re-applies OS-level global hotkeys from an accelerator set keyed
// by command id. Invoked once after every successful save batch.
type Registrar interface {
	Refresh(ctx context.Context, accelerators map[string]string) error
}

// Accelerators converts every effective binding on the platform into the
// registrar's accelerator form. Commands whose binding cannot be parsed are
// skipped rather than failing the whole batch.
func Accelerators(reg *binding.Registry, p platform.Platform) map[string]string {
	effective := reg.EffectiveBindings(p)
	out := make(map[string]string, len(effective))
	for key, verbose := range effective {
		accel, ok := format.Accelerator(verbose, p == platform.Mac)
		if !ok {
			log.Warn(log.CatRegistrar, "skipping unparseable binding", "command", key, "binding", verbose)
			continue
		}
		out[key] = accel
	}
	return out
}

// LogRegistrar is a no-op registrar that records what would be registered.
// It stands in when no OS hotkey layer is attached (plain CLI runs, tests).
type LogRegistrar struct{}

// Refresh logs the accelerator set.
func (LogRegistrar) Refresh(ctx context.Context, accelerators map[string]string) error {
	for key, accel := range accelerators {
		log.Debug(log.CatRegistrar, "registered shortcut", "command", key, "accelerator", accel)
	}
	log.Info(log.CatRegistrar, "hotkeys refreshed", "count", len(accelerators))
	return nil
}

// Broadcaster publishes each refresh over a pub/sub broker so an attached OS
// hotkey layer can subscribe and re-register out of process.
type Broadcaster struct {
	broker *pubsub.Broker[map[string]string]
}

// NewBroadcaster creates a broadcaster with its own broker.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{broker: pubsub.NewBroker[map[string]string]()}
}

// Broker exposes the refresh broker for subscribers.
func (b *Broadcaster) Broker() *pubsub.Broker[map[string]string] {
	return b.broker
}

// Refresh publishes the accelerator set. Publishing never fails; slow
// subscribers drop events rather than blocking the save path.
func (b *Broadcaster) Refresh(ctx context.Context, accelerators map[string]string) error {
	b.broker.Publish(pubsub.EventRefreshRequested, accelerators)
	return nil
}

// Multi fans a refresh out to several registrars, returning the first error
// after all have been attempted.
type Multi []Registrar

// Refresh calls every registrar with the same accelerator set.
func (m Multi) Refresh(ctx context.Context, accelerators map[string]string) error {
	var firstErr error
	for _, r := range m {
		if err := r.Refresh(ctx, accelerators); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
