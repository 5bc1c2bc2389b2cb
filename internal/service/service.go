// Package service wires the binding registry to the persistence adapter and
// the OS hotkey registrar, implementing the save/reset flows of the shortcut
// editor.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/whisprhq/keybind/internal/binding"
	"github.com/whisprhq/keybind/internal/capture"
	"github.com/whisprhq/keybind/internal/format"
	"github.com/whisprhq/keybind/internal/log"
	"github.com/whisprhq/keybind/internal/platform"
	"github.com/whisprhq/keybind/internal/registrar"
	"github.com/whisprhq/keybind/internal/store"
	"github.com/whisprhq/keybind/internal/validate"
)

// ErrSaveInFlight is returned when a save is requested while a previous save
// is still outstanding. The capture session itself is not blocked; only
// re-submission of the save is.
var ErrSaveInFlight = errors.New("a save is already in flight")

// SaveResult reports the outcome of a successful save.
type SaveResult struct {
	// Formatted is the stored binding string.
	Formatted string
	// Warning is the non-blocking OS-shortcut collision note, if any.
	Warning string
	// RefreshErr is a registrar failure after the save landed. The saved
	// binding remains valid; surface this as a warning, never roll back.
	RefreshErr error
}

// Service owns the end-to-end save/reset flows. All methods are synchronous;
// the single-flight guard only protects against re-submission while a save's
// I/O is outstanding.
type Service struct {
	registry  *binding.Registry
	store     store.Store
	registrar registrar.Registrar
	// active is the platform this process registers OS hotkeys for.
	// Edits may target either platform column; refresh applies active only.
	active platform.Platform
	tracer trace.Tracer
	saving atomic.Bool
}

// New creates a service. A nil tracer disables tracing.
func New(reg *binding.Registry, st store.Store, rg registrar.Registrar, active platform.Platform, tracer trace.Tracer) *Service {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	return &Service{
		registry:  reg,
		store:     st,
		registrar: rg,
		active:    active,
		tracer:    tracer,
	}
}

// Registry exposes the underlying registry for read paths.
func (s *Service) Registry() *binding.Registry {
	return s.registry
}

// ActivePlatform returns the platform this process registers hotkeys for.
func (s *Service) ActivePlatform() platform.Platform {
	return s.active
}

// Load pulls persisted settings into the registry. A missing settings file is
// not an error: the registry stays on catalog defaults. A corrupt or
// unreadable file also falls back to defaults, but the error is returned so
// the caller can surface a transient, retryable message.
func (s *Service) Load(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "settings.load")
	defer span.End()

	settings, err := s.store.Load()
	if errors.Is(err, store.ErrNotExist) {
		log.Info(log.CatStore, "no persisted settings, using catalog defaults")
		s.registry.SetOverrides(nil)
		return nil
	}
	if err != nil {
		log.ErrorErr(log.CatStore, "loading settings failed, using catalog defaults", err)
		s.registry.SetOverrides(nil)
		return fmt.Errorf("loading settings: %w", err)
	}

	overrides := store.Overrides(settings)
	s.registry.SetOverrides(overrides)
	span.SetAttributes(attribute.Int("overrides", len(overrides)))
	log.Info(log.CatStore, "settings loaded", "overrides", len(overrides))
	return nil
}

// SaveBinding validates and commits a captured combination for one command
// and platform, persists the result, and asks the registrar to refresh.
//
// The returned error is a *validate.ValidationError for rule or conflict
// failures, ErrSaveInFlight when re-submitted during an outstanding save, or
// a *store.PersistenceError when the write failed (in which case the
// in-memory registry is left unchanged).
func (s *Service) SaveBinding(ctx context.Context, commandKey string, p platform.Platform, combo capture.Combination) (SaveResult, error) {
	ctx, span := s.tracer.Start(ctx, "binding.save", trace.WithAttributes(
		attribute.String("command", commandKey),
		attribute.String("platform", p.String()),
	))
	defer span.End()

	result := validate.Check(combo, p)
	if result.Err != nil {
		return SaveResult{}, result.Err
	}

	formatted := format.Format(combo, p)
	if verr := validate.Conflict(s.registry, commandKey, formatted, p); verr != nil {
		return SaveResult{}, verr
	}

	if !s.saving.CompareAndSwap(false, true) {
		return SaveResult{}, ErrSaveInFlight
	}
	defer s.saving.Store(false)

	// Commit, persist, and roll the registry back if the write does not land.
	prev := s.registry.Overrides()
	if err := s.registry.Commit(commandKey, p, formatted); err != nil {
		return SaveResult{}, err
	}
	if err := s.persist(ctx); err != nil {
		s.registry.SetOverrides(prev)
		return SaveResult{}, err
	}

	log.Info(log.CatRegistry, "binding saved", "command", commandKey, "platform", p, "binding", formatted)

	return SaveResult{
		Formatted:  formatted,
		Warning:    result.Warning,
		RefreshErr: s.refresh(ctx),
	}, nil
}

// ResetOne removes a command's override on both platforms, persists, and
// refreshes. Unknown commands fail with *binding.InvalidCommandError.
func (s *Service) ResetOne(ctx context.Context, commandKey string) (SaveResult, error) {
	ctx, span := s.tracer.Start(ctx, "binding.reset", trace.WithAttributes(
		attribute.String("command", commandKey),
	))
	defer span.End()

	if !s.saving.CompareAndSwap(false, true) {
		return SaveResult{}, ErrSaveInFlight
	}
	defer s.saving.Store(false)

	prev := s.registry.Overrides()
	if err := s.registry.ResetOne(commandKey); err != nil {
		return SaveResult{}, err
	}
	if err := s.persist(ctx); err != nil {
		s.registry.SetOverrides(prev)
		return SaveResult{}, err
	}

	log.Info(log.CatRegistry, "binding reset", "command", commandKey)

	return SaveResult{RefreshErr: s.refresh(ctx)}, nil
}

// ResetAll removes every override, persists, and refreshes.
func (s *Service) ResetAll(ctx context.Context) (SaveResult, error) {
	ctx, span := s.tracer.Start(ctx, "binding.reset-all")
	defer span.End()

	if !s.saving.CompareAndSwap(false, true) {
		return SaveResult{}, ErrSaveInFlight
	}
	defer s.saving.Store(false)

	prev := s.registry.Overrides()
	s.registry.ResetAll()
	if err := s.persist(ctx); err != nil {
		s.registry.SetOverrides(prev)
		return SaveResult{}, err
	}

	log.Info(log.CatRegistry, "all bindings reset")

	return SaveResult{RefreshErr: s.refresh(ctx)}, nil
}

func (s *Service) persist(ctx context.Context) error {
	_, span := s.tracer.Start(ctx, "settings.save")
	defer span.End()

	ok, err := s.store.Save(store.Snapshot(s.registry))
	if err != nil {
		return err
	}
	if !ok {
		return &store.PersistenceError{Op: "save", Err: errors.New("store rejected the write")}
	}
	return nil
}

// refresh asks the registrar to re-apply hotkeys for the active platform.
// Failures are wrapped as *registrar.RegistrarError and returned for the
// caller to show as a warning; the save has already landed.
func (s *Service) refresh(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "registrar.refresh")
	defer span.End()

	accels := registrar.Accelerators(s.registry, s.active)
	if err := s.registrar.Refresh(ctx, accels); err != nil {
		wrapped := &registrar.RegistrarError{Err: err}
		log.ErrorErr(log.CatRegistrar, "refresh failed after save", err)
		return wrapped
	}
	return nil
}
