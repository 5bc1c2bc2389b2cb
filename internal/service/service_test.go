package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/whisprhq/keybind/internal/binding"
	"github.com/whisprhq/keybind/internal/capture"
	"github.com/whisprhq/keybind/internal/platform"
	"github.com/whisprhq/keybind/internal/registrar"
	"github.com/whisprhq/keybind/internal/store"
	"github.com/whisprhq/keybind/internal/validate"
)

// fakeStore is an in-memory store with switchable failure modes.
type fakeStore struct {
	settings store.Settings
	loadErr  error
	saveErr  error
	saves    int
}

func (f *fakeStore) Load() (store.Settings, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.settings, nil
}

func (f *fakeStore) Save(s store.Settings) (bool, error) {
	if f.saveErr != nil {
		return false, f.saveErr
	}
	f.settings = s
	f.saves++
	return true, nil
}

// fakeRegistrar records refreshes and optionally fails.
type fakeRegistrar struct {
	refreshes []map[string]string
	err       error
}

func (f *fakeRegistrar) Refresh(ctx context.Context, accels map[string]string) error {
	f.refreshes = append(f.refreshes, accels)
	return f.err
}

func newTestService(st store.Store, rg registrar.Registrar) *Service {
	return New(binding.NewRegistry(), st, rg, platform.Mac, nil)
}

func cmdShiftF(key string) capture.Combination {
	return capture.Combination{Cmd: true, Shift: true, Key: key}
}

// === Load ===

func TestService_Load_MissingSettingsUsesDefaults(t *testing.T) {
	svc := newTestService(&fakeStore{loadErr: store.ErrNotExist}, &fakeRegistrar{})

	require.NoError(t, svc.Load(context.Background()))
	b, err := svc.Registry().EffectiveBinding("screenshot", platform.Mac)
	require.NoError(t, err)
	require.Equal(t, "⌘ + S", b)
}

func TestService_Load_CorruptSettingsFallsBackAndReports(t *testing.T) {
	svc := newTestService(&fakeStore{loadErr: &store.PersistenceError{Op: "load", Err: errors.New("corrupt")}}, &fakeRegistrar{})

	err := svc.Load(context.Background())
	require.Error(t, err)

	// Registry still usable on defaults.
	b, regErr := svc.Registry().EffectiveBinding("screenshot", platform.Mac)
	require.NoError(t, regErr)
	require.Equal(t, "⌘ + S", b)
}

func TestService_Load_AppliesPersistedOverrides(t *testing.T) {
	st := &fakeStore{}
	svc := newTestService(st, &fakeRegistrar{})

	// Persist through one service, load through a fresh one.
	_, err := svc.SaveBinding(context.Background(), "screenshot", platform.Mac, cmdShiftF("5"))
	require.NoError(t, err)

	other := newTestService(st, &fakeRegistrar{})
	require.NoError(t, other.Load(context.Background()))
	b, err := other.Registry().EffectiveBinding("screenshot", platform.Mac)
	require.NoError(t, err)
	require.Equal(t, "⌘ + Shift + 5", b)
}

// === SaveBinding ===

func TestService_SaveBinding_HappyPath(t *testing.T) {
	st := &fakeStore{}
	rg := &fakeRegistrar{}
	svc := newTestService(st, rg)

	result, err := svc.SaveBinding(context.Background(), "screenshot", platform.Mac, cmdShiftF("5"))
	require.NoError(t, err)
	require.Equal(t, "⌘ + Shift + 5", result.Formatted)
	require.Empty(t, result.Warning)
	require.NoError(t, result.RefreshErr)

	require.Equal(t, 1, st.saves)
	require.Len(t, rg.refreshes, 1)
	require.Equal(t, "Cmd+Shift+5", rg.refreshes[0]["screenshot"])
}

func TestService_SaveBinding_ValidationFailureBlocks(t *testing.T) {
	st := &fakeStore{}
	svc := newTestService(st, &fakeRegistrar{})

	_, err := svc.SaveBinding(context.Background(), "screenshot", platform.Mac, capture.Combination{Shift: true, Key: "S"})
	var verr *validate.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Zero(t, st.saves, "nothing persisted on validation failure")
	require.False(t, svc.Registry().HasOverride("screenshot"))
}

func TestService_SaveBinding_ConflictBlocks(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeRegistrar{})

	// ⌘ + R is the record default on mac.
	_, err := svc.SaveBinding(context.Background(), "screenshot", platform.Mac, capture.Combination{Cmd: true, Key: "R"})
	var verr *validate.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Message, "Record Audio")
}

func TestService_SaveBinding_WarningStillSaves(t *testing.T) {
	st := &fakeStore{}
	svc := newTestService(st, &fakeRegistrar{})

	result, err := svc.SaveBinding(context.Background(), "screenshot", platform.Mac, capture.Combination{Cmd: true, Key: "C"})
	require.NoError(t, err)
	require.Contains(t, result.Warning, "Copy")
	require.Equal(t, 1, st.saves)
}

func TestService_SaveBinding_RegistryUnchangedOnSaveFailure(t *testing.T) {
	st := &fakeStore{saveErr: &store.PersistenceError{Op: "save", Err: errors.New("disk full")}}
	svc := newTestService(st, &fakeRegistrar{})

	_, err := svc.SaveBinding(context.Background(), "screenshot", platform.Mac, cmdShiftF("5"))
	var perr *store.PersistenceError
	require.ErrorAs(t, err, &perr)

	require.False(t, svc.Registry().HasOverride("screenshot"), "failed save must not leave the override in memory")
	b, regErr := svc.Registry().EffectiveBinding("screenshot", platform.Mac)
	require.NoError(t, regErr)
	require.Equal(t, "⌘ + S", b)
}

func TestService_SaveBinding_RefreshFailureIsWarningNotRollback(t *testing.T) {
	st := &fakeStore{}
	rg := &fakeRegistrar{err: errors.New("hotkey layer down")}
	svc := newTestService(st, rg)

	result, err := svc.SaveBinding(context.Background(), "screenshot", platform.Mac, cmdShiftF("5"))
	require.NoError(t, err, "the save itself succeeded")

	var rerr *registrar.RegistrarError
	require.ErrorAs(t, result.RefreshErr, &rerr)
	require.True(t, svc.Registry().HasOverride("screenshot"), "binding stays committed")
	require.Equal(t, 1, st.saves)
}

func TestService_SaveBinding_IdempotentRecommit(t *testing.T) {
	st := &fakeStore{}
	svc := newTestService(st, &fakeRegistrar{})

	for i := 0; i < 2; i++ {
		result, err := svc.SaveBinding(context.Background(), "screenshot", platform.Mac, cmdShiftF("5"))
		require.NoError(t, err, "re-committing the same binding succeeds")
		require.Equal(t, "⌘ + Shift + 5", result.Formatted)
	}
	require.Equal(t, 2, st.saves)
}

func TestService_SaveBinding_UnknownCommand(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeRegistrar{})

	_, err := svc.SaveBinding(context.Background(), "bogus", platform.Mac, cmdShiftF("5"))
	var icErr *binding.InvalidCommandError
	require.ErrorAs(t, err, &icErr)
}

// === Reset ===

func TestService_ResetOne_PersistsAndRefreshes(t *testing.T) {
	st := &fakeStore{}
	rg := &fakeRegistrar{}
	svc := newTestService(st, rg)

	_, err := svc.SaveBinding(context.Background(), "screenshot", platform.Mac, cmdShiftF("5"))
	require.NoError(t, err)

	_, err = svc.ResetOne(context.Background(), "screenshot")
	require.NoError(t, err)
	require.False(t, svc.Registry().HasOverride("screenshot"))
	require.Equal(t, 2, st.saves)
	require.Len(t, rg.refreshes, 2)
	require.Equal(t, "Cmd+S", rg.refreshes[1]["screenshot"], "refresh carries the default again")
}

func TestService_ResetOne_RollsBackOnSaveFailure(t *testing.T) {
	st := &fakeStore{}
	svc := newTestService(st, &fakeRegistrar{})

	_, err := svc.SaveBinding(context.Background(), "screenshot", platform.Mac, cmdShiftF("5"))
	require.NoError(t, err)

	st.saveErr = &store.PersistenceError{Op: "save", Err: errors.New("disk full")}
	_, err = svc.ResetOne(context.Background(), "screenshot")
	require.Error(t, err)
	require.True(t, svc.Registry().HasOverride("screenshot"), "override restored after failed reset")
}

// TestProperty_EffectiveBindingsStayUnique drives random capture outcomes
// through SaveBinding and checks that no two commands ever share an effective
// binding on the same platform, however many saves succeeded or were refused.
func TestProperty_EffectiveBindingsStayUnique(t *testing.T) {
	keyPool := []string{
		"A", "B", "G", "K", "Q", "R", "S", "T", "X",
		"1", "5", "9",
		"↵", "↑", "↓", "←", "→", "Space", "Esc", "F5",
	}

	rapid.Check(t, func(t *rapid.T) {
		svc := newTestService(&fakeStore{}, &fakeRegistrar{})
		commands := svc.Registry().Commands()

		ops := rapid.IntRange(1, 40).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			cmd := rapid.SampledFrom(commands).Draw(t, "command")
			p := rapid.SampledFrom(platform.All()).Draw(t, "platform")
			combo := capture.Combination{
				Ctrl:  rapid.Bool().Draw(t, "ctrl"),
				Cmd:   rapid.Bool().Draw(t, "cmd"),
				Shift: rapid.Bool().Draw(t, "shift"),
				Alt:   rapid.Bool().Draw(t, "alt"),
				Key:   rapid.SampledFrom(keyPool).Draw(t, "key"),
			}

			_, err := svc.SaveBinding(context.Background(), cmd.Key, p, combo)
			if err != nil {
				// Rule failures and conflicts are the only legitimate refusals.
				var verr *validate.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("save of %v for %s on %s: %v", combo, cmd.Key, p, err)
				}
			}
		}

		for _, p := range platform.All() {
			owner := make(map[string]string, len(commands))
			for _, c := range commands {
				b, err := svc.Registry().EffectiveBinding(c.Key, p)
				if err != nil {
					t.Fatalf("effective binding for %s on %s: %v", c.Key, p, err)
				}
				if prev, dup := owner[b]; dup {
					t.Fatalf("binding %q on %s shared by %s and %s", b, p, prev, c.Key)
				}
				owner[b] = c.Key
			}
		}
	})
}

func TestService_ResetAll_ClearsEverything(t *testing.T) {
	st := &fakeStore{}
	svc := newTestService(st, &fakeRegistrar{})

	_, err := svc.SaveBinding(context.Background(), "screenshot", platform.Mac, cmdShiftF("5"))
	require.NoError(t, err)
	_, err = svc.SaveBinding(context.Background(), "record", platform.Windows, capture.Combination{Ctrl: true, Key: "F9"})
	require.NoError(t, err)

	_, err = svc.ResetAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, svc.Registry().Overrides())
}
