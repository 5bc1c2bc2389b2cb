package binding

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/whisprhq/keybind/internal/catalog"
	"github.com/whisprhq/keybind/internal/platform"
)

// === Lookup ===

func TestRegistry_Commands_PreservesCatalogOrder(t *testing.T) {
	reg := NewRegistry()
	cmds := reg.Commands()
	want := catalog.Default()
	require.Len(t, cmds, len(want))
	for i := range want {
		require.Equal(t, want[i].Key, cmds[i].Key)
	}
}

func TestRegistry_Command_UnknownKey(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Command("bogus")
	require.Error(t, err)

	var icErr *InvalidCommandError
	require.ErrorAs(t, err, &icErr)
	require.Equal(t, "bogus", icErr.Key)
}

func TestRegistry_EffectiveBinding_DefaultWithoutOverride(t *testing.T) {
	reg := NewRegistry()
	b, err := reg.EffectiveBinding("screenshot", platform.Mac)
	require.NoError(t, err)
	require.Equal(t, "⌘ + S", b)

	b, err = reg.EffectiveBinding("screenshot", platform.Windows)
	require.NoError(t, err)
	require.Equal(t, "Ctrl + S", b)
}

// === Commit / Reset ===

func TestRegistry_Commit_ShadowsDefault(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Commit("screenshot", platform.Mac, "⌘ + Shift + 5"))

	b, err := reg.EffectiveBinding("screenshot", platform.Mac)
	require.NoError(t, err)
	require.Equal(t, "⌘ + Shift + 5", b)

	// The other platform keeps its default.
	b, err = reg.EffectiveBinding("screenshot", platform.Windows)
	require.NoError(t, err)
	require.Equal(t, "Ctrl + S", b)
}

func TestRegistry_Commit_UnknownCommand(t *testing.T) {
	reg := NewRegistry()
	err := reg.Commit("bogus", platform.Mac, "⌘ + X")
	var icErr *InvalidCommandError
	require.ErrorAs(t, err, &icErr)
}

func TestRegistry_Commit_IsIdempotent(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Commit("screenshot", platform.Mac, "⌘ + Shift + 5"))
	before := reg.Overrides()

	require.NoError(t, reg.Commit("screenshot", platform.Mac, "⌘ + Shift + 5"))
	require.Equal(t, before, reg.Overrides())
}

func TestRegistry_ResetOne_RestoresDefaults(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Commit("screenshot", platform.Mac, "⌘ + Shift + 5"))
	require.NoError(t, reg.Commit("screenshot", platform.Windows, "Ctrl + Shift + 5"))
	require.True(t, reg.HasOverride("screenshot"))

	require.NoError(t, reg.ResetOne("screenshot"))
	require.False(t, reg.HasOverride("screenshot"))

	b, err := reg.EffectiveBinding("screenshot", platform.Mac)
	require.NoError(t, err)
	require.Equal(t, "⌘ + S", b)
}

func TestRegistry_ResetAll(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Commit("screenshot", platform.Mac, "⌘ + Shift + 5"))
	require.NoError(t, reg.Commit("record", platform.Windows, "Ctrl + F9"))

	reg.ResetAll()
	require.Empty(t, reg.Overrides())
	for _, c := range reg.Commands() {
		for _, p := range platform.All() {
			b, err := reg.EffectiveBinding(c.Key, p)
			require.NoError(t, err)
			require.Equal(t, c.Default.For(p), b)
		}
	}
}

// === Override map handling ===

func TestRegistry_Overrides_ReturnsDeepCopy(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Commit("screenshot", platform.Mac, "⌘ + Shift + 5"))

	snap := reg.Overrides()
	snap["screenshot"][platform.Mac] = "mutated"

	b, err := reg.EffectiveBinding("screenshot", platform.Mac)
	require.NoError(t, err)
	require.Equal(t, "⌘ + Shift + 5", b, "mutating the copy must not touch the registry")
}

func TestRegistry_SetOverrides_DropsUnknownCommands(t *testing.T) {
	reg := NewRegistry()
	reg.SetOverrides(map[string]map[platform.Platform]string{
		"screenshot": {platform.Mac: "⌘ + Shift + 5"},
		"removed":    {platform.Mac: "⌘ + X"},
	})

	require.True(t, reg.HasOverride("screenshot"))
	require.False(t, reg.HasOverride("removed"))
}

func TestRegistry_SetOverrides_DropsMalformedEntries(t *testing.T) {
	reg := NewRegistry()
	reg.SetOverrides(map[string]map[platform.Platform]string{
		"screenshot": {
			platform.Platform("linux"): "Ctrl + X",
			platform.Mac:               "",
		},
	})

	require.False(t, reg.HasOverride("screenshot"))
}

func TestNewRegistryFromCatalog_RejectsInvalid(t *testing.T) {
	_, err := NewRegistryFromCatalog([]catalog.Command{
		{Key: "a", Category: "bogus", Default: catalog.PlatformBinding{Mac: "⌘ + A", Windows: "Ctrl + A"}},
	})
	require.Error(t, err)
}

// === Properties ===

// TestProperty_OverridesRoundTrip exercises a random sequence of commits and
// resets and checks the Overrides/SetOverrides round trip lands a second
// registry in the identical state.
func TestProperty_OverridesRoundTrip(t *testing.T) {
	keys := make([]string, 0)
	for _, c := range catalog.Default() {
		keys = append(keys, c.Key)
	}

	rapid.Check(t, func(t *rapid.T) {
		reg := NewRegistry()

		ops := rapid.IntRange(0, 20).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			key := rapid.SampledFrom(keys).Draw(t, "key")
			p := rapid.SampledFrom(platform.All()).Draw(t, "platform")
			if rapid.Bool().Draw(t, "reset") {
				require.NoError(t, reg.ResetOne(key))
				continue
			}
			binding := "Ctrl + " + rapid.StringMatching(`[A-Z0-9]`).Draw(t, "binding")
			require.NoError(t, reg.Commit(key, p, binding))
		}

		other := NewRegistry()
		other.SetOverrides(reg.Overrides())

		for _, key := range keys {
			for _, p := range platform.All() {
				want, err := reg.EffectiveBinding(key, p)
				require.NoError(t, err)
				got, err := other.EffectiveBinding(key, p)
				require.NoError(t, err)
				require.Equal(t, want, got)
			}
		}
	})
}

// TestProperty_DefaultsNeverMutated checks that no commit/reset sequence can
// change a command's catalog default.
func TestProperty_DefaultsNeverMutated(t *testing.T) {
	defaults := catalog.Default()
	keys := make([]string, 0, len(defaults))
	for _, c := range defaults {
		keys = append(keys, c.Key)
	}

	rapid.Check(t, func(t *rapid.T) {
		reg := NewRegistry()
		ops := rapid.IntRange(0, 15).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			key := rapid.SampledFrom(keys).Draw(t, "key")
			p := rapid.SampledFrom(platform.All()).Draw(t, "platform")
			require.NoError(t, reg.Commit(key, p, "Ctrl + Shift + X"))
		}

		for i, c := range reg.Commands() {
			require.Equal(t, defaults[i].Default, c.Default)
		}
	})
}
