package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/whisprhq/keybind/internal/binding"
	"github.com/whisprhq/keybind/internal/platform"
)

func TestSnapshot_DefaultsOnly(t *testing.T) {
	reg := binding.NewRegistry()
	s := Snapshot(reg)

	require.Len(t, s, len(reg.Commands()))
	entry := s["screenshot"]
	require.Equal(t, "screenshot", entry.Key)
	require.Equal(t, "Screenshot", entry.Title)
	require.Equal(t, "⌘ + S", entry.DefaultShortcut.Mac)
	require.Equal(t, "Ctrl + S", entry.DefaultShortcut.Windows)
	require.Nil(t, entry.CustomShortcut, "no override means no custom block")
}

func TestSnapshot_SparseOverrides(t *testing.T) {
	reg := binding.NewRegistry()
	require.NoError(t, reg.Commit("screenshot", platform.Mac, "⌘ + Shift + 5"))

	s := Snapshot(reg)
	entry := s["screenshot"]
	require.NotNil(t, entry.CustomShortcut)
	require.Equal(t, "⌘ + Shift + 5", entry.CustomShortcut.Mac)
	require.Empty(t, entry.CustomShortcut.Windows, "uncustomized platform stays empty")

	require.Nil(t, s["record"].CustomShortcut)
}

func TestOverrides_ExtractsSparseMap(t *testing.T) {
	s := Settings{
		"screenshot": {
			Key:            "screenshot",
			CustomShortcut: &CustomShortcut{Mac: "⌘ + Shift + 5"},
		},
		"record": {
			Key: "record",
		},
		"generate": {
			Key:            "generate",
			CustomShortcut: &CustomShortcut{},
		},
	}

	got := Overrides(s)
	require.Len(t, got, 1)
	require.Equal(t, "⌘ + Shift + 5", got["screenshot"][platform.Mac])
}

func TestSnapshotOverrides_RoundTrip(t *testing.T) {
	reg := binding.NewRegistry()
	require.NoError(t, reg.Commit("screenshot", platform.Mac, "⌘ + Shift + 5"))
	require.NoError(t, reg.Commit("quit", platform.Windows, "Ctrl + Alt + Q"))

	other := binding.NewRegistry()
	other.SetOverrides(Overrides(Snapshot(reg)))

	require.Equal(t, reg.Overrides(), other.Overrides())
}
