package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/whisprhq/keybind/internal/binding"
	"github.com/whisprhq/keybind/internal/platform"
)

func TestFileStore_Load_MissingFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "settings.json"))
	_, err := fs.Load()
	require.ErrorIs(t, err, ErrNotExist)
}

func TestFileStore_Load_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	fs := NewFileStore(path)
	_, err := fs.Load()
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotExist)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "load", perr.Op)
}

func TestFileStore_SaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	fs := NewFileStore(path)

	reg := binding.NewRegistry()
	require.NoError(t, reg.Commit("screenshot", platform.Mac, "⌘ + Shift + 5"))

	ok, err := fs.Save(Snapshot(reg))
	require.NoError(t, err)
	require.True(t, ok)

	loaded, err := fs.Load()
	require.NoError(t, err)
	require.Equal(t, "⌘ + Shift + 5", loaded["screenshot"].CustomShortcut.Mac)
	require.Equal(t, "⌘ + S", loaded["screenshot"].DefaultShortcut.Mac)
}

func TestFileStore_Save_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "settings.json")
	fs := NewFileStore(path)

	ok, err := fs.Save(Snapshot(binding.NewRegistry()))
	require.NoError(t, err)
	require.True(t, ok)
	require.FileExists(t, path)
}

func TestFileStore_Save_PrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	fs := NewFileStore(path)

	_, err := fs.Save(Snapshot(binding.NewRegistry()))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "\n"), "file ends with newline")
	require.Contains(t, string(data), "\n  \"screenshot\"", "two-space indentation")

	// Still parseable as the settings shape.
	var s Settings
	require.NoError(t, json.Unmarshal(data, &s))
}

func TestFileStore_Save_LeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(filepath.Join(dir, "settings.json"))

	_, err := fs.Save(Snapshot(binding.NewRegistry()))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "only the settings file remains")
}

func TestFileStore_Save_FailsOnUnwritableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	fs := NewFileStore(filepath.Join(dir, "settings.json"))
	ok, err := fs.Save(Snapshot(binding.NewRegistry()))
	require.False(t, ok)

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "save", perr.Op)
}
