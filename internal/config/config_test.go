package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/whisprhq/keybind/internal/platform"
	"github.com/whisprhq/keybind/internal/tracing"
)

func TestDefaults_AreValid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestValidate_RejectsUnknownPlatform(t *testing.T) {
	cfg := Defaults()
	cfg.Platform = "linux"
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "platform")
}

func TestValidate_RejectsUnknownBackend(t *testing.T) {
	cfg := Defaults()
	cfg.Store.Backend = "postgres"
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "store.backend")
}

func TestValidate_RejectsNegativeDebounce(t *testing.T) {
	cfg := Defaults()
	cfg.ReloadDebounce = -1
	require.Error(t, cfg.Validate())
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     tracing.Config
		wantErr bool
	}{
		{"defaults", tracing.DefaultConfig(), false},
		{"bad sample rate", tracing.Config{SampleRate: 1.5}, true},
		{"bad exporter", tracing.Config{Exporter: "kafka", SampleRate: 1.0}, true},
		{"file without path", tracing.Config{Enabled: true, Exporter: "file", SampleRate: 1.0}, true},
		{"otlp without endpoint", tracing.Config{Enabled: true, Exporter: "otlp", SampleRate: 1.0}, true},
		{"file with path", tracing.Config{Enabled: true, Exporter: "file", FilePath: "/tmp/t.jsonl", SampleRate: 1.0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestEditPlatform_ForcedOverridesProbe(t *testing.T) {
	cfg := Defaults()
	cfg.Platform = "windows"
	require.Equal(t, platform.Windows, cfg.EditPlatform())

	cfg.Platform = "mac"
	require.Equal(t, platform.Mac, cfg.EditPlatform())
}

func TestEditPlatform_DetectsWhenUnset(t *testing.T) {
	cfg := Defaults()
	require.True(t, cfg.EditPlatform().Valid())
}

func TestSettingsPath_BackendDefaults(t *testing.T) {
	cfg := Defaults()
	require.Equal(t, DefaultSettingsPath(), cfg.SettingsPath())

	cfg.Store.Backend = StoreBackendSQLite
	require.Equal(t, DefaultDatabasePath(), cfg.SettingsPath())

	cfg.Store.Path = "/custom/settings.json"
	require.Equal(t, "/custom/settings.json", cfg.SettingsPath())
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))
	require.FileExists(t, path)
}
