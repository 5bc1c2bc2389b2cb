// Package config provides configuration types and defaults for keybind.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/whisprhq/keybind/internal/log"
	"github.com/whisprhq/keybind/internal/platform"
	"github.com/whisprhq/keybind/internal/tracing"
)

// StoreBackendFile persists settings as pretty-printed JSON.
const StoreBackendFile = "file"

// StoreBackendSQLite persists overrides in a SQLite database.
const StoreBackendSQLite = "sqlite"

// StoreConfig selects and locates the settings persistence backend.
type StoreConfig struct {
	// Backend is "file" (default) or "sqlite".
	Backend string `mapstructure:"backend"`

	// Path is the settings file or database path. Empty uses the default
	// under the user config directory.
	Path string `mapstructure:"path"`
}

// UIConfig holds editor interface options.
type UIConfig struct {
	// ShowDescriptions shows the command description line under each row.
	ShowDescriptions bool `mapstructure:"show_descriptions"`

	// ShowCategories groups the command list under category headers.
	ShowCategories bool `mapstructure:"show_categories"`
}

// Config holds all configuration options for keybind.
type Config struct {
	// Platform forces the edited platform column: "mac", "windows", or ""
	// for runtime detection.
	Platform string `mapstructure:"platform"`

	// AutoReload reloads the registry when the settings file changes on disk.
	AutoReload bool `mapstructure:"auto_reload"`

	// ReloadDebounce coalesces bursts of file events into one reload.
	ReloadDebounce time.Duration `mapstructure:"reload_debounce"`

	Store   StoreConfig    `mapstructure:"store"`
	UI      UIConfig       `mapstructure:"ui"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// DefaultSettingsPath returns the default settings file location.
// Returns ~/.config/keybind/settings.json or empty string if home dir
// unavailable.
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "keybind", "settings.json")
}

// DefaultDatabasePath returns the default SQLite database location.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "keybind", "keybind.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "keybind", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Platform:       "",
		AutoReload:     true,
		ReloadDebounce: 500 * time.Millisecond,
		Store: StoreConfig{
			Backend: StoreBackendFile,
			Path:    "",
		},
		UI: UIConfig{
			ShowDescriptions: true,
			ShowCategories:   true,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// Validate checks the configuration for errors. Empty values use defaults.
func (c Config) Validate() error {
	if c.Platform != "" {
		if _, err := platform.Parse(c.Platform); err != nil {
			return fmt.Errorf("platform must be %q or %q, got %q", platform.Mac, platform.Windows, c.Platform)
		}
	}

	switch c.Store.Backend {
	case "", StoreBackendFile, StoreBackendSQLite:
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", StoreBackendFile, StoreBackendSQLite, c.Store.Backend)
	}

	if c.ReloadDebounce < 0 {
		return fmt.Errorf("reload_debounce must not be negative, got %v", c.ReloadDebounce)
	}

	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tc tracing.Config) error {
	if tc.SampleRate < 0.0 || tc.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tc.SampleRate)
	}

	if tc.Exporter != "" {
		switch tc.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tc.Exporter)
		}
	}

	if tc.Enabled {
		if tc.Exporter == "file" && tc.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tc.Exporter == "otlp" && tc.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// SettingsPath resolves the effective settings path for the configured
// backend.
func (c Config) SettingsPath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	if c.Store.Backend == StoreBackendSQLite {
		return DefaultDatabasePath()
	}
	return DefaultSettingsPath()
}

// EditPlatform resolves the platform column to edit, falling back to runtime
// detection when not forced in config.
func (c Config) EditPlatform() platform.Platform {
	if c.Platform != "" {
		if p, err := platform.Parse(c.Platform); err == nil {
			return p
		}
	}
	return platform.Probe()
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Keybind Configuration

# Platform column to edit: "mac" or "windows"
# Leave unset to detect from the running OS
# platform: mac

# Reload the editor when the settings file changes on disk
auto_reload: true

# Coalesce bursts of file events into one reload
# reload_debounce: 500ms

# Settings persistence
store:
  # Backend: "file" (pretty-printed JSON, default) or "sqlite"
  backend: file
  # Path to the settings file or database
  # Default: ~/.config/keybind/settings.json (file)
  #          ~/.config/keybind/keybind.db    (sqlite)
  # path: /path/to/settings.json

# Editor interface
ui:
  show_descriptions: true  # Show command descriptions under each row
  show_categories: true    # Group commands under category headers

# Tracing configuration
# Enables visibility into save and refresh flows
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/keybind/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
