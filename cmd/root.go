package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/whisprhq/keybind/internal/binding"
	"github.com/whisprhq/keybind/internal/capture"
	"github.com/whisprhq/keybind/internal/config"
	"github.com/whisprhq/keybind/internal/log"
	"github.com/whisprhq/keybind/internal/registrar"
	"github.com/whisprhq/keybind/internal/service"
	"github.com/whisprhq/keybind/internal/store"
	"github.com/whisprhq/keybind/internal/store/sqlite"
	"github.com/whisprhq/keybind/internal/tracing"
	"github.com/whisprhq/keybind/internal/ui/editor"
	"github.com/whisprhq/keybind/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "keybind",
	Short:   "A terminal editor for keyboard shortcut bindings",
	Long:    `An interactive terminal editor for recording, validating, and persisting per-platform keyboard shortcut bindings.`,
	Version: version,
	RunE:    runEditor,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/keybind/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug logging to ~/.config/keybind/debug.log")
	rootCmd.PersistentFlags().String("platform", "",
		"platform column to edit: mac or windows (default: detect)")
	rootCmd.PersistentFlags().String("store", "",
		"settings backend: file or sqlite")
	rootCmd.PersistentFlags().String("path", "",
		"settings file or database path")
	rootCmd.Flags().Bool("no-auto-reload", false,
		"disable reloading when the settings file changes")

	_ = viper.BindPFlag("platform", rootCmd.PersistentFlags().Lookup("platform"))
	_ = viper.BindPFlag("store.backend", rootCmd.PersistentFlags().Lookup("store"))
	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("path"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("reload_debounce", defaults.ReloadDebounce)
	viper.SetDefault("store.backend", defaults.Store.Backend)
	viper.SetDefault("ui.show_descriptions", defaults.UI.ShowDescriptions)
	viper.SetDefault("ui.show_categories", defaults.UI.ShowCategories)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		viper.AddConfigPath(filepath.Join(home, ".config", "keybind"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create a commented default
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			home, homeErr := os.UserHomeDir()
			if homeErr == nil {
				defaultPath := filepath.Join(home, ".config", "keybind", "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// initLogging sets up the debug log when requested via flag or env.
// Returns a cleanup function.
func initLogging() func() {
	if !debug && os.Getenv("KEYBIND_DEBUG") == "" {
		return func() {}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return func() {}
	}
	logPath := filepath.Join(home, ".config", "keybind", "debug.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return func() {}
	}

	cleanup, err := log.InitWithTeaLog(logPath, "keybind")
	if err != nil {
		return func() {}
	}
	return cleanup
}

// buildStore constructs the configured persistence backend.
// The returned cleanup closes backend resources.
func buildStore(cfg config.Config, reg *binding.Registry) (store.Store, func(), error) {
	if cfg.Store.Backend == config.StoreBackendSQLite {
		db, err := sqlite.NewDB(cfg.SettingsPath())
		if err != nil {
			return nil, nil, fmt.Errorf("opening settings database: %w", err)
		}
		return sqlite.NewStore(db, reg.Commands()), func() { _ = db.Close() }, nil
	}
	return store.NewFileStore(cfg.SettingsPath()), func() {}, nil
}

// buildService wires registry, store, registrar, and tracing into a service.
// Used by the editor and by the headless subcommands.
func buildService(cfg config.Config) (*service.Service, *tracing.Provider, func(), error) {
	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("configuring tracing: %w", err)
	}

	reg := binding.NewRegistry()
	st, closeStore, err := buildStore(cfg, reg)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, nil, nil, err
	}

	svc := service.New(reg, st, registrar.Multi{
		registrar.LogRegistrar{},
		registrar.NewBroadcaster(),
	}, cfg.EditPlatform(), provider.Tracer())

	cleanup := func() {
		closeStore()
		_ = provider.Shutdown(context.Background())
	}
	return svc, provider, cleanup, nil
}

func runEditor(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logCleanup := initLogging()
	defer logCleanup()

	if noReload, _ := cmd.Flags().GetBool("no-auto-reload"); noReload {
		cfg.AutoReload = false
	}

	svc, _, cleanup, err := buildService(cfg)
	defer func() {
		if cleanup != nil {
			cleanup()
		}
	}()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := svc.Load(ctx); err != nil {
		// Defaults are already in place; the editor surfaces the failure.
		log.ErrorErr(log.CatStore, "initial settings load failed", err)
	}

	controller := capture.NewController()
	defer controller.Close()

	model := editor.New(svc, controller, editor.Options{
		ShowDescriptions: cfg.UI.ShowDescriptions,
		ShowCategories:   cfg.UI.ShowCategories,
	})

	// Nil when debug logging is off; the ctrl+l tail is a debug affordance.
	if listener := log.NewListener(ctx); listener != nil {
		model = model.WithLogTail(listener)
	}

	var w *watcher.Watcher
	if cfg.AutoReload && cfg.Store.Backend != config.StoreBackendSQLite {
		wcfg := watcher.DefaultConfig(cfg.SettingsPath())
		if cfg.ReloadDebounce > 0 {
			wcfg.DebounceDur = cfg.ReloadDebounce
		}
		w, err = watcher.New(wcfg)
		if err != nil {
			log.ErrorErr(log.CatWatcher, "watcher unavailable", err)
		} else {
			ch, startErr := w.Start()
			if startErr != nil {
				log.ErrorErr(log.CatWatcher, "watcher start failed", startErr)
			} else {
				model = model.WithReload(ch)
			}
		}
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()

	if w != nil {
		if closeErr := w.Stop(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
