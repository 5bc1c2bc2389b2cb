package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/whisprhq/keybind/internal/store"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full settings map",
	Long: `Export the full settings map, including defaults and overrides, as JSON
or YAML.

Examples:
  # Print settings as JSON
  keybind export

  # Write YAML to a file
  keybind export --format yaml -o shortcuts.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		svc, _, cleanup, err := buildService(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := svc.Load(cmd.Context()); err != nil {
			return err
		}

		settings := store.Snapshot(svc.Registry())

		var data []byte
		switch exportFormat {
		case "json":
			data, err = json.MarshalIndent(settings, "", "  ")
			if err == nil {
				data = append(data, '\n')
			}
		case "yaml", "yml":
			data, err = yaml.Marshal(settings)
		default:
			return fmt.Errorf("format must be \"json\" or \"yaml\", got %q", exportFormat)
		}
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}

		if exportOut == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(exportOut, data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", exportOut, err)
		}
		fmt.Printf("exported to %s\n", exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
