package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetAll bool

var resetCmd = &cobra.Command{
	Use:   "reset [command]",
	Short: "Reset a command's shortcut to its default",
	Long: `Reset a command's shortcut override, reverting it to the catalog default
on both platforms.

Examples:
  # Reset one command
  keybind reset screenshot

  # Reset every command
  keybind reset --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if !resetAll && len(args) == 0 {
			return fmt.Errorf("name a command to reset, or pass --all")
		}
		if resetAll && len(args) > 0 {
			return fmt.Errorf("--all does not take a command argument")
		}

		svc, _, cleanup, err := buildService(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := svc.Load(cmd.Context()); err != nil {
			return err
		}

		if resetAll {
			if _, err := svc.ResetAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("all shortcuts reset to defaults")
			return nil
		}

		key := args[0]
		if !svc.Registry().HasOverride(key) {
			if _, err := svc.Registry().Command(key); err != nil {
				return err
			}
			fmt.Printf("%s already uses the default\n", key)
			return nil
		}
		if _, err := svc.ResetOne(cmd.Context(), key); err != nil {
			return err
		}
		fmt.Printf("%s reset to default\n", key)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetAll, "all", false, "reset every command")
	rootCmd.AddCommand(resetCmd)
}
