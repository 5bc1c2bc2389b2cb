package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every command with its effective binding",
	Long: `List every command with its effective shortcut binding.

Overridden bindings are marked with *.

Examples:
  # List bindings for the detected platform
  keybind list

  # List the windows column explicitly
  keybind list --platform windows`,
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
			fmt.Fprintf(os.Stderr, "warning: %v (showing defaults)\n", err)
		}

		p := svc.ActivePlatform()
		reg := svc.Registry()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "COMMAND\tTITLE\tCATEGORY\t%s\n", p)
		for _, c := range reg.Commands() {
			b, _ := reg.EffectiveBinding(c.Key, p)
			mark := ""
			if _, custom := reg.Override(c.Key, p); custom {
				mark = " *"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s%s\n", c.Key, c.Title, c.Category, b, mark)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
