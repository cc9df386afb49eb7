package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"domainforge/internal/config"
	"domainforge/internal/interpreter"
)

// GrammarCommand creates the grammar command
func GrammarCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "grammar",
		Short: "Show the active grammar vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := interpreter.New()
			if err != nil {
				return err
			}

			g := in.Grammar()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Grammar version: %s\n", g.Version())
			fmt.Fprintf(out, "UI components:   %d\n", g.Components())
			if config.IsDialectMode() {
				fmt.Fprintf(out, "Dialect file:    %s\n", config.GetInterpreterConfig().GrammarPath)
			} else {
				fmt.Fprintln(out, "Dialect file:    (built-in)")
			}
			return nil
		},
	}
}
