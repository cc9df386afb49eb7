package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"domainforge/internal/interpreter"
)

// ExportCommand creates the export command
func ExportCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Interpret a definition and export the model as JSON",
		Long: `Interpret a domain model definition and write the validated model
as a JSON envelope with an export ID, grammar version and timestamp.

Examples:
  # Export to stdout
  domainforge export ecommerce.df

  # Export to a file
  domainforge export ecommerce.df --out model.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := interpreter.New()
			if err != nil {
				return err
			}

			m, err := in.InterpretFile(args[0])
			if err != nil {
				return err
			}

			data, err := in.ExportModel(m)
			if err != nil {
				return err
			}

			if outPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported model to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default stdout)")

	return cmd
}
