package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"domainforge/internal/interpreter"
	"domainforge/internal/model"
)

// ValidateCommand creates the validate command
func ValidateCommand() *cobra.Command {
	var dslText string

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Parse and validate a domain model definition",
		Long: `Parse a domain model definition, build the typed model and run
semantic validation. Reports every validation problem at once.

Examples:
  # Validate a file
  domainforge validate ecommerce.df

  # Validate inline text
  domainforge validate --dsl '@Shop { #Product { name: String } }'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (dslText == "") {
				return fmt.Errorf("provide either a file argument or --dsl")
			}

			in, err := interpreter.New()
			if err != nil {
				return err
			}

			var m *model.DomainModel
			if len(args) == 1 {
				m, err = in.InterpretFile(args[0])
			} else {
				m, err = in.Interpret(dslText)
			}
			if err != nil {
				return err
			}

			entities := 0
			for _, ctx := range m.BoundedContexts {
				entities += len(ctx.Entities)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %d bounded context(s), %d entity(ies)\n",
				len(m.BoundedContexts), entities)
			return nil
		},
	}

	cmd.Flags().StringVar(&dslText, "dsl", "", "Inline definition text (alternative to a file argument)")

	return cmd
}
