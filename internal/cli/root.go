// Package cli wires the interpreter pipeline into the domainforge command.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"domainforge/internal/lexer"
	"domainforge/internal/transformer"
	"domainforge/internal/validator"
)

// Exit codes distinguish the pipeline stage that rejected the input, so
// scripts can branch without scraping stderr.
const (
	ExitOK         = 0
	ExitUsage      = 1
	ExitSyntax     = 2
	ExitTransform  = 3
	ExitValidation = 4
)

// RootCommand builds the domainforge root command.
func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "domainforge",
		Short:         "Interpret, validate and export domain model definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(ValidateCommand())
	cmd.AddCommand(ExportCommand())
	cmd.AddCommand(GrammarCommand())

	return cmd
}

// ExitCode maps a pipeline error to its exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var syntaxErr *lexer.SyntaxError
	if errors.As(err, &syntaxErr) {
		return ExitSyntax
	}
	var nodeErr *transformer.UnexpectedNodeError
	if errors.As(err, &nodeErr) {
		return ExitTransform
	}
	var validationErr *validator.Error
	if errors.As(err, &validationErr) {
		return ExitValidation
	}
	return ExitUsage
}
