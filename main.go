package main

import (
	"fmt"
	"os"

	"domainforge/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	cmd := cli.RootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}
