package main

import (
	"fmt"
	"os"

	"salescli/internal/cli/commands"
	"salescli/internal/operations"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if operations.GetErrorType(err) == operations.ErrorTypeCancellation {
			os.Exit(130)
		}
		os.Exit(1)
	}
}
