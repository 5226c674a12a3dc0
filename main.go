package main

import (
	"Folio/internal/cli"
	"fmt"
	"os"
)

func main() {
	if err := cli.NewRootCommand(InitializeServer).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
