package main

import (
	"fmt"
	"os"

	"github.com/example/threat-exposure/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "exposure: %v\n", err)
		os.Exit(1)
	}
}
