package main

import (
	"fmt"
	"os"

	"github.com/alanmeadows/consultant/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}
