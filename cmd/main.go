package main

import (
	"os"

	"github.com/tcfw/ccgenesis/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
