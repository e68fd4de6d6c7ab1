// Package main is the entry point for the finance CLI.
package main

import (
	"os"

	"github.com/shunichi-ikebuchi/finance-cli/cmd/finance/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
