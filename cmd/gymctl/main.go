// Package main is the entry point for the gymctl binary.
package main

import (
	"os"

	"gymledger/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
