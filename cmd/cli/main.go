// Package main is the entry point for the chinook CLI binary.
package main

import (
	"os"

	cli "chinook-demo/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
