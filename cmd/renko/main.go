package main

import (
	"os"

	"github.com/rustyeddy/renko/cmd/renko/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
