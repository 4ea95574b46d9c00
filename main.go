package main

import (
	"os"

	"github.com/spigell/cris/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
