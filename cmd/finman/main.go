package main

import (
	"os"

	"github.com/finman-dev/finman/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
