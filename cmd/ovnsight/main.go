package main

import (
	"os"

	"github.com/ovnsight/ovnsight/cmd/ovnsight/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
