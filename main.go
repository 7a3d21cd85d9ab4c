package main

import (
	"os"

	"github.com/tutiful/papergen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
