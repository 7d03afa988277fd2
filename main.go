package main

import (
	"os"

	"github.com/pawfocus/pawfocus/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
