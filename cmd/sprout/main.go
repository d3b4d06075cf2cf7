package main

import (
	"os"

	"github.com/go-drift/sprout/cmd/sprout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
