package main

import (
	"os"

	"github.com/northbuild/necbquery/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
