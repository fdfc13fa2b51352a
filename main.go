package main

import (
	"os"

	"github.com/conneroisu/docket/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
