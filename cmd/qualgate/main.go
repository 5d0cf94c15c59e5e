package main

import (
	"os"

	"github.com/qualgate/qualgate/internal/qualgate/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
