package main

import (
	"os"

	"github.com/dalemusser/studyvault/internal/app/cli"
)

func main() {
	if err := cli.New().Execute(); err != nil {
		os.Exit(1)
	}
}
