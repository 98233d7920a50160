package main

import (
	"os"

	"github.com/Sacxy/codegraph/cmd/codegraph"
)

func main() {
	if err := codegraph.Execute(); err != nil {
		os.Exit(1)
	}
}
