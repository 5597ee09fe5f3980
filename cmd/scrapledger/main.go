package main

import (
	"os"

	"github.com/amcjunkshop/scrapledger/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
