package main

import (
	"os"

	"domainsearch/cmd/domainsearch/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
