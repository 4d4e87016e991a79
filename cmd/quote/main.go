package main

import (
	"os"

	"property-estimate-service/cmd/quote/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
