package main

import (
	"os"

	"senderkey/cmd/senderkey/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
