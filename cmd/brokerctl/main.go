package main

import (
	"os"

	"github.com/remoteforge/scenebridge/internal/brokerctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
