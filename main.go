package main

import (
	"os"

	"bot-companion-web/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
