package main

import (
	"os"

	"litscan/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
