package main

import (
	"os"

	"stonk-alerts/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
