package main

import (
	"os"

	"labreg/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
