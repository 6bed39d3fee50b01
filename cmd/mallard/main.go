package main

import (
	"os"

	"github.com/mallardhq/mallard/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
