package main

import (
	"os"

	"github.com/sandeepkv93/plannerd/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
