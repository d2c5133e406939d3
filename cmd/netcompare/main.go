package main

import (
	"os"

	"github.com/MrSnakeDoc/netcompare/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
