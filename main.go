package main

import (
	"os"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/cmd"
)

func main() {
	os.Exit(cmd.Run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}
