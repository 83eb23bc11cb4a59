package main

import (
	"os"

	"github.com/vsariola/pianoear/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
