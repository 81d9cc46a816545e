package main

import (
	"github.com/sw33tLie/moviescope/cmd"
)

func main() {
	cmd.Execute()
}
