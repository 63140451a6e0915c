package main

import (
	"os"

	"github.com/portlink/streetturn/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
