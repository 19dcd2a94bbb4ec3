package main

import (
	"os"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
