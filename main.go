package main

import (
	"os"

	"github.com/pioneer-academy/nmotrain/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
