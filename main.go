package main

import (
	"os"

	"github.com/jcbastosportela/translate-subs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
