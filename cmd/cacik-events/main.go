package main

import (
	"fmt"
	"os"

	"github.com/denizgursoy/cacik-events/internal/app"
)

// Version information, injected at build time.
var Version = "dev"

func main() {
	rootCmd := app.NewRootCmd()
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
