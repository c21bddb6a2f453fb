// Package main provides the amdb CLI application.
// amdb manages the lifecycle of the AlbumMap dataset.
package main

import (
	"os"
)

func main() {
	rootCmd := getRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
