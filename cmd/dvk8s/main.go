// Package main is the entry point for the dvk8s CLI.
package main

import (
	"os"

	"github.com/stacklok/dvk8s/cmd/dvk8s/app"
	"github.com/stacklok/dvk8s/pkg/logger"
)

func main() {
	// Initialize the logger
	logger.Initialize()

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
