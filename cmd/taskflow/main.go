// Package main is the entry point for the taskflow CLI.
package main

import (
	"fmt"
	"os"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/app"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	dataDir, err := app.DefaultDataDir()
	if err != nil {
		return err
	}

	container, err := app.New(dataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.Execute()
}
