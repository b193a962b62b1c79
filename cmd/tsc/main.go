package main

import (
	"fmt"
	"os"

	"timesheet/internal/cli"
	"timesheet/internal/config"
	"timesheet/internal/logging"
)

func main() {
	// Load configuration: defaults, then environment overrides
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Create repository from configuration
	repo, err := config.CreateRepository(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating repository: %v\n", err)
		os.Exit(1)
	}
	defer repo.Close()
	logging.Debugln("using database", cfg.GetDatabasePath())

	// Create app with injected dependencies
	app := cli.NewApp(repo, cfg)

	root := cli.NewRootCommand(app, cfg)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
