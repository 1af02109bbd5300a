package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pevans/newsportal/config"
	"github.com/pevans/newsportal/logger"
	"github.com/pevans/newsportal/service"
)

// loadConfig loads configuration with precedence:
// 1. Environment variables (highest priority)
// 2. Configuration file (NEWSPORTAL_CONFIG or ~/.newsportal/config.yaml)
// 3. Default values (lowest priority)
func loadConfig() *config.FileConfig {
	path := os.Getenv("NEWSPORTAL_CONFIG")
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		path = defaultPath
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadConfigFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load config file: %v\n", err)
			fmt.Fprintf(os.Stderr, "Continuing with defaults and environment variables...\n\n")
		} else {
			cfg = loaded
		}
	}

	cfg.ApplyEnv()
	return cfg
}

// openService builds the service from configuration, exiting on failure.
// Logs go to stderr so command output stays clean.
func openService() (*service.Service, logger.Logger, io.Closer) {
	cfg := loadConfig()

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create logger: %v\n", err)
		os.Exit(1)
	}

	svc, closer, err := service.FromConfig(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	return svc, log, closer
}
