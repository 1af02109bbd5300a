package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	args, err := extractConfigFlag(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Args = append(os.Args[:1], args...)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	subcommand := os.Args[1]

	switch subcommand {
	case "portals":
		if len(os.Args) < 3 {
			printPortalsUsage()
			os.Exit(1)
		}
		handlePortalsCommand(os.Args[2], os.Args[3:])
	case "scrape":
		handleScrape(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("newsportal - News portal scraper")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  newsportal [--config <path>] <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  portals    Manage portal scrape profiles")
	fmt.Println("  scrape     Scrape articles from a portal")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  NEWSPORTAL_CONFIG        Path to config file (default: ~/.newsportal/config.yaml)")
	fmt.Println("  NEWSPORTAL_STORAGE_TYPE  Portal store type: file or sqlite (default: file)")
	fmt.Println("  NEWSPORTAL_STORAGE_DSN   Portal store path (default: portal_config.json)")
	fmt.Println("  NEWSPORTAL_LOG_LEVEL     Log level (default: info)")
}

// extractConfigFlag removes a leading --config option and exports it as
// NEWSPORTAL_CONFIG so that loadConfig picks it up.
func extractConfigFlag(args []string) ([]string, error) {
	if len(args) == 0 {
		return args, nil
	}

	switch {
	case args[0] == "--config" || args[0] == "-config":
		if len(args) < 2 {
			return nil, fmt.Errorf("--config requires a path")
		}
		if err := os.Setenv("NEWSPORTAL_CONFIG", args[1]); err != nil {
			return nil, fmt.Errorf("failed to set config path: %w", err)
		}
		return args[2:], nil
	case strings.HasPrefix(args[0], "--config="):
		if err := os.Setenv("NEWSPORTAL_CONFIG", strings.TrimPrefix(args[0], "--config=")); err != nil {
			return nil, fmt.Errorf("failed to set config path: %w", err)
		}
		return args[1:], nil
	}

	return args, nil
}
