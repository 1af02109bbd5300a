package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func handleScrape(args []string) {
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	portalKey := fs.String("portal", "", "Portal key to scrape")
	pages := fs.Int("pages", 1, "Number of pages to scrape")
	format := fs.String("format", "table", "Output format: table, json")
	fs.Parse(args)

	if *portalKey == "" {
		fmt.Fprintf(os.Stderr, "Error: --portal is required\n")
		fs.Usage()
		os.Exit(1)
	}
	if *pages < 1 {
		fmt.Fprintf(os.Stderr, "Error: --pages must be at least 1\n")
		os.Exit(1)
	}
	if *format != "table" && *format != "json" {
		fmt.Fprintf(os.Stderr, "Error: --format must be 'table' or 'json'\n")
		os.Exit(1)
	}

	svc, log, closer := openService()
	defer closer.Close()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := svc.RunScrape(ctx, *portalKey, *pages)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: scrape failed: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "json":
		printResultJSON(result)
	default:
		printResultTable(result)
	}
}
