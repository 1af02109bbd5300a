package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func handlePortalsCommand(action string, args []string) {
	switch action {
	case "list":
		handlePortalsList(args)
	case "show":
		handlePortalsShow(args)
	case "detect":
		handlePortalsDetect(args)
	case "save":
		handlePortalsSave(args)
	case "delete":
		handlePortalsDelete(args)
	case "help", "--help", "-h":
		printPortalsUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown portals command: %s\n\n", action)
		printPortalsUsage()
		os.Exit(1)
	}
}

func printPortalsUsage() {
	fmt.Println("newsportal portals -- Manage portal scrape profiles")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  newsportal portals <action> [arguments]")
	fmt.Println()
	fmt.Println("Actions:")
	fmt.Println("  list       List all portals")
	fmt.Println("  show       Show one portal's selectors")
	fmt.Println("  detect     Suggest selectors for a URL (nothing is saved)")
	fmt.Println("  save       Save a portal profile")
	fmt.Println("  delete     Delete a portal")
	fmt.Println("  help       Show this help message")
}

func handlePortalsList(args []string) {
	fs := flag.NewFlagSet("portals list", flag.ExitOnError)
	fs.Parse(args)

	svc, log, closer := openService()
	defer closer.Close()
	defer log.Sync()

	ctx := context.Background()
	keys, err := svc.PortalKeys(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list portals: %v\n", err)
		os.Exit(1)
	}

	if len(keys) == 0 {
		fmt.Println("No portals configured.")
		return
	}

	portals, err := svc.ListPortals(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list portals: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-30s %s\n", "KEY", "BASE URL")
	fmt.Println("--------------------------------------------------------------------------------")
	for _, key := range keys {
		fmt.Printf("%-30s %s\n", truncate(key, 30), portals[key].BaseURL)
	}
}

func handlePortalsShow(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: portal key is required\n")
		fmt.Fprintf(os.Stderr, "Usage: newsportal portals show <key>\n")
		os.Exit(1)
	}

	svc, log, closer := openService()
	defer closer.Close()
	defer log.Sync()

	profile, err := svc.GetPortal(context.Background(), args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to get portal: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Key:               %s\n", args[0])
	fmt.Printf("Base URL:          %s\n", profile.BaseURL)
	fmt.Printf("Article Selector:  %s\n", profile.ArticleSelector)
	fmt.Printf("Title Selector:    %s\n", profile.TitleSelector)
	fmt.Printf("Link Selector:     %s\n", profile.LinkSelector)
}

func handlePortalsDetect(args []string) {
	fs := flag.NewFlagSet("portals detect", flag.ExitOnError)
	url := fs.String("url", "", "Page URL to inspect")
	fs.Parse(args)

	if *url == "" {
		fmt.Fprintf(os.Stderr, "Error: --url is required\n")
		fs.Usage()
		os.Exit(1)
	}

	svc, log, closer := openService()
	defer closer.Close()
	defer log.Sync()

	tags, err := svc.AddPortal(context.Background(), *url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if tags == nil {
		fmt.Println("No selectors detected.")
		return
	}

	printTags(*url, tags)
}

func handlePortalsSave(args []string) {
	fs := flag.NewFlagSet("portals save", flag.ExitOnError)
	url := fs.String("url", "", "Portal base URL")
	article := fs.String("article", "", "Article container selector")
	title := fs.String("title", "", "Title selector (within an article)")
	link := fs.String("link", "a", "Link selector (within a title)")
	fs.Parse(args)

	if *url == "" || *article == "" || *title == "" || *link == "" {
		fmt.Fprintf(os.Stderr, "Error: --url, --article, --title and --link are required\n")
		fs.Usage()
		os.Exit(1)
	}

	svc, log, closer := openService()
	defer closer.Close()
	defer log.Sync()

	key, profile, err := svc.SavePortal(context.Background(), *url, *article, *title, *link)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save portal: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Saved portal: %s\n", key)
	fmt.Printf("  Base URL: %s\n", profile.BaseURL)
	fmt.Printf("  Selectors: %s / %s / %s\n", profile.ArticleSelector, profile.TitleSelector, profile.LinkSelector)
}

func handlePortalsDelete(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: portal key is required\n")
		fmt.Fprintf(os.Stderr, "Usage: newsportal portals delete <key>\n")
		os.Exit(1)
	}

	svc, log, closer := openService()
	defer closer.Close()
	defer log.Sync()

	deleted, err := svc.DeletePortal(context.Background(), args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to delete portal: %v\n", err)
		os.Exit(1)
	}

	if !deleted {
		fmt.Printf("Portal %s is not configured; nothing to delete.\n", args[0])
		return
	}
	fmt.Printf("✓ Deleted portal: %s\n", args[0])
}
