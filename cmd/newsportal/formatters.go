package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pevans/newsportal/detect"
	"github.com/pevans/newsportal/scraper"
)

// printResultTable prints scraped articles in human-readable form
func printResultTable(result *scraper.Result) {
	if len(result.Articles) == 0 {
		fmt.Println("No articles found.")
	}

	for i, article := range result.Articles {
		fmt.Printf("%3d. %s\n", i+1, truncate(article.Title, 90))
		fmt.Printf("     %s\n", article.Link)
	}

	if len(result.PageErrors) > 0 {
		fmt.Fprintf(os.Stderr, "\nWarning: %d page(s) could not be fetched:\n", len(result.PageErrors))
		for _, pageErr := range result.PageErrors {
			fmt.Fprintf(os.Stderr, "  page %d: %s\n", pageErr.Page, pageErr.Message)
		}
	}
}

// printResultJSON prints the scrape result as JSON
func printResultJSON(result *scraper.Result) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(data))
}

// printTags prints detected tags, marking undetected ones
func printTags(url string, tags *detect.Tags) {
	fmt.Printf("Detected tags for %s\n", url)
	fmt.Printf("  Article:  %s\n", orNone(tags.Article))
	fmt.Printf("  Title:    %s\n", orNone(tags.Title))
	fmt.Printf("  Link:     %s\n", orNone(tags.Link))
	if tags.Feed != nil {
		fmt.Printf("  Feed:     %s (%s, %q)\n", tags.Feed.URL, tags.Feed.Format, tags.Feed.Title)
	}
	fmt.Println()
	fmt.Println("Review the tags, then save with: newsportal portals save --url ... --article ... --title ... --link ...")
}

func orNone(s *string) string {
	if s == nil {
		return "(none)"
	}
	return *s
}

// truncate shortens s to max characters, adding an ellipsis
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
