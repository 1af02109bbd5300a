package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Article is one title/link pair found on a portal page.
type Article struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Extract pulls articles from doc. Elements without a title or a linked
// href are skipped, and a link already seen earlier in doc is dropped. The
// result is never nil.
func Extract(doc *goquery.Document, sel Selectors) []Article {
	articles := []Article{}
	seen := make(map[string]bool)

	doc.Find(sel.Article).Each(func(_ int, item *goquery.Selection) {
		title := item.Find(sel.Title).First()
		if title.Length() == 0 {
			return
		}

		link := title
		if !title.Is(sel.Link) {
			link = title.Find(sel.Link).First()
		}
		href, ok := link.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" || seen[href] {
			return
		}

		seen[href] = true
		articles = append(articles, Article{
			Title: strings.Join(strings.Fields(title.Text()), " "),
			Link:  href,
		})
	})

	return articles
}

// ScrapePage fetches pageURL and extracts its articles. A failed fetch
// returns nil and the fetch error; a page with no matching articles returns
// an empty slice.
func (s *Scraper) ScrapePage(ctx context.Context, pageURL string, sel Selectors) ([]Article, error) {
	doc, err := s.fetcher.FetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return Extract(doc, sel), nil
}

// PageURL returns baseURL with its page query parameter set to page. Other
// query parameters are kept.
func PageURL(baseURL string, page int) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	return u.String(), nil
}
