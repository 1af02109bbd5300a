// Package detect guesses scrape selectors for a news portal from one sample
// page. The guess comes from the first link on the page, so it may not fit
// every article the page lists; users confirm it before it is saved.
package detect

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/pevans/newsportal/logger"
)

// Tags holds the detected tag names. Nil fields were not detected.
// Article and Link come from the page's first link. Title is only a hint,
// set when that link sits inside a heading; callers should not expect it.
type Tags struct {
	Article *string   `json:"article"`
	Title   *string   `json:"title"`
	Link    *string   `json:"link"`
	Feed    *FeedHint `json:"feed,omitempty"`
}

// FeedHint describes a feed the page advertises and that parsed cleanly.
type FeedHint struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Format string `json:"format"` // "rss", "atom" or "json"
}

// Fetcher is what the Detector needs from the HTTP layer.
type Fetcher interface {
	FetchDocument(ctx context.Context, url string) (*goquery.Document, error)
	FetchFeed(ctx context.Context, url string) (*gofeed.Feed, error)
}

// Detector guesses selectors for a page.
type Detector struct {
	fetcher    Fetcher
	log        logger.Logger
	probeFeeds bool
}

// NewDetector creates a Detector. When probeFeeds is set, feeds advertised
// by the page are fetched and reported as a FeedHint.
func NewDetector(fetcher Fetcher, log logger.Logger, probeFeeds bool) *Detector {
	return &Detector{
		fetcher:    fetcher,
		log:        log,
		probeFeeds: probeFeeds,
	}
}

// articleContainers are the parent tags reported as-is; any other parent
// is reported as "div".
var articleContainers = map[string]bool{
	"article": true,
	"div":     true,
	"section": true,
}

const headingSelector = "h1, h2, h3, h4, h5, h6"

// Detect fetches pageURL and guesses its tags. Fetch failures are returned
// as fetch errors. A page without any link yields (nil, nil).
func (d *Detector) Detect(ctx context.Context, pageURL string) (*Tags, error) {
	doc, err := d.fetcher.FetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	tags := FromDocument(doc)
	if tags == nil {
		d.log.Debug("no link found on page", logger.String("url", pageURL))
		return nil, nil
	}

	if d.probeFeeds {
		tags.Feed = d.probeFeed(ctx, doc, pageURL)
	}

	return tags, nil
}

// FromDocument guesses tags from an already parsed page. It returns nil if
// the page has no anchor carrying an href.
func FromDocument(doc *goquery.Document) *Tags {
	anchor := doc.Find("a[href]").First()
	if anchor.Length() == 0 {
		return nil
	}

	tags := &Tags{Link: strPtr("a")}

	article := "div"
	if parent := anchor.Parent(); parent.Length() > 0 {
		if name := goquery.NodeName(parent); articleContainers[name] {
			article = name
		}
	}
	tags.Article = &article

	if heading := anchor.Closest(headingSelector); heading.Length() > 0 {
		tags.Title = strPtr(goquery.NodeName(heading))
	}

	return tags
}

// probeFeed looks for an advertised RSS/Atom/JSON feed and returns a hint if
// it parses. Failures are logged and dropped.
func (d *Detector) probeFeed(ctx context.Context, doc *goquery.Document, pageURL string) *FeedHint {
	href := feedLink(doc)
	if href == "" {
		return nil
	}

	feedURL := resolve(pageURL, href)
	feed, err := d.fetcher.FetchFeed(ctx, feedURL)
	if err != nil {
		d.log.Debug("feed probe failed",
			logger.String("url", pageURL),
			logger.String("feed_url", feedURL),
			logger.Err(err),
		)
		return nil
	}

	return &FeedHint{
		URL:    feedURL,
		Title:  strings.TrimSpace(feed.Title),
		Format: feed.FeedType,
	}
}

var feedTypes = []string{
	"application/rss+xml",
	"application/atom+xml",
	"application/feed+json",
}

// feedLink returns the href of the first <link rel="alternate"> pointing at
// a feed.
func feedLink(doc *goquery.Document) string {
	var href string
	doc.Find(`link[rel~="alternate"][href]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		typ := strings.ToLower(strings.TrimSpace(s.AttrOr("type", "")))
		for _, ft := range feedTypes {
			if typ == ft {
				href = strings.TrimSpace(s.AttrOr("href", ""))
				return false
			}
		}
		return true
	})
	return href
}

// resolve makes href absolute against base, returning href unchanged if
// either fails to parse.
func resolve(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

func strPtr(s string) *string {
	return &s
}
