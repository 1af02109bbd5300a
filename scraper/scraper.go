// Package scraper extracts article title/link pairs from news portal pages
// and walks a portal's pages in order.
package scraper

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/pevans/newsportal/logger"
	"github.com/pevans/newsportal/portal"
)

// Fetcher is what the Scraper needs from the HTTP layer.
type Fetcher interface {
	FetchDocument(ctx context.Context, url string) (*goquery.Document, error)
}

// PageError records a page that could not be fetched during a run.
type PageError struct {
	Page    int    `json:"page"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

// Result is the outcome of scraping a portal. Articles keep page order, then
// element order within a page.
type Result struct {
	RunID      uuid.UUID   `json:"run_id"`
	Portal     string      `json:"portal"`
	Pages      int         `json:"pages"`
	Articles   []Article   `json:"articles"`
	PageErrors []PageError `json:"page_errors,omitempty"`
}

// Scraper runs scrapes against portals held in a store.
type Scraper struct {
	store   portal.Store
	fetcher Fetcher
	log     logger.Logger
}

// New creates a Scraper.
func New(store portal.Store, fetcher Fetcher, log logger.Logger) *Scraper {
	return &Scraper{
		store:   store,
		fetcher: fetcher,
		log:     log,
	}
}

// ScrapeArticles scrapes pages 1..totalPages of the portal stored under key.
// An unknown key returns an empty result without any request. Pages that
// fail to fetch are recorded in PageErrors and skipped.
func (s *Scraper) ScrapeArticles(ctx context.Context, key string, totalPages int) (*Result, error) {
	result := &Result{
		RunID:    uuid.New(),
		Portal:   key,
		Articles: []Article{},
	}

	portals, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portals: %w", err)
	}

	profile, ok := portals[key]
	if !ok {
		s.log.Info("portal not configured", logger.String("portal", key))
		return result, nil
	}

	log := s.log.With(
		logger.String("run_id", result.RunID.String()),
		logger.String("portal", key),
	)
	sel := SelectorsFor(profile)

	for page := 1; page <= totalPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageURL, err := PageURL(profile.BaseURL, page)
		if err != nil {
			log.Warn("skipping page", logger.Int("page", page), logger.Err(err))
			result.PageErrors = append(result.PageErrors, PageError{Page: page, URL: profile.BaseURL, Message: err.Error()})
			continue
		}

		articles, err := s.ScrapePage(ctx, pageURL, sel)
		if err != nil {
			log.Warn("page fetch failed",
				logger.Int("page", page),
				logger.String("url", pageURL),
				logger.Err(err),
			)
			result.PageErrors = append(result.PageErrors, PageError{Page: page, URL: pageURL, Message: err.Error()})
			continue
		}

		log.Debug("page scraped",
			logger.Int("page", page),
			logger.Int("articles", len(articles)),
		)
		result.Articles = append(result.Articles, articles...)
		result.Pages++
	}

	log.Info("scrape finished",
		logger.Int("pages", result.Pages),
		logger.Int("failed_pages", len(result.PageErrors)),
		logger.Int("articles", len(result.Articles)),
	)

	return result, nil
}
