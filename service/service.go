// Package service exposes the portal operations used by the API and CLI:
// detect, save, delete, list and scrape.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/pevans/newsportal/detect"
	"github.com/pevans/newsportal/fetch"
	"github.com/pevans/newsportal/logger"
	"github.com/pevans/newsportal/portal"
	"github.com/pevans/newsportal/scraper"
)

var ErrPortalNotFound = errors.New("portal not found")

// Service ties the portal store to detection and scraping.
type Service struct {
	store    portal.Store
	detector *detect.Detector
	scraper  *scraper.Scraper
	log      logger.Logger
}

// New creates a Service.
func New(store portal.Store, detector *detect.Detector, s *scraper.Scraper, log logger.Logger) *Service {
	return &Service{
		store:    store,
		detector: detector,
		scraper:  s,
		log:      log,
	}
}

// AddPortal suggests tags for baseURL. Nothing is saved. Fetch failures are
// logged and reported as nil tags, the same as a page with no links.
func (s *Service) AddPortal(ctx context.Context, baseURL string) (*detect.Tags, error) {
	if _, err := portal.Key(baseURL); err != nil {
		return nil, err
	}

	tags, err := s.detector.Detect(ctx, baseURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.log.Warn("tag detection failed",
			logger.String("url", baseURL),
			logger.String("reason", failureKind(err)),
			logger.Err(err),
		)
		return nil, nil
	}

	return tags, nil
}

// SavePortal stores a profile under the host of baseURL, replacing any
// profile already stored for that host.
func (s *Service) SavePortal(ctx context.Context, baseURL, articleSelector, titleSelector, linkSelector string) (string, portal.Profile, error) {
	profile := portal.Profile{
		BaseURL:         baseURL,
		ArticleSelector: articleSelector,
		TitleSelector:   titleSelector,
		LinkSelector:    linkSelector,
	}
	if err := profile.Validate(); err != nil {
		return "", portal.Profile{}, err
	}

	key, err := profile.Key()
	if err != nil {
		return "", portal.Profile{}, err
	}

	portals, err := s.store.Load(ctx)
	if err != nil {
		return "", portal.Profile{}, fmt.Errorf("failed to load portals: %w", err)
	}

	portals[key] = profile
	if err := s.store.Save(ctx, portals); err != nil {
		return "", portal.Profile{}, fmt.Errorf("failed to save portals: %w", err)
	}

	s.log.Info("portal saved", logger.String("portal", key), logger.String("base_url", baseURL))
	return key, profile, nil
}

// DeletePortal removes the portal stored under key. It reports whether the
// portal existed; deleting an unknown key changes nothing.
func (s *Service) DeletePortal(ctx context.Context, key string) (bool, error) {
	portals, err := s.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load portals: %w", err)
	}

	if _, ok := portals[key]; !ok {
		return false, nil
	}

	delete(portals, key)
	if err := s.store.Save(ctx, portals); err != nil {
		return false, fmt.Errorf("failed to save portals: %w", err)
	}

	s.log.Info("portal deleted", logger.String("portal", key))
	return true, nil
}

// ListPortals returns every stored portal.
func (s *Service) ListPortals(ctx context.Context) (portal.Portals, error) {
	portals, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portals: %w", err)
	}
	return portals, nil
}

// PortalKeys returns the stored portal keys in sorted order.
func (s *Service) PortalKeys(ctx context.Context) ([]string, error) {
	portals, err := s.ListPortals(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(portals))
	for key := range portals {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// GetPortal returns the profile stored under key.
func (s *Service) GetPortal(ctx context.Context, key string) (portal.Profile, error) {
	portals, err := s.ListPortals(ctx)
	if err != nil {
		return portal.Profile{}, err
	}

	profile, ok := portals[key]
	if !ok {
		return portal.Profile{}, ErrPortalNotFound
	}
	return profile, nil
}

// RunScrape scrapes totalPages pages of the portal stored under key.
func (s *Service) RunScrape(ctx context.Context, key string, totalPages int) (*scraper.Result, error) {
	return s.scraper.ScrapeArticles(ctx, key, totalPages)
}

// failureKind names the class of a detection failure for logging.
func failureKind(err error) string {
	var statusErr *fetch.StatusError
	var netErr *fetch.NetworkError
	var parseErr *fetch.ParseError

	switch {
	case errors.As(err, &statusErr):
		return "status"
	case errors.As(err, &netErr):
		return "network"
	case errors.As(err, &parseErr):
		return "parse"
	default:
		return "unknown"
	}
}
