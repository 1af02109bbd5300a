package service

import (
	"fmt"
	"io"

	"github.com/pevans/newsportal/config"
	"github.com/pevans/newsportal/detect"
	"github.com/pevans/newsportal/fetch"
	"github.com/pevans/newsportal/logger"
	"github.com/pevans/newsportal/portal"
	"github.com/pevans/newsportal/scraper"
)

// FromConfig builds a Service and its dependencies from cfg. The returned
// closer releases the store.
func FromConfig(cfg *config.FileConfig, log logger.Logger) (*Service, io.Closer, error) {
	store, err := portal.Open(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open portal store: %w", err)
	}

	client := fetch.NewClient(
		fetch.WithTimeout(cfg.HTTP.Timeout),
		fetch.WithUserAgent(cfg.HTTP.UserAgent),
	)

	probeFeeds := cfg.Detect.ProbeFeeds == nil || *cfg.Detect.ProbeFeeds
	detector := detect.NewDetector(client, log, probeFeeds)
	s := scraper.New(store, client, log)

	return New(store, detector, s, log), closerFor(store), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func closerFor(store portal.Store) io.Closer {
	if c, ok := store.(io.Closer); ok {
		return c
	}
	return nopCloser{}
}
