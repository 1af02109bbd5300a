// Package portal holds news portal scrape profiles and the stores that
// persist them.
package portal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
)

var (
	ErrInvalidBaseURL  = errors.New("base_url must be an absolute http or https URL")
	ErrInvalidSelector = errors.New("invalid CSS selector")
)

// Profile describes how to scrape one news portal.
type Profile struct {
	BaseURL         string `json:"base_url"`
	ArticleSelector string `json:"article_selector"`
	TitleSelector   string `json:"title_selector"`
	LinkSelector    string `json:"link_selector"`
}

// Portals maps portal keys to their profiles.
type Portals map[string]Profile

// Key derives the portal key for baseURL: its host, port included.
func Key(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", ErrInvalidBaseURL
	}
	return u.Host, nil
}

// Key returns the portal key of the profile's base URL.
func (p Profile) Key() (string, error) {
	return Key(p.BaseURL)
}

// Validate checks that the base URL yields a key and that every selector
// is non-empty and compiles.
func (p Profile) Validate() error {
	if _, err := p.Key(); err != nil {
		return err
	}

	fields := []struct {
		name, selector string
	}{
		{"article_selector", p.ArticleSelector},
		{"title_selector", p.TitleSelector},
		{"link_selector", p.LinkSelector},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.selector) == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidSelector, f.name)
		}
		if _, err := cascadia.Compile(f.selector); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSelector, f.name, err)
		}
	}

	return nil
}
