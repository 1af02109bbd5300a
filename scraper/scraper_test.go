package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pevans/newsportal/fetch"
	"github.com/pevans/newsportal/logger"
	"github.com/pevans/newsportal/portal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// portalSite serves one .item per page and counts requests. Pages listed in
// failing answer 503.
type portalSite struct {
	*httptest.Server
	mu       sync.Mutex
	requests []string
}

func newPortalSite(t *testing.T, failing ...string) *portalSite {
	t.Helper()
	site := &portalSite{}
	site.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		site.mu.Lock()
		site.requests = append(site.requests, page)
		site.mu.Unlock()

		for _, f := range failing {
			if f == page {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		fmt.Fprintf(w, `<html><body>
			<div class="item"><h2 class="title"><a href="/news/%[1]s">Story on page %[1]s</a></h2></div>
			</body></html>`, page)
	}))
	t.Cleanup(site.Close)
	return site
}

func (s *portalSite) pagesRequested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func newTestScraper(t *testing.T, portals portal.Portals) *Scraper {
	t.Helper()
	store := portal.NewFileStore(filepath.Join(t.TempDir(), "portal_config.json"))
	require.NoError(t, store.Save(context.Background(), portals))
	return New(store, fetch.NewClient(), logger.NewNop())
}

func profileFor(baseURL string) portal.Profile {
	return portal.Profile{
		BaseURL:         baseURL,
		ArticleSelector: ".item",
		TitleSelector:   ".title a",
		LinkSelector:    "a",
	}
}

// TestScrapeArticles_TwoPages verifies one article per page across two pages
func TestScrapeArticles_TwoPages(t *testing.T) {
	site := newPortalSite(t)
	s := newTestScraper(t, portal.Portals{"news.example.com": profileFor(site.URL)})

	result, err := s.ScrapeArticles(context.Background(), "news.example.com", 2)

	require.NoError(t, err)
	require.Len(t, result.Articles, 2)
	assert.Equal(t, Article{Title: "Story on page 1", Link: "/news/1"}, result.Articles[0])
	assert.Equal(t, Article{Title: "Story on page 2", Link: "/news/2"}, result.Articles[1])
	assert.Equal(t, 2, result.Pages)
	assert.Empty(t, result.PageErrors)
	assert.Equal(t, "news.example.com", result.Portal)
	assert.NotEqual(t, uuid.Nil, result.RunID)
	assert.Equal(t, []string{"1", "2"}, site.pagesRequested(), "pages should be fetched in order")
}

// TestScrapeArticles_UnknownPortal verifies no requests are made for unknown keys
func TestScrapeArticles_UnknownPortal(t *testing.T) {
	site := newPortalSite(t)
	s := newTestScraper(t, portal.Portals{"news.example.com": profileFor(site.URL)})

	result, err := s.ScrapeArticles(context.Background(), "missing.example.com", 3)

	require.NoError(t, err)
	assert.NotNil(t, result.Articles)
	assert.Empty(t, result.Articles)
	assert.Empty(t, site.pagesRequested(), "no HTTP request should be made")
}

// TestScrapeArticles_FailedPageContinues verifies a failed page is skipped
func TestScrapeArticles_FailedPageContinues(t *testing.T) {
	site := newPortalSite(t, "2")
	s := newTestScraper(t, portal.Portals{"news.example.com": profileFor(site.URL)})

	result, err := s.ScrapeArticles(context.Background(), "news.example.com", 3)

	require.NoError(t, err)
	require.Len(t, result.Articles, 2)
	assert.Equal(t, "/news/1", result.Articles[0].Link)
	assert.Equal(t, "/news/3", result.Articles[1].Link)
	assert.Equal(t, 2, result.Pages)
	require.Len(t, result.PageErrors, 1)
	assert.Equal(t, 2, result.PageErrors[0].Page)
	assert.Contains(t, result.PageErrors[0].URL, "page=2")
	assert.Equal(t, []string{"1", "2", "3"}, site.pagesRequested())
}

// TestScrapeArticles_NoCrossPageDedup verifies identical links on different pages are kept
func TestScrapeArticles_NoCrossPageDedup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<div class="item"><h2 class="title"><a href="/pinned">Pinned</a></h2></div>`))
	}))
	defer server.Close()
	s := newTestScraper(t, portal.Portals{"pinned": profileFor(server.URL)})

	result, err := s.ScrapeArticles(context.Background(), "pinned", 3)

	require.NoError(t, err)
	assert.Len(t, result.Articles, 3)
}

// TestScrapeArticles_ZeroPages verifies nothing is fetched for zero pages
func TestScrapeArticles_ZeroPages(t *testing.T) {
	site := newPortalSite(t)
	s := newTestScraper(t, portal.Portals{"news.example.com": profileFor(site.URL)})

	result, err := s.ScrapeArticles(context.Background(), "news.example.com", 0)

	require.NoError(t, err)
	assert.Empty(t, result.Articles)
	assert.Empty(t, site.pagesRequested())
}

// TestScrapeArticles_LoadError verifies store failures are returned
func TestScrapeArticles_LoadError(t *testing.T) {
	s := New(failingStore{}, fetch.NewClient(), logger.NewNop())

	result, err := s.ScrapeArticles(context.Background(), "news.example.com", 1)

	assert.Nil(t, result)
	assert.ErrorContains(t, err, "failed to load portals")
}

// TestScrapeArticles_Cancelled verifies a cancelled context stops the run
func TestScrapeArticles_Cancelled(t *testing.T) {
	site := newPortalSite(t)
	s := newTestScraper(t, portal.Portals{"news.example.com": profileFor(site.URL)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ScrapeArticles(ctx, "news.example.com", 2)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, site.pagesRequested())
}

type failingStore struct{}

func (failingStore) Load(context.Context) (portal.Portals, error) {
	return nil, fmt.Errorf("disk on fire")
}

func (failingStore) Save(context.Context, portal.Portals) error {
	return fmt.Errorf("disk on fire")
}
