package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pevans/newsportal/config"
	"github.com/pevans/newsportal/detect"
	"github.com/pevans/newsportal/fetch"
	"github.com/pevans/newsportal/logger"
	"github.com/pevans/newsportal/portal"
	"github.com/pevans/newsportal/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: create a service backed by a temporary JSON store
func setupTestService(t *testing.T) (*Service, *portal.FileStore) {
	t.Helper()
	store := portal.NewFileStore(filepath.Join(t.TempDir(), "portal_config.json"))
	client := fetch.NewClient()
	log := logger.NewNop()
	svc := New(store, detect.NewDetector(client, log, false), scraper.New(store, client, log), log)
	return svc, store
}

func newPage(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

// TestSavePortal_DerivesKey verifies the key is the host of the base URL
func TestSavePortal_DerivesKey(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	key, profile, err := svc.SavePortal(ctx, "http://example.org/news", "article", "h2", "a")

	require.NoError(t, err)
	assert.Equal(t, "example.org", key)
	assert.Equal(t, "http://example.org/news", profile.BaseURL)

	portals, err := store.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, portals, "example.org")
	assert.Equal(t, portal.Profile{
		BaseURL:         "http://example.org/news",
		ArticleSelector: "article",
		TitleSelector:   "h2",
		LinkSelector:    "a",
	}, portals["example.org"])
}

// TestSavePortal_NullDocument verifies saving over a null config document
func TestSavePortal_NullDocument(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(store.Path(), []byte("null"), 0o600))

	key, _, err := svc.SavePortal(ctx, "http://example.org/news", "article", "h2", "a")
	require.NoError(t, err)
	assert.Equal(t, "example.org", key)

	portals, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, portals, "example.org")
}

// TestSavePortal_ReplacesSameHost verifies saving the same host overwrites the profile
func TestSavePortal_ReplacesSameHost(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	_, _, err := svc.SavePortal(ctx, "http://example.org/news", "article", "h2", "a")
	require.NoError(t, err)
	_, _, err = svc.SavePortal(ctx, "http://example.org/world", ".story", "h3", "a")
	require.NoError(t, err)

	portals, err := svc.ListPortals(ctx)
	require.NoError(t, err)
	require.Len(t, portals, 1)
	assert.Equal(t, "http://example.org/world", portals["example.org"].BaseURL)
	assert.Equal(t, ".story", portals["example.org"].ArticleSelector)
}

// TestSavePortal_Invalid verifies invalid input is rejected and nothing is stored
func TestSavePortal_Invalid(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	_, _, err := svc.SavePortal(ctx, "example.org/news", "article", "h2", "a")
	assert.ErrorIs(t, err, portal.ErrInvalidBaseURL)

	_, _, err = svc.SavePortal(ctx, "http://example.org", "article[[", "h2", "a")
	assert.ErrorIs(t, err, portal.ErrInvalidSelector)

	portals, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, portals)
}

// TestDeletePortal verifies deletion and the no-op for unknown keys
func TestDeletePortal(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	_, _, err := svc.SavePortal(ctx, "http://example.org/news", "article", "h2", "a")
	require.NoError(t, err)
	_, _, err = svc.SavePortal(ctx, "https://other.example.com", "article", "h2", "a")
	require.NoError(t, err)

	deleted, err := svc.DeletePortal(ctx, "example.org")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeletePortal(ctx, "example.org")
	require.NoError(t, err)
	assert.False(t, deleted, "second delete should be a no-op")

	keys, err := svc.PortalKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"other.example.com"}, keys)
}

// TestGetPortal verifies lookups by key
func TestGetPortal(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	_, _, err := svc.SavePortal(ctx, "http://example.org/news", "article", "h2", "a")
	require.NoError(t, err)

	profile, err := svc.GetPortal(ctx, "example.org")
	require.NoError(t, err)
	assert.Equal(t, "article", profile.ArticleSelector)

	_, err = svc.GetPortal(ctx, "missing")
	assert.ErrorIs(t, err, ErrPortalNotFound)
}

// TestAddPortal_DetectsWithoutSaving verifies detection never persists a profile
func TestAddPortal_DetectsWithoutSaving(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()
	page := newPage(t, http.StatusOK, `<html><body><article><a href="/a">A</a></article></body></html>`)

	tags, err := svc.AddPortal(ctx, page.URL)

	require.NoError(t, err)
	require.NotNil(t, tags)
	assert.Equal(t, "article", *tags.Article)
	assert.Equal(t, "a", *tags.Link)

	portals, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, portals, "detection must not save a profile")
}

// TestAddPortal_FetchFailure verifies fetch failures become nil tags
func TestAddPortal_FetchFailure(t *testing.T) {
	svc, _ := setupTestService(t)
	page := newPage(t, http.StatusForbidden, "nope")

	tags, err := svc.AddPortal(context.Background(), page.URL)

	assert.NoError(t, err)
	assert.Nil(t, tags)
}

// TestAddPortal_InvalidURL verifies malformed base URLs are rejected
func TestAddPortal_InvalidURL(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.AddPortal(context.Background(), "not a url")

	assert.ErrorIs(t, err, portal.ErrInvalidBaseURL)
}

// TestRunScrape verifies scraping a saved portal
func TestRunScrape(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	page := newPage(t, http.StatusOK, `<div class="item"><h2 class="title"><a href="/x">X</a></h2></div>`)

	key, _, err := svc.SavePortal(ctx, page.URL, ".item", ".title a", "a")
	require.NoError(t, err)

	result, err := svc.RunScrape(ctx, key, 1)
	require.NoError(t, err)
	assert.Equal(t, []scraper.Article{{Title: "X", Link: "/x"}}, result.Articles)
}

// TestFromConfig verifies wiring from configuration
func TestFromConfig(t *testing.T) {
	for _, storageType := range []string{"file", "sqlite"} {
		t.Run(storageType, func(t *testing.T) {
			cfg := config.Default()
			cfg.Storage = config.StorageConfig{
				Type: storageType,
				DSN:  filepath.Join(t.TempDir(), "portals"),
			}

			svc, closer, err := FromConfig(cfg, logger.NewNop())
			require.NoError(t, err)
			defer closer.Close()

			key, _, err := svc.SavePortal(context.Background(), "https://example.org", "article", "h2", "a")
			require.NoError(t, err)

			keys, err := svc.PortalKeys(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []string{key}, keys)
		})
	}
}
