package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/romangod6/catalog-sitemap/internal/models"
	"github.com/romangod6/catalog-sitemap/internal/sitemap"
)

// maxSitemapBytes bounds a downloaded sitemap; the protocol caps files at
// 50MiB uncompressed.
const maxSitemapBytes = 50 << 20

// FetchSitemap downloads and parses the sitemap at url.
func FetchSitemap(ctx context.Context, client *http.Client, url string) (*models.URLSet, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sitemap: %s returned %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSitemapBytes))
	if err != nil {
		return nil, fmt.Errorf("read sitemap: %w", err)
	}
	return sitemap.Unmarshal(body)
}

// ReadSitemapFile parses a sitemap stored on disk.
func ReadSitemapFile(path string) (*models.URLSet, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return sitemap.Unmarshal(body)
}
