// internal/wordpress/pages.go
package wordpress

import (
	"context"
	"net/url"
	"strconv"
)

// ListPages fetches one page of published CMS pages. Failures degrade to an
// empty slice.
func (c *Client) ListPages(ctx context.Context, perPage, page int) []Page {
	q := embedQuery(listQuery(perPage, page))
	var raws []rawPage
	if err := c.getJSON(ctx, "pages", q, liveTTL, &raws); err != nil {
		c.logger.Printf("Error fetching pages: %v", err)
		return []Page{}
	}
	pages := make([]Page, 0, len(raws))
	for _, raw := range raws {
		pages = append(pages, normalizePage(raw))
	}
	return pages
}

// ListPagesWithDetails fetches all published pages with embedded author and
// featured media resolved.
func (c *Client) ListPagesWithDetails(ctx context.Context) []PageDetails {
	q := url.Values{}
	q.Set("status", "publish")
	q = embedQuery(q)
	var raws []rawPage
	if err := c.getJSON(ctx, "pages", q, liveTTL, &raws); err != nil {
		c.logger.Printf("Error fetching pages with details: %v", err)
		return []PageDetails{}
	}
	pages := make([]PageDetails, 0, len(raws))
	for _, raw := range raws {
		pages = append(pages, normalizePageDetails(raw))
	}
	return pages
}

// GetPageBySlug fetches the page with the exact slug, or nil when absent or
// on failure.
func (c *Client) GetPageBySlug(ctx context.Context, slug string) *PageDetails {
	q := url.Values{}
	q.Set("slug", slug)
	q.Set("status", "publish")
	q = embedQuery(q)
	var raws []rawPage
	if err := c.getJSON(ctx, "pages", q, liveTTL, &raws); err != nil {
		c.logger.Printf("Error fetching page with slug %q: %v", slug, err)
		return nil
	}
	if len(raws) == 0 {
		return nil
	}
	page := normalizePageDetails(raws[0])
	return &page
}

// ListPageSlugs enumerates published page slugs for static generation,
// capped at one page of 100.
func (c *Client) ListPageSlugs(ctx context.Context) []string {
	q := url.Values{}
	q.Set("status", "publish")
	q.Set("per_page", strconv.Itoa(slugPageSize))
	var raws []rawPage
	if err := c.getJSON(ctx, "pages", q, staticTTL, &raws); err != nil {
		c.logger.Printf("Error fetching page slugs: %v", err)
		return []string{}
	}
	slugs := make([]string, 0, len(raws))
	for _, raw := range raws {
		slugs = append(slugs, raw.Slug)
	}
	return slugs
}
