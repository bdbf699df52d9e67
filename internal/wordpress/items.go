// internal/wordpress/items.go
// Custom post type operations. The resource path is supplied by the caller
// (the REST base of the type, e.g. "news-release"), and unknown top-level
// fields on each item are collected into its custom-fields bag.
package wordpress

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// ListItems fetches one page of published items of the given type. Failures
// degrade to an empty slice, as do items that fail to decode.
func (c *Client) ListItems(ctx context.Context, typeSlug string, perPage, page int) []Item {
	q := embedQuery(listQuery(perPage, page))
	var raws []json.RawMessage
	if err := c.getJSON(ctx, typeSlug, q, liveTTL, &raws); err != nil {
		c.logger.Printf("Error fetching %s items: %v", typeSlug, err)
		return []Item{}
	}
	items := make([]Item, 0, len(raws))
	for _, raw := range raws {
		item, err := normalizeItemBytes(raw)
		if err != nil {
			c.logger.Printf("Error decoding %s item: %v", typeSlug, err)
			continue
		}
		items = append(items, item)
	}
	return items
}

// ListItemsWithDetails fetches all published items of the given type with
// embedded relations resolved.
func (c *Client) ListItemsWithDetails(ctx context.Context, typeSlug string) []ItemDetails {
	q := url.Values{}
	q.Set("status", "publish")
	q = embedQuery(q)
	var raws []json.RawMessage
	if err := c.getJSON(ctx, typeSlug, q, liveTTL, &raws); err != nil {
		c.logger.Printf("Error fetching %s items with details: %v", typeSlug, err)
		return []ItemDetails{}
	}
	items := make([]ItemDetails, 0, len(raws))
	for _, raw := range raws {
		item, err := normalizeItemDetailsBytes(raw)
		if err != nil {
			c.logger.Printf("Error decoding %s item: %v", typeSlug, err)
			continue
		}
		items = append(items, item)
	}
	return items
}

// GetItemBySlug fetches the item of the given type with the exact slug, or
// nil when absent or on failure.
func (c *Client) GetItemBySlug(ctx context.Context, typeSlug, slug string) *ItemDetails {
	q := url.Values{}
	q.Set("slug", slug)
	q.Set("status", "publish")
	q = embedQuery(q)
	var raws []json.RawMessage
	if err := c.getJSON(ctx, typeSlug, q, liveTTL, &raws); err != nil {
		c.logger.Printf("Error fetching %s item with slug %q: %v", typeSlug, slug, err)
		return nil
	}
	if len(raws) == 0 {
		return nil
	}
	item, err := normalizeItemDetailsBytes(raws[0])
	if err != nil {
		c.logger.Printf("Error decoding %s item with slug %q: %v", typeSlug, slug, err)
		return nil
	}
	return &item
}

// ListItemSlugs enumerates published item slugs of the given type for
// static generation, capped at one page of 100.
func (c *Client) ListItemSlugs(ctx context.Context, typeSlug string) []string {
	q := url.Values{}
	q.Set("status", "publish")
	q.Set("per_page", strconv.Itoa(slugPageSize))
	var raws []struct {
		Slug string `json:"slug"`
	}
	if err := c.getJSON(ctx, typeSlug, q, staticTTL, &raws); err != nil {
		c.logger.Printf("Error fetching %s item slugs: %v", typeSlug, err)
		return []string{}
	}
	slugs := make([]string, 0, len(raws))
	for _, raw := range raws {
		slugs = append(slugs, raw.Slug)
	}
	return slugs
}
