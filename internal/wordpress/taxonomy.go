// internal/wordpress/taxonomy.go
package wordpress

import (
	"context"
	"net/url"
)

// GetCategoryBySlug fetches the category with the exact slug, or nil when
// the slug does not resolve or on failure.
func (c *Client) GetCategoryBySlug(ctx context.Context, slug string) *Term {
	return c.getTermBySlug(ctx, "categories", slug)
}

// GetTagBySlug fetches the tag with the exact slug, or nil when the slug
// does not resolve or on failure.
func (c *Client) GetTagBySlug(ctx context.Context, slug string) *Term {
	return c.getTermBySlug(ctx, "tags", slug)
}

func (c *Client) getTermBySlug(ctx context.Context, resource, slug string) *Term {
	q := url.Values{}
	q.Set("slug", slug)
	var terms []Term
	if err := c.getJSON(ctx, resource, q, staticTTL, &terms); err != nil {
		c.logger.Printf("Error fetching %s with slug %q: %v", resource, slug, err)
		return nil
	}
	if len(terms) == 0 {
		return nil
	}
	return &terms[0]
}
