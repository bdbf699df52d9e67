// internal/wordpress/posts.go
package wordpress

import (
	"context"
	"net/url"
	"strconv"
)

// ListPosts fetches one page of published posts. Failures degrade to an
// empty slice.
func (c *Client) ListPosts(ctx context.Context, perPage, page int) []Post {
	q := embedQuery(listQuery(perPage, page))
	var raws []rawPost
	if err := c.getJSON(ctx, "posts", q, liveTTL, &raws); err != nil {
		c.logger.Printf("Error fetching posts: %v", err)
		return []Post{}
	}
	posts := make([]Post, 0, len(raws))
	for _, raw := range raws {
		posts = append(posts, normalizePost(raw))
	}
	return posts
}

// ListPostsWithDetails fetches all published posts with embedded author,
// media and taxonomy details resolved in the same round trip.
func (c *Client) ListPostsWithDetails(ctx context.Context) []PostDetails {
	q := url.Values{}
	q.Set("status", "publish")
	q = embedQuery(q)
	var raws []rawPost
	if err := c.getJSON(ctx, "posts", q, liveTTL, &raws); err != nil {
		c.logger.Printf("Error fetching posts with details: %v", err)
		return []PostDetails{}
	}
	posts := make([]PostDetails, 0, len(raws))
	for _, raw := range raws {
		posts = append(posts, normalizePostDetails(raw))
	}
	return posts
}

// GetPostBySlug fetches the post with the exact slug, or nil when it does
// not exist upstream. Transport failure also yields nil, never an error.
func (c *Client) GetPostBySlug(ctx context.Context, slug string) *PostDetails {
	q := url.Values{}
	q.Set("slug", slug)
	q.Set("status", "publish")
	q = embedQuery(q)
	var raws []rawPost
	if err := c.getJSON(ctx, "posts", q, liveTTL, &raws); err != nil {
		c.logger.Printf("Error fetching post with slug %q: %v", slug, err)
		return nil
	}
	if len(raws) == 0 {
		return nil
	}
	post := normalizePostDetails(raws[0])
	return &post
}

// ListPostSlugs enumerates published post slugs for static generation,
// capped at one page of 100.
func (c *Client) ListPostSlugs(ctx context.Context) []string {
	q := url.Values{}
	q.Set("status", "publish")
	q.Set("per_page", strconv.Itoa(slugPageSize))
	var raws []rawPost
	if err := c.getJSON(ctx, "posts", q, staticTTL, &raws); err != nil {
		c.logger.Printf("Error fetching post slugs: %v", err)
		return []string{}
	}
	slugs := make([]string, 0, len(raws))
	for _, raw := range raws {
		slugs = append(slugs, raw.Slug)
	}
	return slugs
}

// ListPostsByCategory fetches published posts filtered by a category id.
func (c *Client) ListPostsByCategory(ctx context.Context, categoryID int) []PostDetails {
	return c.listPostsByTerm(ctx, "categories", categoryID)
}

// ListPostsByTag fetches published posts filtered by a tag id.
func (c *Client) ListPostsByTag(ctx context.Context, tagID int) []PostDetails {
	return c.listPostsByTerm(ctx, "tags", tagID)
}

func (c *Client) listPostsByTerm(ctx context.Context, param string, id int) []PostDetails {
	q := url.Values{}
	q.Set(param, strconv.Itoa(id))
	q.Set("status", "publish")
	q = embedQuery(q)
	var raws []rawPost
	if err := c.getJSON(ctx, "posts", q, liveTTL, &raws); err != nil {
		c.logger.Printf("Error fetching posts by %s %d: %v", param, id, err)
		return []PostDetails{}
	}
	posts := make([]PostDetails, 0, len(raws))
	for _, raw := range raws {
		posts = append(posts, normalizePostDetails(raw))
	}
	return posts
}

// ListPostsByCategorySlug resolves the category slug first and then fetches
// its posts. An unresolved slug returns empty without a second request.
func (c *Client) ListPostsByCategorySlug(ctx context.Context, slug string) []PostDetails {
	category := c.GetCategoryBySlug(ctx, slug)
	if category == nil {
		return []PostDetails{}
	}
	return c.ListPostsByCategory(ctx, category.ID)
}

// ListPostsByTagSlug resolves the tag slug first and then fetches its posts.
// An unresolved slug returns empty without a second request.
func (c *Client) ListPostsByTagSlug(ctx context.Context, slug string) []PostDetails {
	tag := c.GetTagBySlug(ctx, slug)
	if tag == nil {
		return []PostDetails{}
	}
	return c.ListPostsByTag(ctx, tag.ID)
}
