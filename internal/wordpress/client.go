// internal/wordpress/client.go
package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"newsfront/internal/cache"
	"newsfront/internal/config"
)

const (
	// liveTTL is the staleness budget for reads that feed live pages.
	liveTTL = 60 * time.Second
	// staticTTL covers slug enumeration and single-entity-by-id reads,
	// which mainly drive static generation.
	staticTTL = time.Hour

	// slugPageSize caps slug-enumeration requests.
	slugPageSize = 100

	// maxResponseBytes bounds a single response body (5MB).
	maxResponseBytes = 5 << 20

	userAgent = "newsfront/0.3"
)

// Client issues read-only requests against a WordPress REST API and returns
// normalized view models. Every operation performs exactly one outbound call
// (slug composites perform two) with no retries; any failure degrades to an
// empty or nil result and is logged, so rendering never hard-fails on a CMS
// outage. Client is safe for concurrent use.
type Client struct {
	baseURL  string
	username string
	password string
	client   *http.Client
	cache    *cache.Cache
	logger   *log.Logger
	authWarn sync.Once
}

func NewClient(cfg config.WordPress, responseCache *cache.Cache, logger *log.Logger) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &Client{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		cache:  responseCache,
		logger: logger,
	}
}

// requestURL builds the full request URL for a resource path and query.
func (c *Client) requestURL(resource string, query url.Values) string {
	u := c.baseURL + "/" + strings.Trim(resource, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// get fetches a resource, honoring the response cache with the caller's
// staleness budget. Non-2xx statuses are errors; callers decide how to
// degrade.
func (c *Client) get(ctx context.Context, resource string, query url.Values, ttl time.Duration) ([]byte, error) {
	reqURL := c.requestURL(resource, query)

	if c.cache != nil {
		if body, ok := c.cache.Get(reqURL, ttl); ok {
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", reqURL, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	} else {
		c.authWarn.Do(func() {
			c.logger.Printf("WordPress credentials not configured; requests are sent unauthenticated and may fail if the API requires them")
		})
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", reqURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("status %d for %s: check WordPress credentials", resp.StatusCode, reqURL)
		}
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, reqURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", reqURL, err)
	}

	if c.cache != nil {
		c.cache.Set(reqURL, body)
	}
	return body, nil
}

// getJSON fetches and decodes a resource. Malformed bodies are errors here
// and degrade exactly like transport failures at the operation level.
func (c *Client) getJSON(ctx context.Context, resource string, query url.Values, ttl time.Duration, v any) error {
	body, err := c.get(ctx, resource, query, ttl)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", resource, err)
	}
	return nil
}

// listQuery builds the shared published-content query. perPage and page are
// clamped to their minimums rather than rejected.
func listQuery(perPage, page int) url.Values {
	if perPage < 1 {
		perPage = 1
	}
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	q.Set("status", "publish")
	return q
}

func embedQuery(q url.Values) url.Values {
	q.Set("_embed", "true")
	return q
}

// GetMediaByID fetches a single attachment. A zero id or any failure yields
// nil.
func (c *Client) GetMediaByID(ctx context.Context, id int) *Media {
	if id == 0 {
		return nil
	}
	var media Media
	if err := c.getJSON(ctx, fmt.Sprintf("media/%d", id), nil, staticTTL, &media); err != nil {
		c.logger.Printf("Error fetching media %d: %v", id, err)
		return nil
	}
	return &media
}

// GetUserByID fetches a single author. A zero id or any failure yields nil.
func (c *Client) GetUserByID(ctx context.Context, id int) *Author {
	if id == 0 {
		return nil
	}
	var author Author
	if err := c.getJSON(ctx, fmt.Sprintf("users/%d", id), nil, staticTTL, &author); err != nil {
		c.logger.Printf("Error fetching user %d: %v", id, err)
		return nil
	}
	return &author
}

// GetMenu fetches a named navigation menu from the custom /menus endpoint.
// All-or-nothing: any failure yields nil, callers fall back to static links.
func (c *Client) GetMenu(ctx context.Context, name string) *Menu {
	var menu Menu
	if err := c.getJSON(ctx, "menus/"+url.PathEscape(name), nil, liveTTL, &menu); err != nil {
		c.logger.Printf("Error fetching menu %q: %v", name, err)
		return nil
	}
	return &menu
}
