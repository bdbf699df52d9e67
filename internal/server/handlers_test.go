package server

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"newsfront/internal/cache"
	"newsfront/internal/config"
	"newsfront/internal/wordpress"
)

// newTestServer builds a Server backed by a fake CMS. The fake is closed and
// the server watcher released automatically.
func newTestServer(t *testing.T, upstream http.Handler) *Server {
	t.Helper()

	cms := httptest.NewServer(upstream)
	t.Cleanup(cms.Close)

	logger := log.New(io.Discard, "", 0)
	client := wordpress.NewClient(config.WordPress{
		BaseURL:  cms.URL,
		NewsType: "news-release",
	}, cache.New("", logger), logger)

	srv, err := NewServer(client, logger, Config{
		WebPath:        t.TempDir(),
		SiteTitle:      "Test Site",
		SiteURL:        "http://example.com",
		NewsType:       "news-release",
		ProductionMode: true,
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv
}

func postJSON(id int, slug, title string, sticky bool) string {
	return fmt.Sprintf(`{
		"id": %d,
		"date": "2024-03-01T10:00:00",
		"modified": "2024-03-01T10:00:00",
		"slug": %q,
		"title": {"rendered": %q},
		"content": {"rendered": "<p>Body of %s</p>"},
		"excerpt": {"rendered": "<p>Excerpt of %s</p>"},
		"author": 1,
		"sticky": %t,
		"categories": [],
		"tags": []
	}`, id, slug, title, slug, slug, sticky)
}

func itemJSON(id int, slug, title string) string {
	return fmt.Sprintf(`{
		"id": %d,
		"date": "2024-03-02T09:00:00",
		"slug": %q,
		"status": "publish",
		"type": "news-release",
		"title": {"rendered": %q},
		"content": {"rendered": "<p>Release body</p>"},
		"excerpt": {"rendered": "<p>Release excerpt</p>"},
		"ticker": "ACME"
	}`, id, slug, title)
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, body)
}

// contentCMS serves a small fixed site: two posts, one news release, no menus.
func contentCMS() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		if slug := r.URL.Query().Get("slug"); slug != "" {
			if slug == "market-outlook" {
				writeJSON(w, "["+postJSON(1, "market-outlook", "Market Outlook 2024", true)+"]")
			} else {
				writeJSON(w, "[]")
			}
			return
		}
		writeJSON(w, "["+
			postJSON(1, "market-outlook", "Market Outlook 2024", true)+","+
			postJSON(2, "rates-hold", "Rates Hold Steady", false)+
			"]")
	})
	mux.HandleFunc("/news-release", func(w http.ResponseWriter, r *http.Request) {
		if slug := r.URL.Query().Get("slug"); slug != "" {
			if slug == "acme-earnings" {
				writeJSON(w, "["+itemJSON(10, "acme-earnings", "ACME Reports Earnings")+"]")
			} else {
				writeJSON(w, "[]")
			}
			return
		}
		writeJSON(w, "["+itemJSON(10, "acme-earnings", "ACME Reports Earnings")+"]")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	return mux
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersHeroAndNews(t *testing.T) {
	srv := newTestServer(t, contentCMS())
	rec := get(t, srv.Routes(), "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	body := rec.Body.String()
	// The sticky post leads regardless of order.
	if !strings.Contains(body, "Market Outlook 2024") {
		t.Errorf("index missing hero title, body:\n%s", body)
	}
	if !strings.Contains(body, "ACME Reports Earnings") {
		t.Error("index missing news release title")
	}
	if !strings.Contains(body, "Test Site") {
		t.Error("index missing site title")
	}
}

func TestPostPage(t *testing.T) {
	srv := newTestServer(t, contentCMS())
	rec := get(t, srv.Routes(), "/posts/market-outlook")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Market Outlook 2024") {
		t.Error("article missing title")
	}
	if !strings.Contains(body, "<p>Body of market-outlook</p>") {
		t.Error("article content not rendered as raw HTML")
	}
}

func TestPostNotFound(t *testing.T) {
	srv := newTestServer(t, contentCMS())
	rec := get(t, srv.Routes(), "/posts/missing-slug")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/posts/missing-slug") {
		t.Error("404 page missing the requested path")
	}
}

func TestNewsItemPage(t *testing.T) {
	srv := newTestServer(t, contentCMS())
	rec := get(t, srv.Routes(), "/news/acme-earnings")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "ACME Reports Earnings") {
		t.Error("news article missing title")
	}
	// Custom fields render alongside the body.
	if !strings.Contains(body, "ACME") {
		t.Error("news article missing custom field value")
	}
}

func TestUnknownPathIs404(t *testing.T) {
	srv := newTestServer(t, contentCMS())
	rec := get(t, srv.Routes(), "/no/such/page")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestIndexSurvivesUpstreamOutage(t *testing.T) {
	srv := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "db gone", http.StatusInternalServerError)
	}))
	rec := get(t, srv.Routes(), "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite upstream failure", rec.Code)
	}
	// Static navigation fallbacks still render.
	if !strings.Contains(rec.Body.String(), "About Us") {
		t.Error("index missing fallback footer links")
	}
}

func TestFeed(t *testing.T) {
	srv := newTestServer(t, contentCMS())
	rec := get(t, srv.Routes(), "/feed")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Errorf("Content-Type = %q, want application/rss+xml", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<rss") {
		t.Error("feed missing rss element")
	}
	if !strings.Contains(body, "Market Outlook 2024") {
		t.Error("feed missing post title")
	}
	if !strings.Contains(body, "http://example.com") {
		t.Error("feed missing site link")
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, contentCMS())
	rec := get(t, srv.Routes(), "/healthz")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected healthz body: %s", rec.Body.String())
	}
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t, contentCMS())
	routes := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-abc-123")
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "req-abc-123" {
		t.Errorf("request id = %q, want echo of caller's id", got)
	}

	rec2 := get(t, routes, "/healthz")
	if rec2.Header().Get(requestIDHeader) == "" {
		t.Error("no request id generated when the caller sends none")
	}
}

func TestGzipResponses(t *testing.T) {
	srv := newTestServer(t, contentCMS())

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if enc := rec.Header().Get("Content-Encoding"); enc != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", enc)
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	defer zr.Close()
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("reading gzip body: %v", err)
	}
	if !strings.Contains(string(body), "All Posts") {
		t.Error("decompressed body missing archive heading")
	}
}

// Footer menus are fetched concurrently but must come back in definition
// order, whatever each fetch's latency.
func TestFooterMenusKeepDefinitionOrder(t *testing.T) {
	delays := map[string]time.Duration{
		"primary":   60 * time.Millisecond,
		"company":   80 * time.Millisecond,
		"products":  5 * time.Millisecond,
		"resources": 40 * time.Millisecond,
		"legal":     time.Millisecond,
	}

	var mu sync.Mutex
	inflight, maxInflight := 0, 0

	mux := http.NewServeMux()
	mux.HandleFunc("/menus/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")

		mu.Lock()
		inflight++
		if inflight > maxInflight {
			maxInflight = inflight
		}
		mu.Unlock()

		time.Sleep(delays[name])

		mu.Lock()
		inflight--
		mu.Unlock()

		writeJSON(w, fmt.Sprintf(`{
			"id": 1, "name": %q, "slug": %q,
			"items": [{"id": 1, "title": "From CMS: %s", "url": "/x"}]
		}`, name, name, name))
	})
	srv := newTestServer(t, mux)

	nav := srv.nav(context.Background())

	wantTitles := []string{"Company", "Products", "Resources", "Legal"}
	wantMenus := []string{"company", "products", "resources", "legal"}
	if len(nav.Footer) != len(wantTitles) {
		t.Fatalf("footer sections = %d, want %d", len(nav.Footer), len(wantTitles))
	}
	for i, section := range nav.Footer {
		if section.Title != wantTitles[i] {
			t.Errorf("footer[%d].Title = %q, want %q", i, section.Title, wantTitles[i])
		}
		if len(section.Items) == 0 || section.Items[0].Title != "From CMS: "+wantMenus[i] {
			t.Errorf("footer[%d] items = %+v, want menu %q contents", i, section.Items, wantMenus[i])
		}
	}
	if len(nav.HeaderMenu) == 0 || nav.HeaderMenu[0].Title != "From CMS: primary" {
		t.Errorf("header menu = %+v, want CMS primary menu", nav.HeaderMenu)
	}

	mu.Lock()
	defer mu.Unlock()
	if maxInflight < 2 {
		t.Errorf("max in-flight menu requests = %d, want concurrent fetches", maxInflight)
	}
}

func TestPostsPagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "2" {
			// A short page means no further pagination.
			writeJSON(w, "["+postJSON(13, "last-post", "The Last Post", false)+"]")
			return
		}
		var items []string
		for i := 0; i < listPageSize; i++ {
			items = append(items, postJSON(i+1, fmt.Sprintf("post-%d", i+1), fmt.Sprintf("Post %d", i+1), false))
		}
		writeJSON(w, "["+strings.Join(items, ",")+"]")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	srv := newTestServer(t, mux)

	rec := get(t, srv.Routes(), "/posts")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/posts?page=2") {
		t.Error("full first page should link to page 2")
	}

	rec = get(t, srv.Routes(), "/posts?page=2")
	body := rec.Body.String()
	if !strings.Contains(body, "The Last Post") {
		t.Error("second page missing its post")
	}
	if !strings.Contains(body, "/posts?page=1") {
		t.Error("second page should link back to page 1")
	}
	if strings.Contains(body, "/posts?page=3") {
		t.Error("short page should not link forward")
	}
}

func TestCategoryArchive(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slug") != "markets" {
			writeJSON(w, "[]")
			return
		}
		writeJSON(w, `[{"id": 7, "name": "Markets", "slug": "markets", "description": "Market coverage", "taxonomy": "category"}]`)
	})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("categories") != "7" {
			t.Errorf("posts query filtered by categories=%q, want 7", r.URL.Query().Get("categories"))
		}
		writeJSON(w, "["+postJSON(1, "market-outlook", "Market Outlook 2024", false)+"]")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	srv := newTestServer(t, mux)

	rec := get(t, srv.Routes(), "/category/markets")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Markets") || !strings.Contains(body, "Market coverage") {
		t.Error("archive missing term heading or description")
	}
	if !strings.Contains(body, "Market Outlook 2024") {
		t.Error("archive missing post card")
	}

	rec = get(t, srv.Routes(), "/category/unknown")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown category status = %d, want 404", rec.Code)
	}
}
