// Package prerender renders the site to static files by driving the same
// handler that serves live traffic. The output directory can be pushed to any
// static host; pages that fail upstream are skipped, never written partially.
package prerender

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"newsfront/internal/wordpress"
)

// Config tells a Renderer where to read from and write to.
type Config struct {
	// OutputDir receives the generated tree.
	OutputDir string
	// StaticDir is the extracted static asset directory, copied verbatim
	// into OutputDir/static.
	StaticDir string
	// NewsType is the custom post type whose entries render under /news.
	NewsType string
}

// Renderer writes a static copy of the site. It renders through the live
// http.Handler so generated pages match served pages exactly.
type Renderer struct {
	handler http.Handler
	client  *wordpress.Client
	config  Config
	logger  *log.Logger
}

// Result reports how a run went. Failed pages are logged individually.
type Result struct {
	Written int
	Failed  int
}

func New(handler http.Handler, client *wordpress.Client, config Config, logger *log.Logger) *Renderer {
	if config.OutputDir == "" {
		config.OutputDir = "public"
	}
	if config.NewsType == "" {
		config.NewsType = "news-release"
	}
	return &Renderer{
		handler: handler,
		client:  client,
		config:  config,
		logger:  logger,
	}
}

// Run renders every route the site serves: the fixed pages, the feed, and one
// page per published slug. Slug enumeration failures degrade to empty slices
// in the client, so a CMS outage produces a small site, not an error.
func (r *Renderer) Run(ctx context.Context) (Result, error) {
	var res Result

	if err := os.MkdirAll(r.config.OutputDir, 0o755); err != nil {
		return res, fmt.Errorf("creating output directory: %w", err)
	}

	routes := []string{"/", "/posts", "/news", "/feed"}
	for _, slug := range r.client.ListPostSlugs(ctx) {
		routes = append(routes, "/posts/"+slug)
	}
	for _, slug := range r.client.ListItemSlugs(ctx, r.config.NewsType) {
		routes = append(routes, "/news/"+slug)
	}
	for _, slug := range r.client.ListPageSlugs(ctx) {
		routes = append(routes, "/pages/"+slug)
	}

	for _, route := range routes {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := r.renderRoute(ctx, route); err != nil {
			r.logger.Printf("Prerender: skipping %s: %v", route, err)
			res.Failed++
			continue
		}
		res.Written++
	}

	if r.config.StaticDir != "" {
		if err := copyDir(r.config.StaticDir, filepath.Join(r.config.OutputDir, "static")); err != nil {
			return res, fmt.Errorf("copying static assets: %w", err)
		}
	}

	r.logger.Printf("Prerender: wrote %d pages, %d failed", res.Written, res.Failed)
	return res, nil
}

// renderRoute executes the handler for one route and writes the body to its
// output file. Anything but a 200 is a failure; the file is written only
// after a complete successful render.
func (r *Renderer) renderRoute(ctx context.Context, route string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, route, nil)
	if err != nil {
		return err
	}

	rec := &memoryResponseWriter{header: make(http.Header), status: http.StatusOK}
	r.handler.ServeHTTP(rec, req)

	if rec.status != http.StatusOK {
		return fmt.Errorf("status %d", rec.status)
	}

	outPath := r.outputPath(route)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, rec.body, 0o644)
}

// outputPath maps a route to its file: pages become directory indexes so
// static hosts serve them at the same URLs, the feed keeps its XML name.
func (r *Renderer) outputPath(route string) string {
	if route == "/feed" {
		return filepath.Join(r.config.OutputDir, "feed.xml")
	}
	trimmed := strings.Trim(route, "/")
	if trimmed == "" {
		return filepath.Join(r.config.OutputDir, "index.html")
	}
	return filepath.Join(r.config.OutputDir, filepath.FromSlash(trimmed), "index.html")
}

// memoryResponseWriter buffers a handler response in memory.
type memoryResponseWriter struct {
	header http.Header
	status int
	body   []byte
}

func (w *memoryResponseWriter) Header() http.Header { return w.header }

func (w *memoryResponseWriter) WriteHeader(status int) { w.status = status }

func (w *memoryResponseWriter) Write(p []byte) (int, error) {
	w.body = append(w.body, p...)
	return len(p), nil
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		defer out.Close()
		if _, err := io.Copy(out, in); err != nil {
			return err
		}
		return out.Close()
	})
}
