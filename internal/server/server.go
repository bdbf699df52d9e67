// internal/server/server.go
package server

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"newsfront/internal/wordpress"

	"github.com/fsnotify/fsnotify"
)

type Config struct {
	// WebPath is where embedded templates and assets are extracted.
	WebPath string
	// SiteTitle and SiteURL feed page chrome and the RSS channel.
	SiteTitle string
	SiteURL   string
	// NewsType is the custom post type rendered under /news.
	NewsType string
	// ProductionMode disables template hot-reload and debug logging.
	ProductionMode bool
	// DisableTemplateUpdates keeps already-extracted templates as they are.
	DisableTemplateUpdates bool
}

// Server renders the site. All content comes from the WordPress client per
// request; the server holds no content state of its own beyond the parsed
// template cache.
type Server struct {
	client        *wordpress.Client
	logger        *log.Logger
	config        Config
	tmplMu        sync.RWMutex
	templateCache map[string]*template.Template
	watcher       *fsnotify.Watcher
}

func NewServer(client *wordpress.Client, logger *log.Logger, config Config) (*Server, error) {
	if config.WebPath == "" {
		config.WebPath = "web"
	}
	if config.SiteTitle == "" {
		config.SiteTitle = "Markets Headlines"
	}
	if config.NewsType == "" {
		config.NewsType = "news-release"
	}

	s := &Server{
		client: client,
		logger: logger,
		config: config,
	}

	if err := s.extractWebContent(!config.DisableTemplateUpdates); err != nil {
		return nil, fmt.Errorf("failed to extract web content: %w", err)
	}

	if err := s.reloadTemplates(); err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	if !config.ProductionMode {
		s.logger.Printf("Loaded %d templates", len(s.templateCache))
		if err := s.watchTemplates(); err != nil {
			s.logger.Printf("Template watcher unavailable: %v", err)
		}
	}

	return s, nil
}

// watchTemplates rebuilds the template cache when a template file changes.
// Development convenience only; production parses once.
func (s *Server) watchTemplates() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	templatesDir := filepath.Join(s.config.WebPath, "templates")
	if err := watcher.Add(templatesDir); err != nil {
		watcher.Close()
		return err
	}
	s.watcher = watcher

	go func() {
		var reloadTimer *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if !strings.HasSuffix(event.Name, ".html") {
					continue
				}
				// Editors fire bursts of events; debounce before reparsing.
				if reloadTimer != nil {
					reloadTimer.Stop()
				}
				reloadTimer = time.AfterFunc(250*time.Millisecond, func() {
					if err := s.reloadTemplates(); err != nil {
						s.logger.Printf("Template reload failed: %v", err)
						return
					}
					s.logger.Printf("Templates reloaded after change to %s", event.Name)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Printf("Template watcher error: %v", err)
			}
		}
	}()
	return nil
}

// Close releases the development-mode watcher, if any.
func (s *Server) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	fileServer := http.FileServer(http.Dir(filepath.Join(s.config.WebPath, "static")))
	mux.Handle("GET /static/", http.StripPrefix("/static/", fileServer))

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /feed", s.handleFeed)
	mux.HandleFunc("GET /posts", s.handlePosts)
	mux.HandleFunc("GET /posts/{slug}", s.handlePost)
	mux.HandleFunc("GET /news", s.handleNews)
	mux.HandleFunc("GET /news/{slug}", s.handleNewsItem)
	mux.HandleFunc("GET /category/{slug}", s.handleCategory)
	mux.HandleFunc("GET /tag/{slug}", s.handleTag)
	mux.HandleFunc("GET /pages/{slug}", s.handlePage)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("/", s.handle404)

	return s.withMiddleware(mux)
}

// render executes the named page template inside the shared layout.
func (s *Server) render(w io.Writer, name string, data any) error {
	s.tmplMu.RLock()
	tmpl, ok := s.templateCache[name]
	s.tmplMu.RUnlock()
	if !ok {
		return fmt.Errorf("template %s not found in cache", name)
	}
	return tmpl.ExecuteTemplate(w, layoutFile, data)
}

// renderPage writes a full HTML response, falling back to a plain error when
// template execution fails.
func (s *Server) renderPage(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.render(w, name, data); err != nil {
		s.logger.Printf("Error rendering %s: %v", name, err)
		fmt.Fprintln(w, "Internal rendering error")
	}
}

func (s *Server) Start(addr string) error {
	s.logger.Printf("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.Routes())
}
