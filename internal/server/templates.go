// internal/server/templates.go
package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed web/templates web/static
var rawContent embed.FS

// webContent holds the virtual filesystem for web assets.
var webContent fs.FS

func init() {
	var err error
	webContent, err = fs.Sub(rawContent, "web")
	if err != nil {
		panic(fmt.Sprintf("failed to create virtual filesystem for web content: %v", err))
	}
}

const layoutFile = "base.html"

// extractWebContent copies the embedded templates and static assets to the
// configured web path so development mode can edit and hot-reload them.
func (s *Server) extractWebContent(forceUpdate bool) error {
	dirs := []string{
		filepath.Join(s.config.WebPath, "templates"),
		filepath.Join(s.config.WebPath, "static"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return fs.WalkDir(webContent, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}

		localPath := filepath.Join(s.config.WebPath, path)
		if d.IsDir() {
			return os.MkdirAll(localPath, 0755)
		}

		needsUpdate := forceUpdate
		if !needsUpdate {
			if stat, statErr := os.Stat(localPath); statErr != nil {
				needsUpdate = true
			} else {
				embeddedFile, openErr := webContent.Open(path)
				if openErr != nil {
					return fmt.Errorf("failed to open embedded file %s: %w", path, openErr)
				}
				if embeddedInfo, infoErr := embeddedFile.Stat(); infoErr == nil {
					needsUpdate = embeddedInfo.Size() != stat.Size()
				}
				embeddedFile.Close()
			}
		}

		if needsUpdate {
			content, readErr := fs.ReadFile(webContent, path)
			if readErr != nil {
				return fmt.Errorf("failed to read embedded file %s: %w", path, readErr)
			}
			if writeErr := os.WriteFile(localPath, content, 0644); writeErr != nil {
				return fmt.Errorf("failed to write file %s: %w", localPath, writeErr)
			}
			if !s.config.ProductionMode {
				s.logger.Printf("Updated: %s", localPath)
			}
		}
		return nil
	})
}

// loadTemplates parses every page template together with the shared layout
// and returns the cache keyed by the page file name. render executes the
// layout, which pulls in the page's content block.
func loadTemplates(webPath string, funcMap template.FuncMap) (map[string]*template.Template, error) {
	templatesDir := filepath.Join(webPath, "templates")
	layoutPath := filepath.Join(templatesDir, layoutFile)
	if _, err := os.Stat(layoutPath); err != nil {
		return nil, fmt.Errorf("layout template not found at %s: %w", layoutPath, err)
	}

	entries, err := os.ReadDir(templatesDir)
	if err != nil {
		return nil, fmt.Errorf("error reading templates directory %s: %w", templatesDir, err)
	}

	templates := make(map[string]*template.Template)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".html") || name == layoutFile {
			continue
		}
		tmpl, err := template.New(name).Funcs(funcMap).ParseFiles(layoutPath, filepath.Join(templatesDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

func (s *Server) registerTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// rawHTML marks upstream CMS content as pre-rendered HTML. The CMS
		// is the trust boundary here; everything else is escaped normally.
		"rawHTML": func(v string) template.HTML {
			return template.HTML(v)
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"formatDateShort": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 02")
		},
	}
}

// reloadTemplates rebuilds the template cache from disk. Used by the
// development-mode file watcher.
func (s *Server) reloadTemplates() error {
	templates, err := loadTemplates(s.config.WebPath, s.registerTemplateFuncs())
	if err != nil {
		return err
	}
	s.tmplMu.Lock()
	s.templateCache = templates
	s.tmplMu.Unlock()
	return nil
}
