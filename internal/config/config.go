package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultAPIURL is used when WP_API_URL is not set. The site still works
// against a public WordPress install without any configuration.
const DefaultAPIURL = "https://dev-new-marketsheadlines.pantheonsite.io/wp-json/wp/v2"

// WordPress holds everything needed to talk to the upstream CMS.
// Username and Password are optional; when both are present every request
// carries an HTTP Basic Authorization header.
type WordPress struct {
	BaseURL  string
	Username string
	Password string
	// NewsType is the REST base of the custom post type rendered under /news.
	NewsType string
}

// HasCredentials reports whether Basic auth should be attached to requests.
func (w WordPress) HasCredentials() bool {
	return w.Username != "" && w.Password != ""
}

type Config struct {
	Port      int
	DataPath  string
	OutputDir string
	// SiteTitle and SiteURL feed page chrome and absolute feed links.
	SiteTitle string
	SiteURL   string
	WordPress WordPress
	// ProductionMode disables template hot-reload and debug logging.
	ProductionMode bool
}

func GetConfig() Config {
	config := Config{
		Port:      8080,
		DataPath:  "data",
		OutputDir: "public",
		SiteTitle: "Markets Headlines",
		SiteURL:   "http://localhost:8080",
		WordPress: WordPress{
			BaseURL:  DefaultAPIURL,
			NewsType: "news-release",
		},
	}

	// Override with environment variables if present
	if port := os.Getenv("NEWSFRONT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Port = p
		}
	}

	if dataPath := os.Getenv("NEWSFRONT_DATA_PATH"); dataPath != "" {
		config.DataPath = dataPath
	}

	if outputDir := os.Getenv("NEWSFRONT_OUTPUT_DIR"); outputDir != "" {
		config.OutputDir = outputDir
	}

	if title := os.Getenv("NEWSFRONT_SITE_TITLE"); title != "" {
		config.SiteTitle = title
	}

	if siteURL := os.Getenv("NEWSFRONT_SITE_URL"); siteURL != "" {
		config.SiteURL = siteURL
	}

	if apiURL := os.Getenv("WP_API_URL"); apiURL != "" {
		config.WordPress.BaseURL = apiURL
	}

	config.WordPress.Username = os.Getenv("WP_USERNAME")
	config.WordPress.Password = os.Getenv("WP_PASSWORD")

	if newsType := os.Getenv("NEWSFRONT_NEWS_TYPE"); newsType != "" {
		config.WordPress.NewsType = newsType
	}

	return config
}

func (c Config) GetAddress() string {
	return fmt.Sprintf(":%d", c.Port)
}

// CacheDBPath is where the HTTP response cache lives.
func (c Config) CacheDBPath() string {
	return filepath.Join(c.DataPath, "newsfront-cache.db")
}
