package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"newsfront/internal/cache"
	"newsfront/internal/config"
	"newsfront/internal/prerender"
	"newsfront/internal/server"
	"newsfront/internal/wordpress"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version will be set during build
var Version = "dev"

var (
	flagPort     int
	flagDataPath string
	flagOutput   string
	flagAPIURL   string
	flagNewsType string
	flagProd     bool
)

func main() {
	root := &cobra.Command{
		Use:           "newsfront",
		Short:         "Server-rendered front-end for a headless WordPress news site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().IntVar(&flagPort, "port", 0, "Port to run the server on (default: 8080 or NEWSFRONT_PORT)")
	root.PersistentFlags().StringVar(&flagDataPath, "data", "", "Path to data directory (default: data or NEWSFRONT_DATA_PATH)")
	root.PersistentFlags().StringVar(&flagOutput, "output", "", "Static output directory (default: public or NEWSFRONT_OUTPUT_DIR)")
	root.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "WordPress REST API base URL (default: WP_API_URL)")
	root.PersistentFlags().StringVar(&flagNewsType, "news-type", "", "Custom post type rendered under /news (default: news-release)")
	root.PersistentFlags().BoolVar(&flagProd, "prod", false, "Enable production mode (no template hot-reload)")

	root.AddCommand(serveCmd(), prerenderCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads .env if present, then the environment, then applies
// command line overrides.
func loadConfig(logger *log.Logger) config.Config {
	if err := godotenv.Load(); err == nil {
		logger.Printf("Loaded environment from .env")
	}

	cfg := config.GetConfig()
	if flagPort > 0 {
		cfg.Port = flagPort
	}
	if flagDataPath != "" {
		cfg.DataPath = flagDataPath
	}
	if flagOutput != "" {
		cfg.OutputDir = flagOutput
	}
	if flagAPIURL != "" {
		cfg.WordPress.BaseURL = flagAPIURL
	}
	if flagNewsType != "" {
		cfg.WordPress.NewsType = flagNewsType
	}
	if flagProd {
		cfg.ProductionMode = true
	}
	return cfg
}

// buildClient wires the response cache and the WordPress client. The cache
// database lives under the data directory; if the directory cannot be created
// the cache runs memory-only.
func buildClient(cfg config.Config, logger *log.Logger) (*wordpress.Client, *cache.Cache) {
	dbPath := cfg.CacheDBPath()
	if err := os.MkdirAll(cfg.DataPath, 0755); err != nil {
		logger.Printf("Failed to create data directory %s, cache runs memory-only: %v", cfg.DataPath, err)
		dbPath = ""
	}
	respCache := cache.New(dbPath, logger)
	return wordpress.NewClient(cfg.WordPress, respCache, logger), respCache
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the site over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(os.Stdout, "newsfront: ", log.LstdFlags|log.Lshortfile)
			cfg := loadConfig(logger)

			logger.Printf("Starting newsfront v%s", Version)
			logger.Printf("Port: %d", cfg.Port)
			logger.Printf("WordPress API: %s", cfg.WordPress.BaseURL)
			logger.Printf("Mode: %s", map[bool]string{true: "production", false: "development"}[cfg.ProductionMode])
			if !cfg.WordPress.HasCredentials() {
				logger.Printf("No WordPress credentials configured")
			}

			client, respCache := buildClient(cfg, logger)
			defer respCache.Close()

			srv, err := server.NewServer(client, logger, server.Config{
				SiteTitle:      cfg.SiteTitle,
				SiteURL:        cfg.SiteURL,
				NewsType:       cfg.WordPress.NewsType,
				ProductionMode: cfg.ProductionMode,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize server: %w", err)
			}
			defer srv.Close()

			return srv.Start(cfg.GetAddress())
		},
	}
}

func prerenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prerender",
		Short: "Render the site to static files",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(os.Stdout, "newsfront: ", log.LstdFlags|log.Lshortfile)
			cfg := loadConfig(logger)

			client, respCache := buildClient(cfg, logger)
			defer respCache.Close()

			srv, err := server.NewServer(client, logger, server.Config{
				SiteTitle:      cfg.SiteTitle,
				SiteURL:        cfg.SiteURL,
				NewsType:       cfg.WordPress.NewsType,
				ProductionMode: true,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize server: %w", err)
			}
			defer srv.Close()

			renderer := prerender.New(srv.Routes(), client, prerender.Config{
				OutputDir: cfg.OutputDir,
				StaticDir: filepath.Join("web", "static"),
				NewsType:  cfg.WordPress.NewsType,
			}, logger)

			res, err := renderer.Run(cmd.Context())
			if err != nil {
				return err
			}
			logger.Printf("Wrote %d pages to %s (%d failed)", res.Written, cfg.OutputDir, res.Failed)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("newsfront version %s\n", Version)
		},
	}
}
