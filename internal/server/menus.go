// internal/server/menus.go
// Navigation chrome. Menus live in the CMS; every page render asks for the
// header menu and the four footer menus in one concurrent fan-out. A menu
// that fails to load falls back to its static links so navigation never
// disappears with the CMS.
package server

import (
	"context"
	"time"

	"newsfront/internal/wordpress"

	"golang.org/x/sync/errgroup"
)

const headerMenuName = "primary"

// footerMenus defines the footer columns in display order, with the static
// fallback used when the CMS menu is missing or the fetch fails.
var footerMenus = []struct {
	title    string
	menuName string
	fallback []wordpress.MenuItem
}{
	{
		title:    "Company",
		menuName: "company",
		fallback: []wordpress.MenuItem{
			{Title: "About Us", URL: "/pages/about"},
			{Title: "Careers", URL: "/pages/careers"},
			{Title: "Press", URL: "/pages/press"},
			{Title: "Contact", URL: "/pages/contact"},
		},
	},
	{
		title:    "Products",
		menuName: "products",
		fallback: []wordpress.MenuItem{
			{Title: "Market Intelligence", URL: "/pages/market-intelligence"},
			{Title: "Research Hub", URL: "/pages/research-hub"},
			{Title: "Newsletter", URL: "/pages/newsletter"},
			{Title: "Premium Access", URL: "/pages/premium-access"},
		},
	},
	{
		title:    "Resources",
		menuName: "resources",
		fallback: []wordpress.MenuItem{
			{Title: "Latest News", URL: "/news"},
			{Title: "All Posts", URL: "/posts"},
			{Title: "RSS Feed", URL: "/feed"},
		},
	},
	{
		title:    "Legal",
		menuName: "legal",
		fallback: []wordpress.MenuItem{
			{Title: "Privacy Policy", URL: "/pages/privacy-policy"},
			{Title: "Terms of Service", URL: "/pages/terms-of-service"},
		},
	},
}

var headerFallback = []wordpress.MenuItem{
	{Title: "Home", URL: "/"},
	{Title: "Posts", URL: "/posts"},
	{Title: "News", URL: "/news"},
}

// nav fetches all menus concurrently and assembles the page chrome. Results
// come back in definition order regardless of per-menu latency, and one
// menu's failure never affects the others: GetMenu degrades to nil and the
// fallback takes over, so the group never sees an error.
func (s *Server) nav(ctx context.Context) NavData {
	menus := make([]*wordpress.Menu, len(footerMenus))
	var header *wordpress.Menu

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		header = s.client.GetMenu(gctx, headerMenuName)
		return nil
	})
	for i, fm := range footerMenus {
		i, name := i, fm.menuName
		g.Go(func() error {
			menus[i] = s.client.GetMenu(gctx, name)
			return nil
		})
	}
	g.Wait()

	nav := NavData{
		SiteTitle:  s.config.SiteTitle,
		HeaderMenu: headerFallback,
		Year:       time.Now().Year(),
	}
	if header != nil && len(header.Items) > 0 {
		nav.HeaderMenu = header.Items
	}

	nav.Footer = make([]FooterSection, len(footerMenus))
	for i, fm := range footerMenus {
		section := FooterSection{Title: fm.title, Items: fm.fallback}
		if menus[i] != nil && len(menus[i].Items) > 0 {
			section.Items = menus[i].Items
		}
		nav.Footer[i] = section
	}
	return nav
}
