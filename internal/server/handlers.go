// internal/server/handlers.go
package server

import (
	"net/http"
	"strconv"
	"time"

	"newsfront/internal/rss"
)

const (
	listPageSize   = 12
	homeLatestSize = 9
	homeNewsSize   = 4
	feedSize       = 20
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts := s.client.ListPostsWithDetails(ctx)
	news := s.client.ListItemsWithDetails(ctx, s.config.NewsType)

	hero, latest := heroAndLatest(posts)
	if len(latest) > homeLatestSize {
		latest = latest[:homeLatestSize]
	}

	newsCards := make([]CardView, 0, homeNewsSize)
	for _, it := range news {
		if len(newsCards) == homeNewsSize {
			break
		}
		newsCards = append(newsCards, cardForItemDetails(it, "/news"))
	}

	s.renderPage(w, http.StatusOK, "index.html", IndexData{
		Nav:      s.nav(ctx),
		Title:    s.config.SiteTitle,
		Hero:     hero,
		Latest:   latest,
		News:     newsCards,
		FeedPath: "/feed",
	})
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p > 0 {
			page = p
		}
	}

	posts := s.client.ListPosts(ctx, listPageSize, page)
	cards := make([]CardView, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, cardForPost(p))
	}

	data := ListData{
		Nav:      s.nav(ctx),
		Title:    "Posts",
		Heading:  "All Posts",
		Cards:    cards,
		Page:     page,
		BasePath: "/posts",
	}
	if page > 1 {
		data.PrevPage = page - 1
	}
	// A full page suggests more content upstream.
	if len(posts) == listPageSize {
		data.NextPage = page + 1
	}

	s.renderPage(w, http.StatusOK, "archive.html", data)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := r.PathValue("slug")

	post := s.client.GetPostBySlug(ctx, slug)
	if post == nil {
		s.handle404(w, r)
		return
	}

	data := articleForPost(*post)
	data.Nav = s.nav(ctx)
	s.renderPage(w, http.StatusOK, "article.html", data)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := r.PathValue("slug")

	page := s.client.GetPageBySlug(ctx, slug)
	if page == nil {
		s.handle404(w, r)
		return
	}

	data := articleForPage(*page)
	data.Nav = s.nav(ctx)
	s.renderPage(w, http.StatusOK, "article.html", data)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items := s.client.ListItemsWithDetails(ctx, s.config.NewsType)
	cards := make([]CardView, 0, len(items))
	for _, it := range items {
		cards = append(cards, cardForItemDetails(it, "/news"))
	}

	s.renderPage(w, http.StatusOK, "archive.html", ListData{
		Nav:      s.nav(ctx),
		Title:    "News",
		Heading:  "News Releases",
		Cards:    cards,
		Page:     1,
		BasePath: "/news",
	})
}

func (s *Server) handleNewsItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := r.PathValue("slug")

	item := s.client.GetItemBySlug(ctx, s.config.NewsType, slug)
	if item == nil {
		s.handle404(w, r)
		return
	}

	data := articleForItem(*item)
	data.Nav = s.nav(ctx)
	s.renderPage(w, http.StatusOK, "article.html", data)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	s.handleTermArchive(w, r, "category")
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	s.handleTermArchive(w, r, "tag")
}

func (s *Server) handleTermArchive(w http.ResponseWriter, r *http.Request, kind string) {
	ctx := r.Context()
	slug := r.PathValue("slug")

	var term *termHeading
	var posts []CardView

	switch kind {
	case "category":
		t := s.client.GetCategoryBySlug(ctx, slug)
		if t == nil {
			s.handle404(w, r)
			return
		}
		term = &termHeading{Name: t.Name, Description: t.Description}
		for _, p := range s.client.ListPostsByCategory(ctx, t.ID) {
			posts = append(posts, cardForPostDetails(p))
		}
	case "tag":
		t := s.client.GetTagBySlug(ctx, slug)
		if t == nil {
			s.handle404(w, r)
			return
		}
		term = &termHeading{Name: t.Name, Description: t.Description}
		for _, p := range s.client.ListPostsByTag(ctx, t.ID) {
			posts = append(posts, cardForPostDetails(p))
		}
	}

	s.renderPage(w, http.StatusOK, "archive.html", ListData{
		Nav:      s.nav(ctx),
		Title:    term.Name,
		Heading:  term.Name,
		Intro:    term.Description,
		Cards:    posts,
		Page:     1,
		BasePath: "/" + kind + "/" + slug,
	})
}

type termHeading struct {
	Name        string
	Description string
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts := s.client.ListPostsWithDetails(ctx)
	if len(posts) > feedSize {
		posts = posts[:feedSize]
	}

	feed := rss.New(s.config.SiteTitle, s.config.SiteURL, "Latest posts from "+s.config.SiteTitle, time.Now())
	for _, p := range posts {
		link := p.Link
		if link == "" {
			link = s.config.SiteURL + "/posts/" + p.Slug
		}
		feed.Append(stripHTML(p.Title), link, excerptText(p.Excerpt, 500), p.Date)
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if err := feed.Write(w); err != nil {
		s.logger.Printf("Error writing feed: %v", err)
	}
}

func (s *Server) handle404(w http.ResponseWriter, r *http.Request) {
	s.logger.Printf("404 for path: %s", r.URL.Path)
	s.renderPage(w, http.StatusNotFound, "404.html", NotFoundData{
		Nav:   s.nav(r.Context()),
		Title: "Not Found",
		Path:  r.URL.Path,
	})
}
