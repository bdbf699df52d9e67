// internal/server/views.go
// View structs handed to templates, and the builders that shape the
// wordpress view models into them.
package server

import (
	"time"

	"newsfront/internal/wordpress"
)

const cardExcerptLength = 180

// NavData is the header/footer chrome shared by every page.
type NavData struct {
	SiteTitle  string
	HeaderMenu []wordpress.MenuItem
	Footer     []FooterSection
	Year       int
}

type FooterSection struct {
	Title string
	Items []wordpress.MenuItem
}

// CardView is one entry in a listing grid or hero strip.
type CardView struct {
	Title      string // raw CMS HTML, rendered with rawHTML
	Slug       string
	URL        string
	Excerpt    string // plain text
	Date       time.Time
	AuthorName string
	ImageURL   string
	ImageAlt   string
	Categories []wordpress.TermRef
	Sticky     bool
}

type IndexData struct {
	Nav      NavData
	Title    string
	Hero     *CardView
	Latest   []CardView
	News     []CardView
	FeedPath string
}

type ListData struct {
	Nav      NavData
	Title    string
	Heading  string // raw CMS HTML for term names
	Intro    string
	Cards    []CardView
	Page     int
	NextPage int
	PrevPage int
	BasePath string
}

type ArticleData struct {
	Nav        NavData
	Title      string // raw CMS HTML
	Content    string // raw CMS HTML
	Date       time.Time
	Modified   time.Time
	AuthorName string
	AvatarURL  string
	ImageURL   string
	ImageAlt   string
	Categories []wordpress.TermRef
	Tags       []wordpress.TermRef
	Fields     map[string]wordpress.FieldValue
	Canonical  string
}

type NotFoundData struct {
	Nav   NavData
	Title string
	Path  string
}

func cardForPost(p wordpress.Post) CardView {
	return CardView{
		Title:   p.Title,
		Slug:    p.Slug,
		URL:     "/posts/" + p.Slug,
		Excerpt: excerptText(p.Excerpt, cardExcerptLength),
		Date:    p.Date,
		Sticky:  p.Sticky,
	}
}

func cardForPostDetails(p wordpress.PostDetails) CardView {
	card := cardForPost(p.Post)
	card.Categories = p.CategoryDetails
	if p.Author != nil {
		card.AuthorName = p.Author.Name
	}
	if p.FeaturedImage != nil {
		card.ImageURL = p.FeaturedImage.SourceURL
		card.ImageAlt = p.FeaturedImage.AltText
	}
	return card
}

func cardForItemDetails(it wordpress.ItemDetails, basePath string) CardView {
	card := CardView{
		Title:   it.Title,
		Slug:    it.Slug,
		URL:     basePath + "/" + it.Slug,
		Excerpt: excerptText(it.Excerpt, cardExcerptLength),
		Date:    it.Date,
	}
	card.Categories = it.CategoryDetails
	if it.Author != nil {
		card.AuthorName = it.Author.Name
	}
	if it.FeaturedImage != nil {
		card.ImageURL = it.FeaturedImage.SourceURL
		card.ImageAlt = it.FeaturedImage.AltText
	}
	return card
}

func articleForPost(p wordpress.PostDetails) ArticleData {
	art := ArticleData{
		Title:      p.Title,
		Content:    p.Content,
		Date:       p.Date,
		Modified:   p.Modified,
		Categories: p.CategoryDetails,
		Tags:       p.TagDetails,
		Canonical:  p.Link,
	}
	if p.Author != nil {
		art.AuthorName = p.Author.Name
		art.AvatarURL = avatarURL(p.Author)
	}
	if p.FeaturedImage != nil {
		art.ImageURL = p.FeaturedImage.SourceURL
		art.ImageAlt = p.FeaturedImage.AltText
	}
	return art
}

func articleForItem(it wordpress.ItemDetails) ArticleData {
	art := ArticleData{
		Title:      it.Title,
		Content:    it.Content,
		Date:       it.Date,
		Modified:   it.Modified,
		Categories: it.CategoryDetails,
		Tags:       it.TagDetails,
		Fields:     it.CustomFields,
		Canonical:  it.Link,
	}
	if it.Author != nil {
		art.AuthorName = it.Author.Name
		art.AvatarURL = avatarURL(it.Author)
	}
	if it.FeaturedImage != nil {
		art.ImageURL = it.FeaturedImage.SourceURL
		art.ImageAlt = it.FeaturedImage.AltText
	}
	return art
}

func articleForPage(p wordpress.PageDetails) ArticleData {
	art := ArticleData{
		Title:     p.Title,
		Content:   p.Content,
		Date:      p.Date,
		Modified:  p.Modified,
		Canonical: p.Link,
	}
	if p.Author != nil {
		art.AuthorName = p.Author.Name
		art.AvatarURL = avatarURL(p.Author)
	}
	if p.FeaturedImage != nil {
		art.ImageURL = p.FeaturedImage.SourceURL
		art.ImageAlt = p.FeaturedImage.AltText
	}
	return art
}

// avatarURL picks the largest avatar WordPress offers (keys are pixel sizes).
func avatarURL(a *wordpress.Author) string {
	for _, size := range []string{"96", "48", "24"} {
		if u, ok := a.AvatarURLs[size]; ok {
			return u
		}
	}
	for _, u := range a.AvatarURLs {
		return u
	}
	return ""
}

// heroAndLatest picks the hero card (first sticky post, else the newest)
// and the remaining cards in feed order.
func heroAndLatest(posts []wordpress.PostDetails) (*CardView, []CardView) {
	if len(posts) == 0 {
		return nil, nil
	}

	heroIdx := 0
	for i, p := range posts {
		if p.Sticky {
			heroIdx = i
			break
		}
	}

	hero := cardForPostDetails(posts[heroIdx])
	latest := make([]CardView, 0, len(posts)-1)
	for i, p := range posts {
		if i == heroIdx {
			continue
		}
		latest = append(latest, cardForPostDetails(p))
	}
	return &hero, latest
}
