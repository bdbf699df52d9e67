// internal/wordpress/types.go
// Raw WordPress REST API shapes and the flat view models handed to rendering.
package wordpress

import (
	"encoding/json"
	"time"
)

// rendered is the {rendered: "..."} wrapper WordPress puts around HTML fields.
type rendered struct {
	Rendered string `json:"rendered"`
}

// rawTerm is one entry of the wp:term embed. The embed arrives as parallel
// arrays, one per taxonomy; entries are told apart by the Taxonomy field.
type rawTerm struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Taxonomy string `json:"taxonomy"`
}

// rawEmbedded is the _embedded side-channel returned for _embed requests.
type rawEmbedded struct {
	Author        []Author    `json:"author"`
	FeaturedMedia []Media     `json:"wp:featuredmedia"`
	Terms         [][]rawTerm `json:"wp:term"`
}

type rawPost struct {
	ID            int          `json:"id"`
	Date          string       `json:"date"`
	Modified      string       `json:"modified"`
	Slug          string       `json:"slug"`
	Link          string       `json:"link"`
	Title         rendered     `json:"title"`
	Content       rendered     `json:"content"`
	Excerpt       rendered     `json:"excerpt"`
	Author        int          `json:"author"`
	FeaturedMedia int          `json:"featured_media"`
	CommentStatus string       `json:"comment_status"`
	Sticky        bool         `json:"sticky"`
	Format        string       `json:"format"`
	Categories    []int        `json:"categories"`
	Tags          []int        `json:"tags"`
	Embedded      *rawEmbedded `json:"_embedded"`
}

type rawPage struct {
	ID            int          `json:"id"`
	Date          string       `json:"date"`
	Modified      string       `json:"modified"`
	Slug          string       `json:"slug"`
	Link          string       `json:"link"`
	Title         rendered     `json:"title"`
	Content       rendered     `json:"content"`
	Excerpt       rendered     `json:"excerpt"`
	Author        int          `json:"author"`
	FeaturedMedia int          `json:"featured_media"`
	Embedded      *rawEmbedded `json:"_embedded"`
}

// rawItem covers custom post types. The fixed fields are decoded normally;
// a second pass over the raw object collects everything else into the
// custom-fields bag (see normalizeItemBytes).
type rawItem struct {
	ID            int          `json:"id"`
	Date          string       `json:"date"`
	Modified      string       `json:"modified"`
	Slug          string       `json:"slug"`
	Status        string       `json:"status"`
	Type          string       `json:"type"`
	Link          string       `json:"link"`
	Title         rendered     `json:"title"`
	Content       rendered     `json:"content"`
	Excerpt       rendered     `json:"excerpt"`
	Author        int          `json:"author"`
	FeaturedMedia int          `json:"featured_media"`
	Template      string       `json:"template"`
	ClassList     []string     `json:"class_list"`
	Embedded      *rawEmbedded `json:"_embedded"`
}

// Author is a WordPress user as returned by /users/{id} or the author embed.
type Author struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Link        string            `json:"link"`
	Description string            `json:"description"`
	AvatarURLs  map[string]string `json:"avatar_urls"`
}

// Media is an attachment as returned by /media/{id} or the featured-media embed.
type Media struct {
	ID           int          `json:"id"`
	SourceURL    string       `json:"source_url"`
	AltText      string       `json:"alt_text"`
	MimeType     string       `json:"mime_type"`
	MediaDetails MediaDetails `json:"media_details"`
}

type MediaDetails struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	File   string `json:"file"`
}

// Term is a category or tag as returned by the taxonomy endpoints.
type Term struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Taxonomy    string `json:"taxonomy"`
	Count       int    `json:"count"`
}

// TermRef is the best-effort taxonomy enrichment derived from the wp:term
// embed. The authoritative relation is the id list on the post; these may be
// absent when the upstream omits the embed.
type TermRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Post is the flattened view model for a WordPress post. Title, Content and
// Excerpt carry raw upstream HTML; escaping or sanitizing them is the
// rendering layer's responsibility, never this package's.
type Post struct {
	ID            int
	Slug          string
	Title         string
	Content       string
	Excerpt       string
	Date          time.Time
	Modified      time.Time
	AuthorID      int
	FeaturedMedia int
	Link          string
	Categories    []int
	Tags          []int
	Format        string
	Sticky        bool
	CommentStatus string
}

// PostDetails is a Post with its embedded relations resolved.
type PostDetails struct {
	Post
	Author          *Author
	FeaturedImage   *Media
	CategoryDetails []TermRef
	TagDetails      []TermRef
}

// Page is the flattened view model for a WordPress page. The same raw-HTML
// caveat as Post applies.
type Page struct {
	ID            int
	Slug          string
	Title         string
	Content       string
	Excerpt       string
	Date          time.Time
	Modified      time.Time
	AuthorID      int
	FeaturedMedia int
	Link          string
}

type PageDetails struct {
	Page
	Author        *Author
	FeaturedImage *Media
}

// Item is the flattened view model for a custom post type entry.
// CustomFields holds every top-level key of the raw object outside the
// standard WordPress field set, or nil when there are none.
type Item struct {
	ID            int
	Slug          string
	Title         string
	Content       string
	Excerpt       string
	Date          time.Time
	Modified      time.Time
	AuthorID      int
	FeaturedMedia int
	Link          string
	Type          string
	Status        string
	Template      string
	ClassList     []string
	CustomFields  map[string]FieldValue
}

type ItemDetails struct {
	Item
	Author          *Author
	FeaturedImage   *Media
	CategoryDetails []TermRef
	TagDetails      []TermRef
}

// Menu is a named navigation menu from the custom /menus/{name} endpoint.
type Menu struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	Slug  string     `json:"slug"`
	Items []MenuItem `json:"items"`
}

// MenuItem titles may contain arbitrary HTML from the CMS; one level of
// nesting is supported.
type MenuItem struct {
	ID       int        `json:"id"`
	Title    string     `json:"title"`
	URL      string     `json:"url"`
	Children []MenuItem `json:"children,omitempty"`
}

// FieldKind discriminates the FieldValue variant.
type FieldKind int

const (
	KindNull FieldKind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

// FieldValue is a tagged variant for open-ended custom fields: a string,
// number, boolean, array or nested object, preserved without collapsing
// everything to strings.
type FieldValue struct {
	Kind   FieldKind
	Str    string
	Num    float64
	Bool   bool
	List   []FieldValue
	Object map[string]FieldValue
}

// String renders a field value for display. Arrays and objects re-encode as
// JSON so templates always get something printable.
func (v FieldValue) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		b, _ := json.Marshal(v.Num)
		return string(b)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindArray, KindObject:
		b, _ := json.Marshal(v.toInterface())
		return string(b)
	default:
		return ""
	}
}

func (v FieldValue) toInterface() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	case KindArray:
		out := make([]any, 0, len(v.List))
		for _, e := range v.List {
			out = append(out, e.toInterface())
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.Object))
		for k, e := range v.Object {
			out[k] = e.toInterface()
		}
		return out
	default:
		return nil
	}
}

// fieldValueOf converts a decoded JSON value into the tagged variant.
func fieldValueOf(raw any) FieldValue {
	switch val := raw.(type) {
	case string:
		return FieldValue{Kind: KindString, Str: val}
	case float64:
		return FieldValue{Kind: KindNumber, Num: val}
	case bool:
		return FieldValue{Kind: KindBool, Bool: val}
	case []any:
		list := make([]FieldValue, 0, len(val))
		for _, e := range val {
			list = append(list, fieldValueOf(e))
		}
		return FieldValue{Kind: KindArray, List: list}
	case map[string]any:
		obj := make(map[string]FieldValue, len(val))
		for k, e := range val {
			obj[k] = fieldValueOf(e)
		}
		return FieldValue{Kind: KindObject, Object: obj}
	default:
		return FieldValue{Kind: KindNull}
	}
}
