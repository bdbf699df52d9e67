// internal/wordpress/normalize.go
// Mapping from raw API objects to the flat view models in types.go.
package wordpress

import (
	"encoding/json"
	"time"
)

// WordPress emits local-time timestamps without a zone offset; GMT variants
// exist but the original site renders the local ones.
const wpTimeLayout = "2006-01-02T15:04:05"

// standardItemFields lists the fixed WordPress fields on a custom post type
// response. Everything outside this set is a custom field.
var standardItemFields = map[string]struct{}{
	"id":             {},
	"date":           {},
	"date_gmt":       {},
	"guid":           {},
	"modified":       {},
	"modified_gmt":   {},
	"slug":           {},
	"status":         {},
	"type":           {},
	"link":           {},
	"title":          {},
	"content":        {},
	"excerpt":        {},
	"author":         {},
	"featured_media": {},
	"template":       {},
	"class_list":     {},
	"_links":         {},
	"_embedded":      {},
}

func parseWPTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(wpTimeLayout, s); err == nil {
		return t
	}
	// Some installs are configured to emit full RFC 3339 stamps.
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func normalizePost(raw rawPost) Post {
	categories := raw.Categories
	if categories == nil {
		categories = []int{}
	}
	tags := raw.Tags
	if tags == nil {
		tags = []int{}
	}
	format := raw.Format
	if format == "" {
		format = "standard"
	}
	return Post{
		ID:            raw.ID,
		Slug:          raw.Slug,
		Title:         raw.Title.Rendered,
		Content:       raw.Content.Rendered,
		Excerpt:       raw.Excerpt.Rendered,
		Date:          parseWPTime(raw.Date),
		Modified:      parseWPTime(raw.Modified),
		AuthorID:      raw.Author,
		FeaturedMedia: raw.FeaturedMedia,
		Link:          raw.Link,
		Categories:    categories,
		Tags:          tags,
		Format:        format,
		Sticky:        raw.Sticky,
		CommentStatus: raw.CommentStatus,
	}
}

func normalizePage(raw rawPage) Page {
	return Page{
		ID:            raw.ID,
		Slug:          raw.Slug,
		Title:         raw.Title.Rendered,
		Content:       raw.Content.Rendered,
		Excerpt:       raw.Excerpt.Rendered,
		Date:          parseWPTime(raw.Date),
		Modified:      parseWPTime(raw.Modified),
		AuthorID:      raw.Author,
		FeaturedMedia: raw.FeaturedMedia,
		Link:          raw.Link,
	}
}

// splitTerms flattens the wp:term parallel arrays into category and tag
// reference lists, discriminating on the taxonomy field.
func splitTerms(embedded *rawEmbedded) (categories, tags []TermRef) {
	if embedded == nil {
		return nil, nil
	}
	for _, group := range embedded.Terms {
		for _, term := range group {
			ref := TermRef{ID: term.ID, Name: term.Name, Slug: term.Slug}
			switch term.Taxonomy {
			case "category":
				categories = append(categories, ref)
			case "post_tag":
				tags = append(tags, ref)
			}
		}
	}
	return categories, tags
}

func firstAuthor(embedded *rawEmbedded) *Author {
	if embedded == nil || len(embedded.Author) == 0 {
		return nil
	}
	a := embedded.Author[0]
	return &a
}

func firstMedia(embedded *rawEmbedded) *Media {
	if embedded == nil || len(embedded.FeaturedMedia) == 0 {
		return nil
	}
	m := embedded.FeaturedMedia[0]
	return &m
}

func normalizePostDetails(raw rawPost) PostDetails {
	categories, tags := splitTerms(raw.Embedded)
	return PostDetails{
		Post:            normalizePost(raw),
		Author:          firstAuthor(raw.Embedded),
		FeaturedImage:   firstMedia(raw.Embedded),
		CategoryDetails: categories,
		TagDetails:      tags,
	}
}

func normalizePageDetails(raw rawPage) PageDetails {
	return PageDetails{
		Page:          normalizePage(raw),
		Author:        firstAuthor(raw.Embedded),
		FeaturedImage: firstMedia(raw.Embedded),
	}
}

// normalizeItemBytes decodes one custom-post-type object. The fixed fields
// go through rawItem; the same bytes are decoded a second time as a generic
// object so keys outside the standard set can be collected as custom fields.
func normalizeItemBytes(data []byte) (Item, error) {
	var raw rawItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return Item{}, err
	}

	var generic map[string]json.RawMessage
	if err := json.Unmarshal(data, &generic); err != nil {
		return Item{}, err
	}

	var customFields map[string]FieldValue
	for key, value := range generic {
		if _, ok := standardItemFields[key]; ok {
			continue
		}
		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			continue
		}
		if customFields == nil {
			customFields = make(map[string]FieldValue)
		}
		customFields[key] = fieldValueOf(decoded)
	}

	return Item{
		ID:            raw.ID,
		Slug:          raw.Slug,
		Title:         raw.Title.Rendered,
		Content:       raw.Content.Rendered,
		Excerpt:       raw.Excerpt.Rendered,
		Date:          parseWPTime(raw.Date),
		Modified:      parseWPTime(raw.Modified),
		AuthorID:      raw.Author,
		FeaturedMedia: raw.FeaturedMedia,
		Link:          raw.Link,
		Type:          raw.Type,
		Status:        raw.Status,
		Template:      raw.Template,
		ClassList:     raw.ClassList,
		CustomFields:  customFields,
	}, nil
}

func normalizeItemDetailsBytes(data []byte) (ItemDetails, error) {
	item, err := normalizeItemBytes(data)
	if err != nil {
		return ItemDetails{}, err
	}

	var raw rawItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return ItemDetails{}, err
	}

	categories, tags := splitTerms(raw.Embedded)
	return ItemDetails{
		Item:            item,
		Author:          firstAuthor(raw.Embedded),
		FeaturedImage:   firstMedia(raw.Embedded),
		CategoryDetails: categories,
		TagDetails:      tags,
	}, nil
}
