// Package rss builds the RSS 2.0 document served at /feed. WordPress sites
// expose a feed; a front-end replacing the rendered site keeps that surface.
package rss

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"
)

// RSS is the root element of an RSS feed.
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel Channel  `xml:"channel"`
}

// Channel represents the channel element in an RSS feed.
type Channel struct {
	XMLName       xml.Name `xml:"channel"`
	Title         string   `xml:"title"`
	Link          string   `xml:"link"`
	Description   string   `xml:"description"`
	Language      string   `xml:"language,omitempty"`
	Generator     string   `xml:"generator,omitempty"`
	LastBuildDate string   `xml:"lastBuildDate,omitempty"` // RFC1123Z
	Items         []Item   `xml:"item"`
}

// Item represents an item element in an RSS feed.
type Item struct {
	XMLName     xml.Name `xml:"item"`
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description,omitempty"`
	PubDate     string   `xml:"pubDate,omitempty"` // RFC1123Z
	GUID        string   `xml:"guid,omitempty"`
}

// New assembles a feed document for the given channel metadata.
func New(title, link, description string, now time.Time) *RSS {
	return &RSS{
		Version: "2.0",
		Channel: Channel{
			Title:         title,
			Link:          link,
			Description:   description,
			Language:      "en-us",
			Generator:     "newsfront",
			LastBuildDate: FormatTime(now),
		},
	}
}

// Append adds one item to the channel.
func (r *RSS) Append(title, link, description string, published time.Time) {
	r.Channel.Items = append(r.Channel.Items, Item{
		Title:       title,
		Link:        link,
		Description: description,
		PubDate:     FormatTime(published),
		GUID:        link,
	})
}

// Write marshals the document with an XML header to w.
func (r *RSS) Write(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding rss: %w", err)
	}
	return enc.Flush()
}

// FormatTime renders a timestamp the way RSS readers expect. Zero times
// render empty so the element is omitted.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC1123Z)
}
