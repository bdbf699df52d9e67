// internal/server/htmltext.go
// Plain-text extraction for listing excerpts. Upstream content and excerpt
// fields arrive as raw CMS HTML; cards and feed descriptions want text.
package server

import (
	"strings"

	"golang.org/x/net/html"
)

// skippedElements never contribute visible text.
var skippedElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
}

// stripHTML tokenizes the fragment and keeps only text content, collapsing
// runs of whitespace. Malformed markup degrades gracefully: the tokenizer
// yields whatever text it can before the error and we use it.
func stripHTML(input string) string {
	if input == "" {
		return ""
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(input))
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if _, skip := skippedElements[string(name)]; skip {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if _, skip := skippedElements[string(name)]; skip && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(tokenizer.Text())
				b.WriteByte(' ')
			}
		}
	}
}

// truncateText shortens text to maxLength, preferring a word boundary.
func truncateText(input string, maxLength int) string {
	if input == "" || maxLength <= 0 {
		return ""
	}
	if len(input) <= maxLength {
		return input
	}

	actualLength := maxLength - 3
	if actualLength <= 0 {
		return "..."
	}

	text := input[:actualLength]
	if lastSpace := strings.LastIndex(text, " "); lastSpace > actualLength/2 {
		text = text[:lastSpace]
	}
	return text + "..."
}

// excerptText turns a raw HTML excerpt into display text of at most
// maxLength characters.
func excerptText(input string, maxLength int) string {
	return truncateText(stripHTML(input), maxLength)
}
