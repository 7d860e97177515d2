package provider

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/ltproxy"
)

// errorSnippet reduces an error response body to at most
// ltproxy.MaxSnippetLength characters. HTML bodies (proxy error pages and
// the like) are reduced to their visible text first.
func errorSnippet(body []byte, contentType string) string {
	text := string(body)
	if isHTML(contentType, text) {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			doc.Find("script, style, head").Remove()
			text = strings.Join(strings.Fields(doc.Text()), " ")
		}
	}
	text = strings.TrimSpace(strings.ToValidUTF8(text, "�"))
	return truncate(text, ltproxy.MaxSnippetLength)
}

func isHTML(contentType, body string) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	head := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// truncate cuts s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
