// Package extract pulls contact details and page metadata out of raw HTML.
//
// The patterns are deliberately loose; the phone pattern in particular will
// match some non-phone numeric strings. That is a known limitation pinned by
// tests, not a bug to tighten quietly.
package extract

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/Irina-Kostina/business-search-tool/internal/model"
)

// maxScanChars caps the body text handed to the regex scanners. Bounds regex
// cost on pathological pages.
const maxScanChars = 8000

var (
	emailPattern     = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern     = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
	instagramPattern = regexp.MustCompile(`https?://(?:www\.)?instagram\.com/[^\s"']+`)
	facebookPattern  = regexp.MustCompile(`https?://(?:www\.)?facebook\.com/[^\s"']+`)
)

// CleanText collapses runs of whitespace to single spaces and trims the ends.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Emails returns every email-shaped substring, deduplicated, in first-seen
// order. Matching is case-sensitive exact.
func Emails(text string) []string {
	return dedup(emailPattern.FindAllString(text, -1))
}

// Phones returns every phone-shaped substring, trimmed and deduplicated, in
// first-seen order.
func Phones(text string) []string {
	matches := phonePattern.FindAllString(text, -1)
	for i, m := range matches {
		matches[i] = strings.TrimSpace(m)
	}
	return dedup(matches)
}

// SocialLinks returns the first Instagram and Facebook profile URLs found in
// the text, or "" where there is no match. Later matches are ignored.
func SocialLinks(text string) (instagram, facebook string) {
	return instagramPattern.FindString(text), facebookPattern.FindString(text)
}

// NameGuess picks a business name: page title, else the URL's host, else the
// raw URL. Never empty for a non-empty URL.
func NameGuess(title, rawURL string) string {
	if title != "" {
		return title
	}
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return u.Host
	}
	return rawURL
}

// Parse extracts a lead from raw page content. Empty or unreadable content
// yields Unparsable; malformed markup degrades to empty fields, never an
// error.
func Parse(content, pageURL, query string) model.ParseResult {
	if content == "" {
		return model.Unparsable()
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return model.Unparsable()
	}

	title := CleanText(doc.Find("title").First().Text())
	description := CleanText(doc.Find(`meta[name="description"]`).First().AttrOr("content", ""))

	body := visibleText(doc)
	if runes := []rune(body); len(runes) > maxScanChars {
		body = string(runes[:maxScanChars])
	}

	emails := Emails(body)
	phones := Phones(body)
	instagram, facebook := SocialLinks(body)

	return model.Parsed(model.Lead{
		Timestamp:    time.Now(),
		SearchQuery:  query,
		BusinessName: NameGuess(title, pageURL),
		Website:      pageURL,
		Title:        title,
		Description:  description,
		Emails:       emails,
		Phones:       phones,
		Instagram:    instagram,
		Facebook:     facebook,
	})
}

// visibleText renders the document's visible text with element boundaries as
// single spaces. Script, style, and noscript content is not visible.
func visibleText(doc *goquery.Document) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	for _, n := range root.Nodes {
		walk(n)
	}

	return CleanText(b.String())
}

func dedup(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
