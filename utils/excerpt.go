package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup from stored article HTML and collapses whitespace.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt returns up to maxRunes of plain text from the HTML, cut on a word
// boundary with a trailing ellipsis when truncated.
func Excerpt(html string, maxRunes int) string {
	text := PlainText(html)
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:maxRunes])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}

// MetaDescription extracts the "Meta Description:" line the editorial
// generator is instructed to place near the top of each article. Falls back
// to a plain-text excerpt when the label is absent.
func MetaDescription(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		var meta string
		doc.Find("p,div,em,span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if rest, ok := strings.CutPrefix(text, "Meta Description:"); ok {
				meta = strings.TrimSpace(rest)
				return false
			}
			return true
		})
		if meta != "" {
			return Excerpt(meta, 160)
		}
	}
	return Excerpt(html, 160)
}
