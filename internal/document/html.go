// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelector lists the elements that carry manuscript paragraphs.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, blockquote, figcaption"

// HTMLLoader reads HTML manuscripts, keeping headings and paragraphs as
// separate lines.
type HTMLLoader struct{}

// Load implements Loader.
func (HTMLLoader) Load(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("script, style, noscript, nav").Remove()

	var lines []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks (p inside li) are emitted by the inner element.
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			lines = append(lines, text)
		}
	})

	if len(lines) == 0 {
		// Bare text without block markup.
		if text := strings.TrimSpace(doc.Find("body").Text()); text != "" {
			return text, nil
		}
	}
	return strings.Join(lines, "\n"), nil
}
