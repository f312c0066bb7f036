// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibliography separates a manuscript's reference list from its body
// and parses the list into Reference records.
package bibliography

import (
	"strings"
	"unicode/utf8"
)

// headingTitles are the accepted reference-section headings, lowercased.
var headingTitles = map[string]bool{
	"references":    true,
	"reference":     true,
	"bibliography":  true,
	"works cited":   true,
	"literatur":     true, // German
	"bibliographie": true, // French
	"參考文獻":          true, // Traditional Chinese
	"参考文献":          true, // Simplified Chinese
}

// fallbackRatio is the body share used when no heading is found.
const fallbackRatio = 0.8

// IsHeading reports whether line, on its own, is a reference-section heading.
func IsHeading(line string) bool {
	return headingTitles[strings.ToLower(strings.TrimSpace(line))]
}

// Split separates text into the body and the bibliography at the last
// reference-section heading. The last heading wins so that a table of
// contents or an earlier subsection with the same title does not cut the
// document short. When no heading exists, the text is split positionally
// at 80% and found is false.
func Split(text string) (body, bib string, found bool) {
	start, end := -1, -1
	for offset := 0; offset <= len(text); {
		lineEnd := len(text)
		nl := strings.IndexByte(text[offset:], '\n')
		if nl >= 0 {
			lineEnd = offset + nl
		}
		if IsHeading(text[offset:lineEnd]) {
			start, end = offset, lineEnd
		}
		if nl < 0 {
			break
		}
		offset = lineEnd + 1
	}

	if start >= 0 {
		if end < len(text) {
			end++ // the heading's newline
		}
		return text[:start], text[end:], true
	}

	cut := int(float64(len(text)) * fallbackRatio)
	for cut > 0 && cut < len(text) && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut], text[cut:], false
}
