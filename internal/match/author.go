// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match pairs in-text citations with bibliography entries by lead
// author and year.
package match

import (
	"regexp"
	"strings"

	"github.com/pdiddy/citecheck/internal/citekey"
)

// authorTrim is stripped from both ends of an author region.
const authorTrim = ",;.& "

var (
	yearRe         = regexp.MustCompile(`\d{4}`)
	trailingEtAlRe = regexp.MustCompile(`(?i),?\s*et\s+al\.?$`)
	andRe          = regexp.MustCompile(`(?i)\s+and\s+`)
	leadSurnameRe  = regexp.MustCompile(`^(` + citekey.ParticlePattern + `?[A-Z][a-zA-Z\-']+)`)
	particleRe     = regexp.MustCompile(`^` + citekey.ParticlePattern)
)

// AuthorYear returns the lead author's surname and the first four-digit
// year of a citation's text. Both are empty when text has no year; the
// author alone is empty when no capitalized surname precedes the year.
func AuthorYear(text string) (author, year string) {
	text = strings.TrimSpace(text)
	year = yearRe.FindString(text)
	if year == "" {
		return "", ""
	}
	return leadSurname(authorRegion(text, year)), year
}

// ExtractLeadAuthor returns the surname of the first author named in a
// citation, e.g. "Lopez-Calderon" for "(Lopez-Calderon & Luck, 2014)" or
// "De Menezes" for "(De Menezes et al., 2019)".
func ExtractLeadAuthor(text string) string {
	author, _ := AuthorYear(text)
	return author
}

// authorRegion isolates the text naming the authors: inside the brackets
// for parenthetical forms, before "(" for narrative forms, and before the
// year otherwise.
func authorRegion(text, year string) string {
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		return beforeYear(text[1:len(text)-1], year)
	}
	if i := strings.IndexByte(text, '('); i > 0 {
		return text[:i]
	}
	return beforeYear(strings.TrimSuffix(text, ")"), year)
}

func beforeYear(s, year string) string {
	if i := strings.Index(s, year); i > 0 {
		return s[:i]
	}
	return ""
}

// leadSurname reduces an author region to its first surname: "et al." is
// dropped, the list is cut at the first "&" or "and", and anything after a
// comma (initials or further authors) is discarded.
func leadSurname(region string) string {
	s := strings.Trim(strings.TrimSpace(region), authorTrim)
	s = strings.TrimSpace(trailingEtAlRe.ReplaceAllString(s, ""))

	if i := strings.IndexByte(s, '&'); i >= 0 {
		s = s[:i]
	} else if loc := andRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(strings.TrimSpace(s), authorTrim)

	m := leadSurnameRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

// SameSurname reports whether a citation's author names the surname of a
// reference author given as "Surname, Initials". Comparison ignores case,
// and a citation may omit a leading particle ("Berg" for "van der Berg").
func SameSurname(citationAuthor, referenceAuthor string) bool {
	a := strings.ToLower(strings.TrimSpace(citationAuthor))
	if a == "" {
		return false
	}
	b := strings.ToLower(citekey.Surname(referenceAuthor))
	return a == b || particleRe.ReplaceAllString(b, "") == a
}
