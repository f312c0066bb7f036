// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"regexp"
	"strings"

	"github.com/pdiddy/citecheck/internal/bibliography"
	"github.com/pdiddy/citecheck/internal/citekey"
	"github.com/pdiddy/citecheck/pkg/types"
)

// Mode classifies a citation-generation input.
type Mode string

const (
	ModeUnknown   Mode = "unknown"
	ModeDOI       Mode = "doi"
	ModeReference Mode = "reference"
	ModeTitle     Mode = "title"
	ModeKeyword   Mode = "keyword"
)

var (
	// doiPattern matches a DOI anywhere in the input: "10.1145/1234567.1234568".
	doiPattern    = regexp.MustCompile(`(?i)\b(10\.\d{4,9}/\S+)`)
	doiURLPrefix  = regexp.MustCompile(`(?i)^(?:https?://(?:dx\.)?doi\.org/|doi:\s*)`)
	parenYearRe   = regexp.MustCompile(`\(\s*\d{4}\s*\)`)
	refYearRe     = regexp.MustCompile(`\((\d{4})\)`)
	authorSplitRe = regexp.MustCompile(`[,;&]\s*|\sand\s`)
	journalRe     = regexp.MustCompile(`\*([^*]+)\*`)
	quotePairs    = [][2]string{{`"`, `"`}, {`'`, `'`}, {"“", "”"}}
)

// DetectMode classifies input. A DOI anywhere wins; a fully quoted string
// is a title; a parenthesized year preceded by a comma-bearing author part
// is a reference; any other non-empty text is a keyword query.
func DetectMode(input string) Mode {
	s := strings.TrimSpace(input)
	switch {
	case s == "":
		return ModeUnknown
	case ExtractDOI(s) != "":
		return ModeDOI
	case isQuoted(s):
		return ModeTitle
	case parenYearRe.MatchString(s) && strings.Contains(strings.SplitN(s, "(", 2)[0], ","):
		return ModeReference
	default:
		return ModeKeyword
	}
}

// ExtractDOI returns the DOI contained in input, or "" if there is none.
// doi.org URLs and "doi:" prefixes are accepted.
func ExtractDOI(input string) string {
	if m := doiPattern.FindStringSubmatch(input); m != nil {
		return strings.TrimRight(m[1], ".,;")
	}
	s := strings.TrimSpace(input)
	if loc := doiURLPrefix.FindStringIndex(s); loc != nil && loc[1] < len(s) {
		return strings.TrimRight(s[loc[1]:], ".,;")
	}
	return ""
}

func isQuoted(s string) bool {
	for _, q := range quotePairs {
		if len(s) > len(q[0])+len(q[1]) && strings.HasPrefix(s, q[0]) && strings.HasSuffix(s, q[1]) {
			return true
		}
	}
	return false
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range quotePairs {
		if strings.HasPrefix(s, q[0]) && strings.HasSuffix(s, q[1]) && len(s) >= len(q[0])+len(q[1]) {
			return strings.TrimSpace(s[len(q[0]) : len(s)-len(q[1])])
		}
	}
	return s
}

// ParseReference extracts work metadata from a free-text APA reference.
// Authors keep their "Surname, I." form when initials are present; the
// year defaults to "n.d.".
func ParseReference(text string) types.WorkMetadata {
	text = strings.TrimSpace(text)
	meta := types.WorkMetadata{
		Title:   bibliography.Title(text),
		DOI:     bibliography.DOI(text),
		Year:    citekey.NoDate,
		Authors: []string{},
	}
	if m := journalRe.FindStringSubmatch(text); m != nil {
		meta.Journal = strings.TrimSpace(m[1])
	}

	if refs := bibliography.ParseReferences(text); len(refs) == 1 && len(refs[0].Authors) > 0 {
		meta.Authors = refs[0].Authors
		meta.Year = refs[0].Year
		return meta
	}

	if m := refYearRe.FindStringSubmatch(text); m != nil {
		meta.Year = m[1]
	}
	head, _, _ := strings.Cut(text, "(")
	for _, a := range authorSplitRe.Split(strings.TrimSpace(head), -1) {
		if a = strings.TrimSpace(a); a != "" {
			meta.Authors = append(meta.Authors, a)
		}
	}
	return meta
}
