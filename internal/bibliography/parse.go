// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibliography

import (
	"regexp"
	"strings"

	"github.com/pdiddy/citecheck/internal/citekey"
	"github.com/pdiddy/citecheck/pkg/types"
)

var (
	// entryStartRes match lines that look like the start of a new entry:
	// "Surname, I", "Surname (" and "Surname, &", with an optional particle.
	entryStartRes = []*regexp.Regexp{
		regexp.MustCompile(`^` + citekey.ParticlePattern + `?[A-Z][a-zA-Z\-']+,\s+[A-Z]`),
		regexp.MustCompile(`^` + citekey.ParticlePattern + `?[A-Z][a-zA-Z\-']+\s+\(`),
		regexp.MustCompile(`^[A-Z][a-zA-Z\-']+,\s+&`),
	}

	// yearTokenRes detect whether an accumulated entry already has a year:
	// "(2020)", ", 1998." or " 1998.".
	yearTokenRes = []*regexp.Regexp{
		regexp.MustCompile(`\(\d{4}\)`),
		regexp.MustCompile(`,\s*\d{4}\.`),
		regexp.MustCompile(`\s+\d{4}\.`),
	}

	parenYearRe = regexp.MustCompile(`\((\d{4})\)`)
	bareYearRe  = regexp.MustCompile(`[,\s](\d{4})\.`)

	// authorInitialsRe matches "Surname, Initials" groups. The surname may
	// contain hyphens, apostrophes and spaces (De Menezes, van der Berg);
	// initials cover "J.", "S. J." and "Y.-K.".
	authorInitialsRe = regexp.MustCompile(`(` + citekey.ParticlePattern + `?[A-Z][a-zA-Z\-'\s]+?),\s*([A-Z][\.\-\s]*[A-Z]*[\.\s]*[A-Z]*\.?)`)

	etAlRe        = regexp.MustCompile(`(?i)\bet\s+al\.?`)
	bareSurnameRe = regexp.MustCompile(`^([A-Z][a-zA-Z\-'\s]+?)(?:\s+[A-Z]\.|\s*$)`)
)

func isEntryStart(line string) bool {
	for _, re := range entryStartRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func hasYearToken(entry string) bool {
	for _, re := range yearTokenRes {
		if re.MatchString(entry) {
			return true
		}
	}
	return false
}

// MergeEntries joins wrapped physical lines into one string per entry.
// A line opens a new entry only if it starts like an author list and the
// entry accumulated so far already contains a year; anything else is a
// continuation. A trailing entry without a year is discarded.
func MergeEntries(bib string) []string {
	var entries []string
	var current string

	for _, line := range strings.Split(bib, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || IsHeading(line) {
			continue
		}

		if isEntryStart(line) && current != "" && hasYearToken(current) {
			entries = append(entries, strings.TrimSpace(current))
			current = line
			continue
		}

		if current != "" {
			current += " " + line
		} else {
			current = line
		}
	}

	if current != "" && hasYearToken(current) {
		entries = append(entries, strings.TrimSpace(current))
	}
	return entries
}

// ParseReferences parses bibliography text into references. Entries with
// no detectable year or authors are dropped.
func ParseReferences(bib string) []types.Reference {
	if strings.TrimSpace(bib) == "" {
		return nil
	}

	var refs []types.Reference
	for i, entry := range MergeEntries(bib) {
		ref, ok := parseEntry(i+1, entry)
		if ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// parseEntry extracts the year and the author list from one merged entry.
func parseEntry(id int, entry string) (types.Reference, bool) {
	year, authorsEnd := findYear(entry)
	if year == "" {
		return types.Reference{}, false
	}

	authors := parseAuthors(strings.TrimSpace(entry[:authorsEnd]))
	if len(authors) == 0 {
		return types.Reference{}, false
	}

	return types.Reference{
		ID:      id,
		RawText: entry,
		Authors: authors,
		Year:    year,
	}, true
}

// findYear locates the publication year, preferring "(YYYY)" over
// ", YYYY." and " YYYY.". It returns the year and the offset where the
// author region ends.
func findYear(entry string) (string, int) {
	if m := parenYearRe.FindStringSubmatchIndex(entry); m != nil {
		return entry[m[2]:m[3]], m[0]
	}
	if m := bareYearRe.FindStringSubmatchIndex(entry); m != nil {
		return entry[m[2]:m[3]], m[0]
	}
	return "", 0
}

// parseAuthors turns the author region into "Surname, Initials." strings.
// When no initials are present it falls back to bare surnames split on
// "&" and ",".
func parseAuthors(region string) []string {
	var authors []string
	for _, m := range authorInitialsRe.FindAllStringSubmatch(region, -1) {
		surname := strings.TrimSpace(m[1])
		initials := strings.TrimRight(strings.TrimSpace(m[2]), ".") + "."
		authors = append(authors, surname+", "+initials)
	}
	if len(authors) > 0 {
		return authors
	}

	seen := make(map[string]bool)
	cleaned := etAlRe.ReplaceAllString(region, "")
	for _, part := range strings.FieldsFunc(cleaned, func(r rune) bool { return r == '&' || r == ',' }) {
		m := bareSurnameRe.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		surname := strings.TrimRight(strings.TrimSpace(m[1]), ".,")
		if surname == "" || seen[surname] {
			continue
		}
		seen[surname] = true
		authors = append(authors, surname)
	}
	return authors
}
