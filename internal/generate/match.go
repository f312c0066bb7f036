// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"regexp"
	"strings"

	"github.com/pdiddy/citecheck/internal/citekey"
	"github.com/pdiddy/citecheck/pkg/types"
)

// titleOverlap is the token Jaccard similarity at which two titles are
// taken to name the same work.
const titleOverlap = 0.6

var (
	nonAlnumRe = regexp.MustCompile(`[^0-9a-z]`)
	tokenRe    = regexp.MustCompile(`[0-9a-z]+`)
)

// SelectBest picks the most plausible journal article from catalog search
// results. Preference order:
//  1. a real title with authors, a year and a non-fragment DOI
//  2. a real title with a year
//  3. a real title with a non-fragment DOI
//  4. anything with authors
//  5. the first result
//
// A real title does not name a table or figure. Fragment DOIs point at
// figures, tables, supplements or appendices.
func SelectBest(metas []types.WorkMetadata) (types.WorkMetadata, bool) {
	if len(metas) == 0 {
		return types.WorkMetadata{}, false
	}

	tiers := []func(m types.WorkMetadata) bool{
		func(m types.WorkMetadata) bool {
			return realTitle(m.Title) && len(m.Authors) > 0 && hasYear(m.Year) && !fragmentDOI(m.DOI)
		},
		func(m types.WorkMetadata) bool { return realTitle(m.Title) && hasYear(m.Year) },
		func(m types.WorkMetadata) bool { return realTitle(m.Title) && !fragmentDOI(m.DOI) },
		func(m types.WorkMetadata) bool { return len(m.Authors) > 0 },
	}
	for _, ok := range tiers {
		for _, m := range metas {
			if ok(m) {
				return m, true
			}
		}
	}
	return metas[0], true
}

func realTitle(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return false
	}
	if strings.HasPrefix(t, "table") || strings.HasPrefix(t, "figure") {
		return false
	}
	lead, _, _ := strings.Cut(t, ":")
	return !strings.Contains(lead, "table") && !strings.Contains(lead, "figure")
}

func hasYear(year string) bool {
	return year != "" && year != citekey.NoDate
}

func fragmentDOI(doi string) bool {
	d := strings.ToLower(doi)
	for _, frag := range []string{"/fig", "/table", "/supp", "/append"} {
		if strings.Contains(d, frag) {
			return true
		}
	}
	return false
}

// SameWork reports whether a and b appear to describe the same work: equal
// normalized titles, title token overlap of at least 60%, or the same year
// and first-author family name.
func SameWork(a, b types.WorkMetadata) bool {
	na, nb := normalizeTitle(a.Title), normalizeTitle(b.Title)
	if na != "" && na == nb {
		return true
	}

	if jaccard(tokenSet(a.Title), tokenSet(b.Title)) >= titleOverlap {
		return true
	}

	if a.Year == "" || a.Year != b.Year {
		return false
	}
	fa, fb := firstFamily(a.Authors), firstFamily(b.Authors)
	return fa != "" && fa == fb
}

func normalizeTitle(s string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(s), "")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range tokenRe.FindAllString(strings.ToLower(s), -1) {
		set[t] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if b[t] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func firstFamily(authors []string) string {
	if len(authors) == 0 {
		return ""
	}
	return strings.ToLower(citekey.Surname(authors[0]))
}
