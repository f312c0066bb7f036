// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/citecheck/pkg/types"
)

// Result is the outcome of matching one document's citations.
type Result struct {
	// Cited holds the IDs of references matched by at least one citation.
	Cited map[int]bool

	// Matched maps citation IDs to the reference each one resolved to.
	Matched map[string]int

	Missing []types.MissingReference
}

// MatchCitations resolves every citation against refs. A citation matches
// the unique reference whose first author and year agree with its lead
// author and year. When several references agree, the citation must also
// contain one of their keys; otherwise it is reported missing rather than
// guessed. MatchCitations does not modify its inputs.
func MatchCitations(citations []types.Citation, refs []types.KeyedReference) Result {
	res := Result{
		Cited:   make(map[int]bool),
		Matched: make(map[string]int),
	}

	for _, c := range citations {
		refID, suggestion, ok := matchOne(c, refs)
		if ok {
			res.Cited[refID] = true
			res.Matched[c.ID] = refID
			continue
		}
		res.Missing = append(res.Missing, types.MissingReference{
			Citation:   c.Text,
			Type:       c.Type,
			Section:    c.Section,
			Suggestion: suggestion,
		})
	}
	return res
}

func matchOne(c types.Citation, refs []types.KeyedReference) (int, string, bool) {
	author, year := AuthorYear(c.Text)
	if author == "" || year == "" {
		for _, r := range refs {
			if keyMatches(c, r) {
				return r.ID, "", true
			}
		}
		return 0, "", false
	}

	candidates := Candidates(author, year, refs)
	switch len(candidates) {
	case 0:
		return 0, suggest(author, year, refs), false
	case 1:
		return candidates[0].ID, "", true
	}

	for _, r := range candidates {
		if keyMatches(c, r) {
			return r.ID, "", true
		}
	}
	return 0, "", false
}

// Candidates returns the references whose first author and year match.
func Candidates(author, year string, refs []types.KeyedReference) []types.KeyedReference {
	var out []types.KeyedReference
	for _, r := range refs {
		if len(r.Authors) == 0 || strings.TrimSpace(r.Year) != year {
			continue
		}
		if SameSurname(author, r.Authors[0]) {
			out = append(out, r)
		}
	}
	return out
}

// suggest looks for a same-year reference that lists author in any
// position, which usually means the citation left out co-authors.
func suggest(author, year string, refs []types.KeyedReference) string {
	for _, r := range refs {
		if strings.TrimSpace(r.Year) != year {
			continue
		}
		for _, a := range r.Authors {
			if SameSurname(author, a) {
				return fmt.Sprintf("Did you mean %s?", r.Parenthetical)
			}
		}
	}
	return ""
}

var (
	etAlSpacingRe = regexp.MustCompile(`et al\.?,?\s*`)
	andWordRe     = regexp.MustCompile(`(?i)\band\b`)
	commaDigitRe  = regexp.MustCompile(`,(\d)`)
)

// normalize canonicalizes "et al." punctuation, "and" versus "&", and the
// space after a comma so that keys and citations compare equal.
func normalize(text string) string {
	text = strings.ReplaceAll(text, ", et al.", " et al.")
	text = strings.ReplaceAll(text, ", et al,", " et al,")
	text = etAlSpacingRe.ReplaceAllString(text, "et al., ")
	text = andWordRe.ReplaceAllString(text, "&")
	text = commaDigitRe.ReplaceAllString(text, ", $1")
	return strings.ToLower(strings.TrimSpace(text))
}

// keyMatches reports whether the citation contains one of the reference's
// keys, or its original text equals the parenthetical key's inner text.
func keyMatches(c types.Citation, r types.KeyedReference) bool {
	text := normalize(c.Text)
	if strings.Contains(text, normalize(r.Parenthetical)) || strings.Contains(text, normalize(r.Narrative)) {
		return true
	}
	p := r.Parenthetical
	if strings.HasPrefix(p, "(") && strings.HasSuffix(p, ")") {
		return normalize(p[1:len(p)-1]) == normalize(c.OriginalText)
	}
	return false
}
