// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citekey renders author-year citation keys and reference strings.
package citekey

import (
	"fmt"
	"strings"

	"github.com/pdiddy/citecheck/pkg/types"
)

// NoDate is the year placeholder used when a work has no publication year.
const NoDate = "n.d."

// EtAlThreshold is the author count from which only the first author is
// named, followed by "et al.".
const EtAlThreshold = 3

// ParticlePattern matches a lowercase or capitalized surname particle and
// its trailing space, as in "De Menezes" or "van der Berg". It is meant to
// be embedded, optionally, in front of a surname pattern.
const ParticlePattern = `(?:(?:[Vv]an\s+[Dd]e[nr]|[Vv]an|[Vv]on|[Dd]e[lr]?|[Dd][aiu]|[Ll][ae])\s+)`

// FormatKey returns the parenthetical and narrative keys for an ordered
// author list and year. Rules:
//   - 1 author:  (Smith, 2020)          / Smith (2020)
//   - 2 authors: (Smith & Lee, 2020)    / Smith and Lee (2020)
//   - 3+:        (Smith et al., 2020)   / Smith et al. (2020)
func FormatKey(authors []string, year string) types.CitationKeys {
	if year == "" {
		year = NoDate
	}
	if len(authors) == 0 {
		return types.CitationKeys{
			Parenthetical: fmt.Sprintf("(Unknown, %s)", year),
			Narrative:     fmt.Sprintf("Unknown (%s)", year),
		}
	}

	first := Surname(authors[0])
	switch {
	case len(authors) == 1:
		return types.CitationKeys{
			Parenthetical: fmt.Sprintf("(%s, %s)", first, year),
			Narrative:     fmt.Sprintf("%s (%s)", first, year),
		}
	case len(authors) < EtAlThreshold:
		second := Surname(authors[1])
		return types.CitationKeys{
			Parenthetical: fmt.Sprintf("(%s & %s, %s)", first, second, year),
			Narrative:     fmt.Sprintf("%s and %s (%s)", first, second, year),
		}
	default:
		return types.CitationKeys{
			Parenthetical: fmt.Sprintf("(%s et al., %s)", first, year),
			Narrative:     fmt.Sprintf("%s et al. (%s)", first, year),
		}
	}
}

// Surname returns the family-name part of an author string in
// "Surname, Initials" form. Strings without a comma are returned trimmed.
func Surname(author string) string {
	if i := strings.IndexByte(author, ','); i >= 0 {
		return strings.TrimSpace(author[:i])
	}
	return strings.TrimSpace(author)
}

// Keyed attaches citation keys to each reference, preserving order.
func Keyed(refs []types.Reference) []types.KeyedReference {
	keyed := make([]types.KeyedReference, len(refs))
	for i, r := range refs {
		keyed[i] = types.KeyedReference{
			Reference:    r,
			CitationKeys: FormatKey(r.Authors, r.Year),
		}
	}
	return keyed
}

// FormatReference renders work metadata as a reference-list entry:
//
//	Authors (Year). Title. *Journal*. https://doi.org/DOI
func FormatReference(meta types.WorkMetadata) string {
	year := meta.Year
	if year == "" {
		year = NoDate
	}
	authors := strings.Join(meta.Authors, ", ")
	ref := fmt.Sprintf("%s (%s). %s. *%s*.", authors, year, meta.Title, meta.Journal)
	if meta.DOI != "" {
		ref += " https://doi.org/" + meta.DOI
	}
	return ref
}
