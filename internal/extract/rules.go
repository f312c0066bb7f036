// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/citecheck/pkg/types"
)

// A Rule proposes candidate citations found in body. Rules that own
// bracketed spans record them in claims; later rules may consult claims to
// avoid re-reading text an earlier rule already explained.
type Rule struct {
	Name string
	Find func(body string, claims *Claims) []types.Citation
}

// Rules is the extraction pipeline, in evaluation order.
var Rules = []Rule{
	{Name: "parenthetical", Find: findParenthetical},
	{Name: "malformed", Find: findMalformed},
	{Name: "narrative", Find: findNarrative},
}

// Claims holds the bracket spans accepted by the parenthetical rule.
type Claims struct {
	spans []types.Span
}

// Overlaps reports whether s intersects any claimed span.
func (c *Claims) Overlaps(s types.Span) bool {
	for _, claimed := range c.spans {
		if claimed.Overlaps(s) {
			return true
		}
	}
	return false
}

// Add claims s.
func (c *Claims) Add(s types.Span) {
	c.spans = append(c.spans, s)
}

var (
	// parentheticalRes match bracketed spans that open with a letter and
	// contain a four-digit year: plain, "et al." and "&" forms.
	parentheticalRes = []*regexp.Regexp{
		regexp.MustCompile(`\([A-Za-z][^)]*\d{4}[^)]*\)`),
		regexp.MustCompile(`\([A-Za-z][^)]*et al\.[^)]*\d{4}[^)]*\)`),
		regexp.MustCompile(`\([A-Za-z][^)]*&[^)]*\d{4}[^)]*\)`),
	}

	// malformedRes match citation tails missing their opening parenthesis,
	// e.g. "Wang et al., 2024)" or "Wang & Smith, 2024)".
	malformedRes = []*regexp.Regexp{
		regexp.MustCompile(`[A-Z][a-z]+\s+et al\.,\s*\d{4}\)`),
		regexp.MustCompile(`[A-Z][a-z]+(?:\s+&\s+[A-Z][a-z]+)?,\s*\d{4}\)`),
	}

	narrativeRes = []*regexp.Regexp{
		regexp.MustCompile(`[A-Za-z]+\s+\(\d{4}\)`),
		regexp.MustCompile(`[A-Za-z]+\s+et al\.\s+\(\d{4}\)`),
		regexp.MustCompile(`[A-Za-z]+\s+and\s+[A-Za-z]+\s+\(\d{4}\)`),
		regexp.MustCompile(`[A-Za-z]+\s+&\s+[A-Za-z]+\s+\(\d{4}\)`),
	}

	// multiYearRe matches one author naming several comma-separated years,
	// as in "Wang et al., 2015, 2016".
	multiYearRe = regexp.MustCompile(`([A-Z][a-z]+(?:\s+et al\.|(?:\s+&\s+[A-Z][a-z]+))?),\s*(\d{4}),\s*(\d{4})`)

	yearRe              = regexp.MustCompile(`\d{4}`)
	spaceBeforeSemiRe   = regexp.MustCompile(`\s;`)
	missingSpaceAfterRe = regexp.MustCompile(`;[^\s)]`)
)

// Semicolon spacing problems recorded on the first citation of a group.
const (
	ErrSpaceBeforeSemicolon  = "no space is allowed before a semicolon"
	ErrNoSpaceAfterSemicolon = "a semicolon must be followed by a space, e.g. (Author A, 2015; Author B, 2016)"
)

func findParenthetical(body string, claims *Claims) []types.Citation {
	var out []types.Citation
	for _, re := range parentheticalRes {
		for _, loc := range re.FindAllStringIndex(body, -1) {
			span := types.Span{Start: loc[0], End: loc[1]}
			if claims.Overlaps(span) {
				continue
			}
			claims.Add(span)
			out = append(out, expandBracket(body, span)...)
		}
	}
	return out
}

// expandBracket turns one claimed bracket into citations. A bracket with
// semicolons yields one grouped citation per year-bearing segment; a
// segment naming one author with several years yields one citation per
// year. Anything else is a single citation covering the bracket.
func expandBracket(body string, span types.Span) []types.Citation {
	text := body[span.Start:span.End]
	inner := text[1 : len(text)-1]

	if !strings.Contains(inner, ";") {
		if multiYearRe.MatchString(inner) {
			return splitYears(text, span, span, text, false, 0)
		}
		return []types.Citation{{
			Text:           text,
			OriginalText:   text,
			Type:           types.Parenthetical,
			Position:       span.Start,
			EndPosition:    span.End,
			HasParentheses: true,
		}}
	}

	var semiErrs []string
	if spaceBeforeSemiRe.MatchString(text) {
		semiErrs = append(semiErrs, ErrSpaceBeforeSemicolon)
	}
	if missingSpaceAfterRe.MatchString(text) {
		semiErrs = append(semiErrs, ErrNoSpaceAfterSemicolon)
	}

	var out []types.Citation
	offset := span.Start + 1
	for _, raw := range strings.Split(inner, ";") {
		segStart := offset
		offset += len(raw) + 1

		part := strings.TrimSpace(raw)
		if part == "" || !yearRe.MatchString(part) {
			continue
		}
		lead := strings.Index(raw, part)
		seg := types.Span{Start: segStart + lead, End: segStart + lead + len(part)}

		if multiYearRe.MatchString(part) {
			out = append(out, splitYears(text, span, seg, part, true, len(out))...)
			continue
		}
		out = append(out, types.Citation{
			Text:              "(" + part + ")",
			OriginalText:      part,
			Type:              types.Parenthetical,
			Position:          seg.Start,
			EndPosition:       seg.End,
			Group:             &types.Span{Start: span.Start, End: span.End},
			GroupIndex:        len(out),
			GroupText:         text,
			HasParentheses:    true,
			FromMultiCitation: true,
		})
	}

	if len(out) > 0 && len(semiErrs) > 0 {
		out[0].SemicolonErrors = semiErrs
	}
	return out
}

// splitYears expands "Author, Y1, Y2" in segment into one citation per
// year. Both siblings cover seg and share the bracket as their group.
func splitYears(groupText string, group, seg types.Span, segment string, fromMulti bool, firstIndex int) []types.Citation {
	m := multiYearRe.FindStringSubmatch(segment)
	author := m[1]

	out := make([]types.Citation, 0, 2)
	for i, year := range m[2:4] {
		out = append(out, types.Citation{
			Text:              fmt.Sprintf("(%s, %s)", author, year),
			OriginalText:      segment,
			Type:              types.Parenthetical,
			Position:          seg.Start,
			EndPosition:       seg.End,
			Group:             &types.Span{Start: group.Start, End: group.End},
			GroupIndex:        firstIndex + i,
			GroupText:         groupText,
			HasParentheses:    true,
			FromMultiCitation: fromMulti,
			FromMultiYear:     true,
		})
	}
	return out
}

// findMalformed reports citation tails that lack "(". A match directly
// preceded by "(" is not malformed, and neither is one inside a claimed
// bracket.
func findMalformed(body string, claims *Claims) []types.Citation {
	var out []types.Citation
	for _, re := range malformedRes {
		for from := 0; from < len(body); {
			loc := re.FindStringIndex(body[from:])
			if loc == nil {
				break
			}
			start, end := from+loc[0], from+loc[1]
			if start > 0 && body[start-1] == '(' {
				from = start + 1
				continue
			}
			from = end

			if claims.Overlaps(types.Span{Start: start, End: end}) {
				continue
			}
			match := body[start:end]
			out = append(out, types.Citation{
				Text:         "(" + match,
				OriginalText: match,
				Type:         types.Parenthetical,
				Position:     start,
				EndPosition:  end,
				Malformed:    true,
			})
		}
	}
	return out
}

func findNarrative(body string, _ *Claims) []types.Citation {
	var out []types.Citation
	for _, re := range narrativeRes {
		for _, loc := range re.FindAllStringIndex(body, -1) {
			text := body[loc[0]:loc[1]]
			out = append(out, types.Citation{
				Text:           text,
				OriginalText:   text,
				Type:           types.Narrative,
				Position:       loc[0],
				EndPosition:    loc[1],
				HasParentheses: true,
			})
		}
	}
	return out
}
