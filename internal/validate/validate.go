// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks citations against APA 7 author-year style rules.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/citecheck/internal/match"
	"github.com/pdiddy/citecheck/pkg/types"
)

// Violation messages. Templates with verbs are filled in with fmt.Sprintf.
const (
	MsgEtAlRequired      = `three or more authors must be cited with "et al.", e.g. %s`
	MsgBothAuthors       = `two authors must both be named, e.g. %s`
	MsgMissingOpenParen  = `missing opening parenthesis "("`
	MsgCommaBeforeEtAl   = `no comma is allowed before "et al."`
	MsgEtAlPeriod        = `"et al." requires a period`
	MsgCommaAfterEtAl    = `"et al." must be followed by a comma, e.g. (Author et al., 2020)`
	MsgSpaceAfterEtAl    = `"et al.," must be followed by a space, e.g. (Author et al., 2020)`
	MsgMultiYear         = `years of the same author are separated by semicolons with the author repeated, e.g. (%s, %s; %s, %s)`
	MsgAmpersandRequired = `parenthetical citations use "&" instead of "and"`
	MsgAndRequired       = `narrative citations use "and" instead of "&"`
	MsgParensRequired    = `parenthetical citations must be enclosed in parentheses`
	MsgNotAPA            = `format does not follow APA 7 guidelines`
	messageSeparator     = " / "
)

var (
	etAlNoPeriodRe   = regexp.MustCompile(`\bet al[,\s]`)
	etAlNoCommaRe    = regexp.MustCompile(`et al\.\s*\d{4}`)
	etAlNoSpaceRe    = regexp.MustCompile(`et al\.,\d{4}`)
	multiYearRe      = regexp.MustCompile(`([A-Z][a-z]+(?:\s+et al\.|(?:\s+&\s+[A-Z][a-z]+))?),\s*(\d{4}),\s*(\d{4})`)
	andWordRe        = regexp.MustCompile(`(?i)\band\b`)
	parentheticalRe  = regexp.MustCompile(`^\([A-Za-z][^)]*\d{4}[^)]*\)`)
	narrativeShapeRe = regexp.MustCompile(`^[A-Za-z]+.*\(\d{4}\)`)
)

// Validate checks every citation and returns one FormatError per citation
// with at least one violation, in citation order.
func Validate(citations []types.Citation, refs []types.KeyedReference) []types.FormatError {
	var errs []types.FormatError
	for _, c := range citations {
		msgs := Check(c, refs)
		if len(msgs) == 0 {
			continue
		}
		errs = append(errs, types.FormatError{
			Citation: reported(c),
			Type:     c.Type,
			Section:  c.Section,
			Error:    strings.Join(msgs, messageSeparator),
		})
	}
	return errs
}

// reported is the text shown to the user: the whole group for semicolon
// problems and the source text for malformed citations.
func reported(c types.Citation) string {
	switch {
	case len(c.SemicolonErrors) > 0 && c.GroupText != "":
		return c.GroupText
	case c.Malformed:
		return c.OriginalText
	default:
		return c.Text
	}
}

// Check returns every style violation in c. The author-count rules consult
// the first reference whose first author and year match the citation.
func Check(c types.Citation, refs []types.KeyedReference) []string {
	text := c.Text
	var msgs []string

	msgs = append(msgs, authorCount(text, refs)...)

	if c.Malformed {
		msgs = append(msgs, MsgMissingOpenParen)
	}
	msgs = append(msgs, c.SemicolonErrors...)
	msgs = append(msgs, etAlPunctuation(text, c.Type)...)

	if m := multiYear(c); m != "" {
		msgs = append(msgs, m)
	}

	switch c.Type {
	case types.Parenthetical:
		if andWordRe.MatchString(text) {
			msgs = append(msgs, MsgAmpersandRequired)
		}
	case types.Narrative:
		before, _, _ := strings.Cut(text, "(")
		if strings.Contains(before, "&") {
			msgs = append(msgs, MsgAndRequired)
		}
	}

	valid := false
	switch c.Type {
	case types.Parenthetical:
		valid = parentheticalRe.MatchString(text)
		if !valid && !strings.HasPrefix(text, "(") {
			msgs = append(msgs, MsgParensRequired)
		}
	case types.Narrative:
		valid = narrativeShapeRe.MatchString(text)
	}
	if len(msgs) == 0 && !valid {
		msgs = append(msgs, MsgNotAPA)
	}
	return msgs
}

func authorCount(text string, refs []types.KeyedReference) []string {
	author, year := match.AuthorYear(text)
	if author == "" || year == "" {
		return nil
	}
	candidates := match.Candidates(author, year, refs)
	if len(candidates) == 0 {
		return nil
	}
	ref := candidates[0]

	hasEtAl := strings.Contains(text, "et al.")
	switch n := len(ref.Authors); {
	case n >= 3 && !hasEtAl:
		return []string{fmt.Sprintf(MsgEtAlRequired, ref.Parenthetical)}
	case n == 2 && hasEtAl:
		return []string{fmt.Sprintf(MsgBothAuthors, ref.Parenthetical)}
	}
	return nil
}

func etAlPunctuation(text string, typ types.CitationType) []string {
	var msgs []string
	if strings.Contains(text, ", et al.") {
		msgs = append(msgs, MsgCommaBeforeEtAl)
	}
	if etAlNoPeriodRe.MatchString(text) && !strings.Contains(text, "et al.") {
		msgs = append(msgs, MsgEtAlPeriod)
	}
	if typ == types.Parenthetical {
		if etAlNoCommaRe.MatchString(text) {
			msgs = append(msgs, MsgCommaAfterEtAl)
		} else if etAlNoSpaceRe.MatchString(text) {
			msgs = append(msgs, MsgSpaceAfterEtAl)
		}
	}
	return msgs
}

// multiYear flags "Author, Y1, Y2". Citations split out of such a list
// are checked against their source text, and only the sibling carrying the
// first year reports it.
func multiYear(c types.Citation) string {
	if c.Type != types.Parenthetical {
		return ""
	}
	text := c.Text
	if c.FromMultiYear {
		text = c.OriginalText
	}
	m := multiYearRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if c.FromMultiYear {
		if _, year := match.AuthorYear(c.Text); year != m[2] {
			return ""
		}
	}
	return fmt.Sprintf(MsgMultiYear, m[1], m[2], m[1], m[3])
}
