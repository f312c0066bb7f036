// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CitationType distinguishes bracketed from in-prose citations.
type CitationType string

const (
	Parenthetical CitationType = "parenthetical"
	Narrative     CitationType = "narrative"
)

// Span is a half-open [Start, End) byte range in the body text.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Citation is one occurrence of an author-year citation in the body text.
type Citation struct {
	// ID is a stable synthetic identifier derived from the citation's
	// location, so repeated analyses of the same text agree.
	ID string `json:"id" yaml:"id"`

	// Text is the normalized surface form. It is always parenthesized for
	// parenthetical citations, even when the source lacked the "(".
	Text string `json:"text" yaml:"text"`

	// OriginalText is the exact source substring.
	OriginalText string `json:"original_text" yaml:"original_text"`

	Type CitationType `json:"type" yaml:"type"`

	// Position and EndPosition are byte offsets into the body text.
	Position    int `json:"position" yaml:"position"`
	EndPosition int `json:"end_position" yaml:"end_position"`

	// Group is the enclosing bracket span for citations split out of a
	// semicolon group or a comma-separated year list. GroupIndex orders the
	// siblings within it.
	Group      *Span `json:"group,omitempty" yaml:"group,omitempty"`
	GroupIndex int   `json:"group_index" yaml:"group_index"`

	// GroupText is the full source text of the enclosing group.
	GroupText string `json:"group_text,omitempty" yaml:"group_text,omitempty"`

	// Section is the nearest preceding section heading, or "Document Start".
	Section string `json:"section" yaml:"section"`

	HasParentheses    bool `json:"has_parentheses" yaml:"has_parentheses"`
	Malformed         bool `json:"malformed" yaml:"malformed"`
	FromMultiCitation bool `json:"from_multi_citation" yaml:"from_multi_citation"`
	FromMultiYear     bool `json:"from_multi_year" yaml:"from_multi_year"`

	// SemicolonErrors holds separator spacing problems found in the group.
	// Only the first sibling of a group carries them.
	SemicolonErrors []string `json:"semicolon_errors,omitempty" yaml:"semicolon_errors,omitempty"`
}

// Span returns the citation's own byte range.
func (c Citation) Span() Span {
	return Span{Start: c.Position, End: c.EndPosition}
}

// Grouped reports whether the citation was split out of a larger bracket.
func (c Citation) Grouped() bool {
	return c.Group != nil
}
