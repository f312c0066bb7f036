// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OverallStatus is the severity tier of an analysis.
type OverallStatus string

const (
	StatusExcellent          OverallStatus = "excellent"
	StatusGood               OverallStatus = "good"
	StatusNeedsRevision      OverallStatus = "needs_revision"
	StatusNeedsMajorRevision OverallStatus = "needs_major_revision"
)

// Rank orders the tiers from best (0) to worst (3). Unknown values rank -1.
func (s OverallStatus) Rank() int {
	switch s {
	case StatusExcellent:
		return 0
	case StatusGood:
		return 1
	case StatusNeedsRevision:
		return 2
	case StatusNeedsMajorRevision:
		return 3
	default:
		return -1
	}
}

// FormatError reports style violations found in one citation.
type FormatError struct {
	Citation string       `json:"citation" yaml:"citation"`
	Type     CitationType `json:"type" yaml:"type"`
	Section  string       `json:"section" yaml:"section"`
	// Error holds every violation message joined with " / ".
	Error string `json:"error" yaml:"error"`
}

// MissingReference reports a citation with no matching bibliography entry.
type MissingReference struct {
	Citation   string       `json:"citation" yaml:"citation"`
	Type       CitationType `json:"type" yaml:"type"`
	Section    string       `json:"section" yaml:"section"`
	Suggestion string       `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// CitationStatus reports whether a reference is cited in the body.
type CitationStatus struct {
	Reference      string `json:"reference" yaml:"reference"`
	AuthorsDisplay string `json:"authors_display" yaml:"authors_display"`
	Year           string `json:"year" yaml:"year"`
	Parenthetical  string `json:"parenthetical" yaml:"parenthetical"`
	Narrative      string `json:"narrative" yaml:"narrative"`
	Cited          bool   `json:"cited" yaml:"cited"`
}

// Summary aggregates the report counts into a severity tier.
type Summary struct {
	TotalErrors   int           `json:"total_errors" yaml:"total_errors"`
	TotalMissing  int           `json:"total_missing" yaml:"total_missing"`
	TotalUncited  int           `json:"total_uncited" yaml:"total_uncited"`
	OverallStatus OverallStatus `json:"overall_status" yaml:"overall_status"`
	StatusMessage string        `json:"status_message" yaml:"status_message"`
}

// Report is the result of analyzing one manuscript.
type Report struct {
	FormatErrors      []FormatError      `json:"format_errors" yaml:"format_errors"`
	MissingReferences []MissingReference `json:"missing_references" yaml:"missing_references"`
	CitationStatus    []CitationStatus   `json:"citation_status" yaml:"citation_status"`
	TotalReferences   int                `json:"total_references" yaml:"total_references"`
	TotalCitations    int                `json:"total_citations" yaml:"total_citations"`
	Summary           Summary            `json:"summary" yaml:"summary"`
}
