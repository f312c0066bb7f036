// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records shared across the citecheck pipeline:
// bibliography references, in-text citations, and the analysis report.
package types

// Reference is one parsed bibliography entry.
type Reference struct {
	// ID is the 1-based sequence number of the entry in bibliography order.
	ID int `json:"id" yaml:"id"`

	// RawText is the merged source line(s) for this entry.
	RawText string `json:"raw_text" yaml:"raw_text"`

	// Authors lists the authors in order of appearance, each as
	// "Surname, Initials." (or a bare surname when no initials were found).
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the four-digit publication year. Entries without a year are
	// never stored.
	Year string `json:"year" yaml:"year"`
}

// CitationKeys holds the two author-year renderings of a reference.
type CitationKeys struct {
	// Parenthetical is the bracketed form, e.g. "(Smith & Lee, 2020)".
	Parenthetical string `json:"parenthetical" yaml:"parenthetical"`

	// Narrative is the in-prose form, e.g. "Smith and Lee (2020)".
	Narrative string `json:"narrative" yaml:"narrative"`
}

// KeyedReference is a Reference together with its derived citation keys.
// It lives only for the duration of one analysis.
type KeyedReference struct {
	Reference
	CitationKeys
}

// WorkMetadata describes a bibliographic work returned by a catalog lookup
// or parsed from a free-text reference.
type WorkMetadata struct {
	Title     string   `json:"title" yaml:"title"`
	Authors   []string `json:"authors" yaml:"authors"`
	Year      string   `json:"year" yaml:"year"`
	Journal   string   `json:"journal" yaml:"journal"`
	DOI       string   `json:"doi" yaml:"doi"`
	Publisher string   `json:"publisher,omitempty" yaml:"publisher,omitempty"`
}
