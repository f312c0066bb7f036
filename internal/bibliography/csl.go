// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibliography

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citecheck/internal/citekey"
	"github.com/pdiddy/citecheck/pkg/types"
)

// CSLItem is a parsed reference in CSL-YAML form, consumable by Pandoc and
// reference managers.
type CSLItem struct {
	ID     string    `yaml:"id"`
	Type   string    `yaml:"type"`
	Title  string    `yaml:"title,omitempty"`
	Author []CSLName `yaml:"author,omitempty"`
	Issued *CSLDate  `yaml:"issued,omitempty"`
	DOI    string    `yaml:"DOI,omitempty"`
}

// CSLName is a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

var (
	titleRe = regexp.MustCompile(`\)\.\s*([^.?!]+[.?!]?)`)
	doiRe   = regexp.MustCompile(`10\.\d{4,9}/[^\s]+`)
)

// WriteCSL writes refs as a CSL-YAML list to w.
func WriteCSL(refs []types.Reference, w io.Writer) error {
	items := ToCSL(refs)
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encoding CSL: %w", err)
	}
	return nil
}

// ToCSL converts references to CSL items. IDs are "surnameYYYY" keys with
// a letter suffix when two references collide.
func ToCSL(refs []types.Reference) []CSLItem {
	items := make([]CSLItem, len(refs))
	seen := make(map[string]int)
	for i, r := range refs {
		items[i] = toCSLItem(r)

		base := items[i].ID
		seen[base]++
		if n := seen[base]; n > 1 {
			items[i].ID = base + string(rune('a'+n-1))
		}
	}
	return items
}

func toCSLItem(r types.Reference) CSLItem {
	item := CSLItem{
		ID:    citeID(r),
		Type:  "article-journal",
		Title: Title(r.RawText),
		DOI:   DOI(r.RawText),
	}
	for _, a := range r.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	if year, err := strconv.Atoi(r.Year); err == nil {
		item.Issued = &CSLDate{DateParts: [][]int{{year}}}
	}
	return item
}

// Title returns the sentence following the "(Year)." marker of a reference
// entry, without its closing period.
func Title(entry string) string {
	m := titleRe.FindStringSubmatch(entry)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(m[1], "."))
}

// DOI returns the first DOI found in a reference entry.
func DOI(entry string) string {
	return strings.TrimRight(doiRe.FindString(entry), ".,;")
}

func citeID(r types.Reference) string {
	name := "anon"
	if len(r.Authors) > 0 {
		name = strings.ToLower(citekey.Surname(r.Authors[0]))
		name = strings.Map(func(c rune) rune {
			if c == ' ' || c == '\'' {
				return -1
			}
			return c
		}, name)
	}
	return name + r.Year
}

// parseAuthorName splits "Surname, I. J." into family and given parts.
// Names without a comma use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	family, given, ok := strings.Cut(name, ",")
	if !ok {
		return CSLName{Literal: name}
	}
	return CSLName{
		Family: strings.TrimSpace(family),
		Given:  strings.TrimSpace(given),
	}
}
