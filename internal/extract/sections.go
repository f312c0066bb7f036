// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

// DefaultSection names the region before the first recognized heading.
const DefaultSection = "Document Start"

// sectionHeadings map a heading line to its canonical section name. A
// heading may carry numbering such as "2.", "3.1" or "4 ".
var sectionHeadings = []struct {
	re   *regexp.Regexp
	name string
}{
	{headingRe(`Abstract`), "Abstract"},
	{headingRe(`Introduction`), "Introduction"},
	{headingRe(`Methods?`), "Methods"},
	{headingRe(`Materials?\s+and\s+Methods?`), "Methods"},
	{headingRe(`Results?`), "Results"},
	{headingRe(`Findings?`), "Results"},
	{headingRe(`Discussion`), "Discussion"},
	{headingRe(`Conclusions?`), "Conclusion"},
	{headingRe(`References?`), "References"},
	{headingRe(`Background`), "Background"},
	{headingRe(`Experiments?`), "Experiments"},
}

func headingRe(title string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(?:\d+(?:\.\d+)*\.?\s*)?` + title + `$`)
}

type heading struct {
	end  int // byte offset just past the heading line
	name string
}

// Sections is the ordered list of section headings found in a body.
type Sections []heading

// FindSections scans body line by line for section headings.
func FindSections(body string) Sections {
	var found Sections
	for offset := 0; offset < len(body); {
		lineEnd := len(body)
		if nl := strings.IndexByte(body[offset:], '\n'); nl >= 0 {
			lineEnd = offset + nl
		}
		if name, ok := sectionName(body[offset:lineEnd]); ok {
			found = append(found, heading{end: lineEnd, name: name})
		}
		offset = lineEnd + 1
	}
	return found
}

func sectionName(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	for _, h := range sectionHeadings {
		if h.re.MatchString(line) {
			return h.name, true
		}
	}
	return "", false
}

// At returns the name of the last heading that ends at or before pos.
func (s Sections) At(pos int) string {
	name := DefaultSection
	for _, h := range s {
		if h.end > pos {
			break
		}
		name = h.name
	}
	return name
}

// SectionAt returns the section containing byte offset pos of body.
func SectionAt(body string, pos int) string {
	return FindSections(body).At(pos)
}
