// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibliography

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/citecheck/pkg/types"
)

// WriteBibTeX writes refs as @article entries. Keys match the CSL IDs.
func WriteBibTeX(refs []types.Reference, w io.Writer) error {
	_, err := io.WriteString(w, FormatBibTeX(refs))
	return err
}

// FormatBibTeX renders refs as BibTeX. Authors are joined with "and" and
// fields without a value are omitted.
func FormatBibTeX(refs []types.Reference) string {
	items := ToCSL(refs)
	var b strings.Builder
	for i, r := range refs {
		fmt.Fprintf(&b, "@article{%s,\n", items[i].ID)
		if items[i].Title != "" {
			fmt.Fprintf(&b, "  title = {%s},\n", items[i].Title)
		}
		if len(r.Authors) > 0 {
			fmt.Fprintf(&b, "  author = {%s},\n", strings.Join(r.Authors, " and "))
		}
		if r.Year != "" {
			fmt.Fprintf(&b, "  year = {%s},\n", r.Year)
		}
		if items[i].DOI != "" {
			fmt.Fprintf(&b, "  doi = {%s},\n", items[i].DOI)
		}
		b.WriteString("}\n\n")
	}
	return b.String()
}
