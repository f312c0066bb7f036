// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds author-year citations in manuscript body text.
//
// Extraction runs an ordered list of rules, each proposing candidates, then
// tags every candidate with its section and settles overlaps in a single
// resolver pass.
package extract

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pdiddy/citecheck/pkg/types"
)

// idNamespace scopes citation IDs so they never collide with other
// name-based UUIDs.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("citecheck/citation"))

// Extract returns the citations in body, ordered by position and, within a
// split group, by group index. The result is a pure function of body.
func Extract(body string) []types.Citation {
	claims := &Claims{}
	var candidates []types.Citation
	for _, r := range Rules {
		candidates = append(candidates, r.Find(body, claims)...)
	}

	citations := Resolve(candidates)

	sections := FindSections(body)
	for i := range citations {
		citations[i].Section = sections.At(citations[i].Position)
		citations[i].ID = citationID(citations[i])
	}
	return citations
}

// citationID derives a stable identifier from the citation's location.
func citationID(c types.Citation) string {
	key := fmt.Sprintf("%d:%d:%d", c.Position, c.EndPosition, c.GroupIndex)
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}
