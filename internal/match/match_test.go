// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citecheck/internal/citekey"
	"github.com/pdiddy/citecheck/pkg/types"
)

func keyed(refs ...types.Reference) []types.KeyedReference {
	for i := range refs {
		refs[i].ID = i + 1
	}
	return citekey.Keyed(refs)
}

func cite(id, text string) types.Citation {
	return types.Citation{ID: id, Text: text, OriginalText: text, Type: types.Parenthetical, Section: "Introduction"}
}

func TestMatchCitationsUnique(t *testing.T) {
	refs := keyed(
		types.Reference{Authors: []string{"Aly, M.", "Kojima, H."}, Year: "2020"},
		types.Reference{Authors: []string{"Lopez-Calderon, J.", "Luck, S. J."}, Year: "2014"},
		types.Reference{Authors: []string{"Cooke, M."}, Year: "2015"},
	)
	cits := []types.Citation{
		cite("a", "(Aly & Kojima, 2020)"),
		cite("b", "(Lopez-Calderon & Luck, 2014)"),
	}

	res := MatchCitations(cits, refs)

	assert.Empty(t, res.Missing)
	assert.Equal(t, map[int]bool{1: true, 2: true}, res.Cited)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, res.Matched)
}

func TestMatchCitationsMissingWithSuggestion(t *testing.T) {
	refs := keyed(types.Reference{Authors: []string{"Aly, M.", "Kojima, H."}, Year: "2020"})

	res := MatchCitations([]types.Citation{cite("k", "(Kojima, 2020)")}, refs)

	require.Len(t, res.Missing, 1)
	miss := res.Missing[0]
	assert.Equal(t, "(Kojima, 2020)", miss.Citation)
	assert.Equal(t, types.Parenthetical, miss.Type)
	assert.Equal(t, "Introduction", miss.Section)
	assert.Equal(t, "Did you mean (Aly & Kojima, 2020)?", miss.Suggestion)
	assert.Empty(t, res.Cited)
}

func TestMatchCitationsMissingWithoutSuggestion(t *testing.T) {
	refs := keyed(types.Reference{Authors: []string{"Aly, M.", "Kojima, H."}, Year: "2020"})

	tests := []struct {
		name string
		text string
	}{
		{"wrong year", "(Kojima, 2019)"},
		{"unknown author", "(Nobody, 2020)"},
		{"no author", "(the 2020 survey)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := MatchCitations([]types.Citation{cite("x", tt.text)}, refs)
			require.Len(t, res.Missing, 1)
			assert.Empty(t, res.Missing[0].Suggestion)
		})
	}
}

func TestMatchCitationsAmbiguous(t *testing.T) {
	refs := keyed(
		types.Reference{Authors: []string{"Smith, J."}, Year: "2020"},
		types.Reference{Authors: []string{"Smith, J.", "Lee, K."}, Year: "2020"},
		types.Reference{Authors: []string{"Smith, J.", "Lee, K.", "Park, M."}, Year: "2020"},
	)

	tests := []struct {
		name    string
		text    string
		wantRef int
	}{
		{"single author key", "(Smith, 2020)", 1},
		{"two author key", "(Smith & Lee, 2020)", 2},
		{"two author key with and", "(Smith and Lee, 2020)", 2},
		{"et al. key", "(Smith et al., 2020)", 3},
		{"et al. key with stray comma", "(Smith, et al., 2020)", 3},
		{"unresolved", "(Smith & Park, 2020)", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := MatchCitations([]types.Citation{cite("c", tt.text)}, refs)
			if tt.wantRef == 0 {
				require.Len(t, res.Missing, 1)
				assert.Empty(t, res.Missing[0].Suggestion)
				assert.Empty(t, res.Cited)
				return
			}
			assert.Empty(t, res.Missing)
			assert.Equal(t, map[int]bool{tt.wantRef: true}, res.Cited)
		})
	}
}

func TestMatchCitationsNoReferences(t *testing.T) {
	cits := []types.Citation{cite("a", "(Aly, 2020)"), cite("b", "Cooke (2015)")}
	res := MatchCitations(cits, nil)
	assert.Len(t, res.Missing, 2)
	assert.Empty(t, res.Cited)
}

func TestMatchCitationsDoesNotMutateInputs(t *testing.T) {
	refs := keyed(types.Reference{Authors: []string{"Aly, M."}, Year: "2020"})
	cits := []types.Citation{cite("a", "(Aly, 2020)")}
	refsCopy := append([]types.KeyedReference(nil), refs...)
	citsCopy := append([]types.Citation(nil), cits...)

	first := MatchCitations(cits, refs)
	second := MatchCitations(cits, refs)

	assert.Equal(t, first, second)
	assert.Equal(t, refsCopy, refs)
	assert.Equal(t, citsCopy, cits)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(Smith, et al., 2020)", "(smith et al., 2020)"},
		{"(Smith et al 2020)", "(smith et al., 2020)"},
		{"(Smith and Lee,2020)", "(smith & lee, 2020)"},
		{"Smith AND Lee (2020)", "smith & lee (2020)"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(tt.in))
		})
	}
}
