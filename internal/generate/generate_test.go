// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/citecheck/internal/crossref"
	"github.com/pdiddy/citecheck/pkg/types"
)

type fakeCatalog struct {
	byDOI    map[string]types.WorkMetadata
	byTitle  map[string]types.WorkMetadata
	keywords []types.WorkMetadata
	err      error
	lookups  []string
}

func (f *fakeCatalog) LookupDOI(_ context.Context, doi string) (types.WorkMetadata, error) {
	f.lookups = append(f.lookups, doi)
	if m, ok := f.byDOI[doi]; ok {
		return m, nil
	}
	return types.WorkMetadata{}, fmt.Errorf("looking up DOI %s: %w", doi, crossref.ErrNotFound)
}

func (f *fakeCatalog) SearchTitle(_ context.Context, title string) (types.WorkMetadata, error) {
	if f.err != nil {
		return types.WorkMetadata{}, f.err
	}
	if m, ok := f.byTitle[title]; ok {
		return m, nil
	}
	return types.WorkMetadata{}, crossref.ErrNotFound
}

func (f *fakeCatalog) SearchKeywords(_ context.Context, _ string, _ int) ([]types.WorkMetadata, error) {
	return f.keywords, f.err
}

var memoryPaper = types.WorkMetadata{
	Title:   "Working memory and attention",
	Authors: []string{"Smith, Jane", "Lee, Wei"},
	Year:    "2020",
	Journal: "Cognition",
	DOI:     "10.1000/wm.1",
}

func TestDetectMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"", ModeUnknown},
		{"   ", ModeUnknown},
		{"10.1037/xge0000001", ModeDOI},
		{"https://doi.org/10.1037/xge0000001", ModeDOI},
		{"doi:abc/123", ModeDOI},
		{"See Smith (2020) at 10.1000/wm.1 for details", ModeDOI},
		{`"Working memory and attention"`, ModeTitle},
		{"'Working memory'", ModeTitle},
		{"“Working memory”", ModeTitle},
		{"Smith, J., & Lee, K. (2020). Working memory limits.", ModeReference},
		{"Smith and Lee (2020) memory", ModeKeyword},
		{"working memory attention", ModeKeyword},
		{`"`, ModeKeyword},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMode(tt.input))
		})
	}
}

func TestExtractDOI(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10.1037/xge0000001.", "10.1037/xge0000001"},
		{"https://dx.doi.org/10.1000/abc", "10.1000/abc"},
		{"DOI: 10.1000/abc;", "10.1000/abc"},
		{"doi:custom-id", "custom-id"},
		{"https://doi.org/", ""},
		{"no identifier here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDOI(tt.input))
		})
	}
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.WorkMetadata
	}{
		{
			name: "full APA entry",
			text: "Smith, J., & Lee, K. (2020). Working memory limits. *Cognitive Science*, 12(3), 1-10. https://doi.org/10.1000/xyz",
			want: types.WorkMetadata{
				Title:   "Working memory limits",
				Authors: []string{"Smith, J.", "Lee, K."},
				Year:    "2020",
				Journal: "Cognitive Science",
				DOI:     "10.1000/xyz",
			},
		},
		{
			name: "no initials falls back to splitting the author part",
			text: "Brown; Green (2018). Title here.",
			want: types.WorkMetadata{
				Title:   "Title here",
				Authors: []string{"Brown", "Green"},
				Year:    "2018",
			},
		},
		{
			name: "no year",
			text: "Nobody, A. Untitled notes",
			want: types.WorkMetadata{
				Authors: []string{"Nobody", "A. Untitled notes"},
				Year:    "n.d.",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseReference(tt.text))
		})
	}
}

func TestSelectBest(t *testing.T) {
	table := types.WorkMetadata{Title: "Table 2: Results", Authors: []string{"A, B"}, Year: "2020", DOI: "10.1/x"}
	fragment := types.WorkMetadata{Title: "Good title", Authors: []string{"A, B"}, Year: "2020", DOI: "10.1/x/fig-2"}
	article := types.WorkMetadata{Title: "Good title", Authors: []string{"A, B"}, Year: "2020", DOI: "10.1/x"}
	noAuthors := types.WorkMetadata{Title: "Good title", Year: "2021"}
	undated := types.WorkMetadata{Title: "Good title", Year: "n.d.", DOI: "10.1/x/table-1"}
	authored := types.WorkMetadata{Title: "Figure 1", Authors: []string{"C, D"}}

	tests := []struct {
		name   string
		metas  []types.WorkMetadata
		want   types.WorkMetadata
		wantOK bool
	}{
		{"empty", nil, types.WorkMetadata{}, false},
		{"skips tables and fragment DOIs", []types.WorkMetadata{table, fragment, article}, article, true},
		{"falls back to dated title", []types.WorkMetadata{table, fragment, noAuthors}, fragment, true},
		{"falls back to authors", []types.WorkMetadata{table, undated, authored}, table, true},
		{"first result as last resort", []types.WorkMetadata{{Title: "Figure 3"}, {}}, types.WorkMetadata{Title: "Figure 3"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectBest(tt.metas)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSameWork(t *testing.T) {
	tests := []struct {
		name string
		a, b types.WorkMetadata
		want bool
	}{
		{"identical after normalizing", types.WorkMetadata{Title: "Working Memory: A Review"}, types.WorkMetadata{Title: "working memory a review"}, true},
		{"high token overlap", types.WorkMetadata{Title: "working memory and attention in children"}, types.WorkMetadata{Title: "working memory and attention in adults"}, true},
		{"low token overlap", types.WorkMetadata{Title: "working memory"}, types.WorkMetadata{Title: "visual attention span"}, false},
		{"same year and first author", types.WorkMetadata{Year: "2020", Authors: []string{"Smith, J."}}, types.WorkMetadata{Year: "2020", Authors: []string{"smith, Jane"}}, true},
		{"same author other year", types.WorkMetadata{Year: "2020", Authors: []string{"Smith, J."}}, types.WorkMetadata{Year: "2021", Authors: []string{"Smith, J."}}, false},
		{"nothing to compare", types.WorkMetadata{}, types.WorkMetadata{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameWork(tt.a, tt.b))
		})
	}
}

func TestGenerateDOI(t *testing.T) {
	cat := &fakeCatalog{byDOI: map[string]types.WorkMetadata{memoryPaper.DOI: memoryPaper}}
	g := New(cat, zaptest.NewLogger(t))

	res, err := g.Generate(context.Background(), "https://doi.org/10.1000/wm.1")
	require.NoError(t, err)
	assert.Equal(t, ModeDOI, res.Mode)
	assert.Equal(t, "Smith, Jane, Lee, Wei (2020). Working memory and attention. *Cognition*. https://doi.org/10.1000/wm.1", res.Reference)
	assert.Equal(t, types.CitationKeys{Parenthetical: "(Smith & Lee, 2020)", Narrative: "Smith and Lee (2020)"}, res.Citations)
	assert.Equal(t, []string{"10.1000/wm.1"}, cat.lookups)
}

func TestGenerateDOINotFound(t *testing.T) {
	g := New(&fakeCatalog{}, nil)
	_, err := g.Generate(context.Background(), "10.1000/missing")
	assert.ErrorIs(t, err, crossref.ErrNotFound)
}

func TestGenerateReference(t *testing.T) {
	g := New(&fakeCatalog{}, nil)
	res, err := g.Generate(context.Background(), "Smith, J., Lee, K., & Park, S. (2019). Memory. *Mind*.")
	require.NoError(t, err)
	assert.Equal(t, ModeReference, res.Mode)
	assert.Equal(t, "(Smith et al., 2019)", res.Citations.Parenthetical)
	assert.Equal(t, "Mind", res.Meta.Journal)
}

func TestGenerateTitle(t *testing.T) {
	cat := &fakeCatalog{byTitle: map[string]types.WorkMetadata{
		"Working memory and attention": memoryPaper,
		"Unrelated phrase":             {Title: "Something else entirely"},
	}}
	g := New(cat, nil)

	res, err := g.Generate(context.Background(), `"Working memory and attention"`)
	require.NoError(t, err)
	assert.Equal(t, ModeTitle, res.Mode)
	assert.Equal(t, memoryPaper, res.Meta)

	_, err = g.Generate(context.Background(), `"Unrelated phrase"`)
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = g.Generate(context.Background(), `"Not in the catalog"`)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestGenerateTitleCatalogFailure(t *testing.T) {
	boom := errors.New("catalog down")
	g := New(&fakeCatalog{err: boom}, nil)
	_, err := g.Generate(context.Background(), `"Any title"`)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNoMatch)
}

func TestGenerateKeyword(t *testing.T) {
	mismatched := memoryPaper
	mismatched.DOI = "10.1000/other"

	tests := []struct {
		name     string
		catalog  *fakeCatalog
		wantDOI  string
		wantNote string
	}{
		{
			name: "verified DOI is kept",
			catalog: &fakeCatalog{
				keywords: []types.WorkMetadata{memoryPaper},
				byDOI:    map[string]types.WorkMetadata{memoryPaper.DOI: memoryPaper},
			},
			wantDOI:  "10.1000/wm.1",
			wantNote: "Detected keyword input; showing the top 3 results.",
		},
		{
			name: "mismatched DOI is dropped",
			catalog: &fakeCatalog{
				keywords: []types.WorkMetadata{mismatched},
				byDOI:    map[string]types.WorkMetadata{"10.1000/other": {Title: "Plant growth", Year: "1999"}},
			},
			wantNote: "Detected keyword input; showing the top 3 results. The DOI's metadata did not match the candidate, so it was omitted.",
		},
		{
			name:     "failed lookup drops DOI",
			catalog:  &fakeCatalog{keywords: []types.WorkMetadata{mismatched}},
			wantNote: "Detected keyword input; showing the top 3 results. The DOI's metadata could not be retrieved, so it was omitted.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New(tt.catalog, nil).Generate(context.Background(), "working memory")
			require.NoError(t, err)
			assert.Equal(t, ModeKeyword, res.Mode)
			assert.Equal(t, tt.wantDOI, res.Meta.DOI)
			assert.Equal(t, tt.wantNote, res.Note)
			assert.Len(t, res.Candidates, 1)
		})
	}
}

func TestGenerateKeywordNoResults(t *testing.T) {
	res, err := New(&fakeCatalog{}, nil).Generate(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Empty(t, res.Reference)
	assert.Empty(t, res.Candidates)
}

func TestGenerateUnknown(t *testing.T) {
	res, err := New(&fakeCatalog{}, nil).Generate(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrUnknownInput)
	assert.Equal(t, ModeUnknown, res.Mode)
}
