// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/citecheck/internal/document"
	"github.com/pdiddy/citecheck/internal/match"
	"github.com/pdiddy/citecheck/internal/validate"
	"github.com/pdiddy/citecheck/pkg/types"
)

const (
	alyKojimaRef = "Aly, M., & Kojima, H. (2020). Test paper. Journal, 10, 1-10."

	scenarioA = "(Aly & Kojima, 2020)\nReferences\n" + alyKojimaRef

	scenarioB = "(Klimesch, 1999; Klimesch and Sauseng, 2007; Cooke, 2015)\n" +
		"References\n" +
		"Klimesch, W. (1999). EEG alpha and theta oscillations. Brain Research Reviews, 29, 169-195.\n" +
		"Klimesch, W., Sauseng, P., & Hanslmayr, S. (2007). EEG alpha oscillations. Brain Research Reviews, 53, 63-88.\n" +
		"Cooke, M. (2015). Listening in noise. Journal, 1, 1-2."

	scenarioC = "(Lopez-Calderon & Luck, 2014)\nReferences\n" +
		"Lopez-Calderon, J., & Luck, S. J. (2014). ERPLAB: An open-source toolbox. Frontiers in Human Neuroscience, 8, 213."

	scenarioD = "(Wang & Smith, 2015;Cooke, 2015)\nReferences\n" +
		"Wang, L., & Smith, J. (2015). Title A. Journal, 1.\n" +
		"Cooke, M. (2015). Title B. Journal, 2."

	scenarioE = "(Kojima, 2020)\nReferences\n" + alyKojimaRef
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	return New(WithLogger(zaptest.NewLogger(t)))
}

func allCited(t *testing.T, r types.Report) {
	t.Helper()
	for _, s := range r.CitationStatus {
		assert.True(t, s.Cited, "reference %q should be cited", s.Reference)
	}
}

func TestAnalyzeScenarioA(t *testing.T) {
	r := newTestAnalyzer(t).Analyze(scenarioA)

	assert.Empty(t, r.MissingReferences)
	assert.Empty(t, r.FormatErrors)
	require.Len(t, r.CitationStatus, 1)
	assert.True(t, r.CitationStatus[0].Cited)
	assert.Equal(t, "Aly, Kojima", r.CitationStatus[0].AuthorsDisplay)
	assert.Equal(t, "(Aly & Kojima, 2020)", r.CitationStatus[0].Parenthetical)
	assert.Equal(t, "Aly and Kojima (2020)", r.CitationStatus[0].Narrative)
	assert.Equal(t, 1, r.TotalReferences)
	assert.Equal(t, 1, r.TotalCitations)
	assert.Equal(t, types.StatusExcellent, r.Summary.OverallStatus)
}

func TestAnalyzeScenarioB(t *testing.T) {
	r := newTestAnalyzer(t).Analyze(scenarioB)

	assert.Empty(t, r.MissingReferences)
	require.Len(t, r.CitationStatus, 3)
	allCited(t, r)
	assert.Equal(t, 3, r.TotalCitations)

	require.Len(t, r.FormatErrors, 1)
	fe := r.FormatErrors[0]
	assert.Equal(t, "(Klimesch and Sauseng, 2007)", fe.Citation)
	assert.Contains(t, fe.Error, `three or more authors must be cited with "et al."`)
	assert.Contains(t, fe.Error, "(Klimesch et al., 2007)")
}

func TestAnalyzeScenarioC(t *testing.T) {
	assert.Equal(t, "Lopez-Calderon", match.ExtractLeadAuthor("(Lopez-Calderon & Luck, 2014)"))

	r := newTestAnalyzer(t).Analyze(scenarioC)

	assert.Empty(t, r.MissingReferences)
	assert.Empty(t, r.FormatErrors)
	require.Len(t, r.CitationStatus, 1)
	assert.True(t, r.CitationStatus[0].Cited)
	assert.Equal(t, "Lopez-Calderon, Luck", r.CitationStatus[0].AuthorsDisplay)
}

func TestAnalyzeScenarioD(t *testing.T) {
	r := newTestAnalyzer(t).Analyze(scenarioD)

	require.Len(t, r.FormatErrors, 1)
	assert.Equal(t, "(Wang & Smith, 2015;Cooke, 2015)", r.FormatErrors[0].Citation)
	assert.Contains(t, r.FormatErrors[0].Error, "semicolon must be followed by a space")

	assert.Empty(t, r.MissingReferences)
	require.Len(t, r.CitationStatus, 2)
	allCited(t, r)
	assert.Equal(t, 2, r.TotalCitations)
}

func TestAnalyzeScenarioE(t *testing.T) {
	r := newTestAnalyzer(t).Analyze(scenarioE)

	require.Len(t, r.MissingReferences, 1)
	miss := r.MissingReferences[0]
	assert.Equal(t, "(Kojima, 2020)", miss.Citation)
	assert.Contains(t, miss.Suggestion, "(Aly & Kojima, 2020)")

	require.Len(t, r.CitationStatus, 1)
	assert.False(t, r.CitationStatus[0].Cited)
	assert.Equal(t, 1, r.Summary.TotalUncited)
	assert.Equal(t, types.StatusGood, r.Summary.OverallStatus)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	a := newTestAnalyzer(t)
	for _, text := range []string{scenarioA, scenarioB, scenarioC, scenarioD, scenarioE} {
		assert.Equal(t, a.Analyze(text), a.Analyze(text))
	}
}

func TestAnalyzeSections(t *testing.T) {
	text := "Introduction\nAs Cooke (2015) showed.\nDiscussion\nSee (Nobody, 2001).\nReferences\nCooke, M. (2015). T. J."
	r := newTestAnalyzer(t).Analyze(text)

	require.Len(t, r.MissingReferences, 1)
	assert.Equal(t, "Discussion", r.MissingReferences[0].Section)
	assert.Equal(t, types.Parenthetical, r.MissingReferences[0].Type)
	allCited(t, r)
}

func TestAnalyzeMalformed(t *testing.T) {
	text := "As reported Aly & Kojima, 2020) earlier.\nReferences\n" + alyKojimaRef
	r := newTestAnalyzer(t).Analyze(text)

	require.Len(t, r.FormatErrors, 1)
	assert.Equal(t, "Aly & Kojima, 2020)", r.FormatErrors[0].Citation)
	assert.Equal(t, validate.MsgMissingOpenParen, r.FormatErrors[0].Error)
	assert.Empty(t, r.MissingReferences, "malformed citations are still matched")
	allCited(t, r)
}

func TestAnalyzeWithoutHeading(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := New(WithLogger(zap.New(core)))

	r := a.Analyze("Plain text without any citations or reference list at all.")

	assert.Equal(t, 0, r.TotalCitations)
	assert.Equal(t, 0, r.TotalReferences)
	assert.Equal(t, types.StatusExcellent, r.Summary.OverallStatus)
	assert.Equal(t, 1, logs.FilterMessage("no reference heading found, splitting positionally").Len())
	assert.Equal(t, 1, logs.FilterMessage("analysis complete").Len())
}

func TestAnalyzeEmptyListsMarshalAsArrays(t *testing.T) {
	r := New().Analyze("")
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"format_errors":[]`)
	assert.Contains(t, string(data), `"missing_references":[]`)
	assert.Contains(t, string(data), `"citation_status":[]`)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		errors, missing, uncited int
		want                     types.OverallStatus
	}{
		{0, 0, 0, types.StatusExcellent},
		{1, 0, 0, types.StatusGood},
		{0, 0, 1, types.StatusGood},
		{3, 2, 3, types.StatusGood},
		{3, 2, 4, types.StatusNeedsRevision},
		{0, 0, 4, types.StatusNeedsRevision},
		{6, 0, 0, types.StatusNeedsRevision},
		{5, 5, 9, types.StatusNeedsRevision},
		{6, 5, 0, types.StatusNeedsMajorRevision},
	}
	for _, tt := range tests {
		got := Summarize(tt.errors, tt.missing, tt.uncited)
		assert.Equal(t, tt.want, got.OverallStatus, "errors=%d missing=%d uncited=%d", tt.errors, tt.missing, tt.uncited)
		assert.Equal(t, tt.errors, got.TotalErrors)
		assert.Equal(t, tt.missing, got.TotalMissing)
		assert.Equal(t, tt.uncited, got.TotalUncited)
		assert.NotEmpty(t, got.StatusMessage)
	}
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.txt")
	require.NoError(t, os.WriteFile(path, []byte(scenarioA), 0o644))

	a := newTestAnalyzer(t)
	r, err := a.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, a.Analyze(scenarioA), r)

	_, err = a.AnalyzeFile(context.Background(), filepath.Join(dir, "paper.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot open document")
	assert.ErrorIs(t, err, document.ErrUnsupported)
}

func TestAnalyzeFiles(t *testing.T) {
	dir := t.TempDir()
	good1 := filepath.Join(dir, "a.txt")
	good2 := filepath.Join(dir, "e.md")
	require.NoError(t, os.WriteFile(good1, []byte(scenarioA), 0o644))
	require.NoError(t, os.WriteFile(good2, []byte(scenarioE), 0o644))
	missing := filepath.Join(dir, "missing.txt")
	unsupported := filepath.Join(dir, "paper.pdf")

	paths := []string{good1, missing, good2, unsupported}
	results, summary, err := newTestAnalyzer(t).AnalyzeFiles(context.Background(), paths, 2)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
	}
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.Error(t, results[3].Err)
	assert.Equal(t, types.StatusExcellent, results[0].Report.Summary.OverallStatus)
	assert.Len(t, results[2].Report.MissingReferences, 1)

	assert.Equal(t, BatchSummary{Analyzed: 2, Failed: 2}, summary)
	assert.Equal(t, 4, summary.Total())
	assert.True(t, summary.HasFailures())
}

func TestAnalyzeFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := New().AnalyzeFiles(ctx, []string{"a.txt", "b.txt"}, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
