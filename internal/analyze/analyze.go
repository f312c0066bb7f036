// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze runs the citation check over a whole manuscript: it
// splits off the bibliography, extracts and matches citations, validates
// their format and grades the result.
package analyze

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/citecheck/internal/bibliography"
	"github.com/pdiddy/citecheck/internal/citekey"
	"github.com/pdiddy/citecheck/internal/document"
	"github.com/pdiddy/citecheck/internal/extract"
	"github.com/pdiddy/citecheck/internal/match"
	"github.com/pdiddy/citecheck/internal/validate"
	"github.com/pdiddy/citecheck/pkg/types"
)

// Analyzer checks manuscripts. It holds no per-document state and is safe
// for concurrent use.
type Analyzer struct {
	logger *zap.Logger
	load   func(path string) (string, error)
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// New returns an Analyzer that reads documents with document.Load.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		logger: zap.NewNop(),
		load:   document.Load,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze checks the citations of one manuscript given as newline-joined
// paragraphs. It never fails; problems in the text are reported as data.
func (a *Analyzer) Analyze(text string) types.Report {
	body, bib, found := bibliography.Split(text)
	if !found {
		a.logger.Debug("no reference heading found, splitting positionally",
			zap.Int("body_bytes", len(body)),
			zap.Int("bibliography_bytes", len(bib)),
		)
	}

	refs := citekey.Keyed(bibliography.ParseReferences(bib))
	citations := extract.Extract(body)
	a.logger.Debug("parsed manuscript",
		zap.Int("references", len(refs)),
		zap.Int("citations", len(citations)),
	)

	matched := match.MatchCitations(citations, refs)
	formatErrors := validate.Validate(citations, refs)

	status := make([]types.CitationStatus, len(refs))
	uncited := 0
	for i, r := range refs {
		cited := matched.Cited[r.ID]
		if !cited {
			uncited++
		}
		status[i] = types.CitationStatus{
			Reference:      r.RawText,
			AuthorsDisplay: authorsDisplay(r.Authors),
			Year:           r.Year,
			Parenthetical:  r.Parenthetical,
			Narrative:      r.Narrative,
			Cited:          cited,
		}
	}

	report := types.Report{
		FormatErrors:      nonNil(formatErrors),
		MissingReferences: nonNil(matched.Missing),
		CitationStatus:    status,
		TotalReferences:   len(refs),
		TotalCitations:    len(citations),
		Summary:           Summarize(len(formatErrors), len(matched.Missing), uncited),
	}

	a.logger.Info("analysis complete",
		zap.String("status", string(report.Summary.OverallStatus)),
		zap.Int("format_errors", report.Summary.TotalErrors),
		zap.Int("missing", report.Summary.TotalMissing),
		zap.Int("uncited", report.Summary.TotalUncited),
	)
	return report
}

// AnalyzeFile loads and analyzes the document at path. Failing to read the
// document is the only error.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (types.Report, error) {
	if err := ctx.Err(); err != nil {
		return types.Report{}, err
	}
	text, err := a.load(path)
	if err != nil {
		return types.Report{}, fmt.Errorf("cannot open document %s: %w", path, err)
	}
	a.logger.Debug("loaded document", zap.String("path", path), zap.Int("bytes", len(text)))
	return a.Analyze(text), nil
}

// FileResult is the outcome of analyzing one file in a batch.
type FileResult struct {
	Path   string
	Report types.Report
	Err    error
}

// BatchSummary counts the outcomes of a batch.
type BatchSummary struct {
	Analyzed int
	Failed   int
}

// Total returns the number of files processed.
func (s BatchSummary) Total() int {
	return s.Analyzed + s.Failed
}

// HasFailures reports whether any file could not be analyzed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// add records one file's outcome.
func (s *BatchSummary) add(r FileResult) {
	if r.Err != nil {
		s.Failed++
		return
	}
	s.Analyzed++
}

// AnalyzeFiles analyzes paths with at most concurrency files in flight
// (unlimited when concurrency <= 0). A file that cannot be read is
// recorded in its FileResult and does not stop the batch. Results keep the
// order of paths. The returned error is non-nil only when ctx ends first.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, paths []string, concurrency int) ([]FileResult, BatchSummary, error) {
	results := make([]FileResult, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, path := range paths {
		g.Go(func() error {
			report, err := a.AnalyzeFile(gCtx, path)
			if err != nil && gCtx.Err() != nil {
				return gCtx.Err()
			}
			if err != nil {
				a.logger.Warn("document skipped", zap.String("path", path), zap.Error(err))
			}
			results[i] = FileResult{Path: path, Report: report, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, BatchSummary{}, err
	}

	var summary BatchSummary
	for _, r := range results {
		summary.add(r)
	}
	return results, summary, nil
}

// Thresholds for the overall status tiers.
const (
	goodMaxProblems     = 5
	goodMaxUncited      = 3
	revisionMaxProblems = 10
)

var statusMessages = map[types.OverallStatus]string{
	types.StatusExcellent:          "All citations match the reference list and follow APA 7 formatting.",
	types.StatusGood:               "Citations are mostly correct; a few minor issues need attention.",
	types.StatusNeedsRevision:      "Several citation problems should be revised.",
	types.StatusNeedsMajorRevision: "Citations need major revision before submission.",
}

// Summarize grades a report from its format error, missing citation and
// uncited reference counts.
func Summarize(errors, missing, uncited int) types.Summary {
	problems := errors + missing
	var status types.OverallStatus
	switch {
	case problems == 0 && uncited == 0:
		status = types.StatusExcellent
	case problems <= goodMaxProblems && uncited <= goodMaxUncited:
		status = types.StatusGood
	case problems <= revisionMaxProblems:
		status = types.StatusNeedsRevision
	default:
		status = types.StatusNeedsMajorRevision
	}
	return types.Summary{
		TotalErrors:   errors,
		TotalMissing:  missing,
		TotalUncited:  uncited,
		OverallStatus: status,
		StatusMessage: statusMessages[status],
	}
}

// authorsDisplay lists the surnames of a reference's authors.
func authorsDisplay(authors []string) string {
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = citekey.Surname(a)
	}
	return strings.Join(names, ", ")
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
